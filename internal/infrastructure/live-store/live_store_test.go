package livestore_test

import (
	"context"
	"os"
	"testing"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/ark-network/launchsite/internal/core/ports"
	inmemory "github.com/ark-network/launchsite/internal/infrastructure/live-store/inmemory"
	redislivestore "github.com/ark-network/launchsite/internal/infrastructure/live-store/redis"
	"github.com/stretchr/testify/require"
)

type staticEnvironment struct{}

func (staticEnvironment) Draw() (domain.Environment, error) {
	return domain.Environment{Altitude: 120000, FuelPrice: 10, PayloadValue: 100}, nil
}

func TestLiveStoreImplementations(t *testing.T) {
	stores := []struct {
		name  string
		store func(t *testing.T) ports.LiveStore
	}{
		{"inmemory", func(t *testing.T) ports.LiveStore { return inmemory.NewLiveStore() }},
		{"redis", func(t *testing.T) ports.LiveStore {
			url := os.Getenv("LAUNCH_TEST_REDIS_URL")
			if url == "" {
				t.Skip("LAUNCH_TEST_REDIS_URL not set")
			}
			store, err := redislivestore.NewLiveStore(url, 3)
			require.NoError(t, err)
			return store
		}},
	}

	for _, tt := range stores {
		t.Run(tt.name, func(t *testing.T) {
			store := tt.store(t)
			defer store.Close()
			runLiveStoreTests(t, store)
		})
	}
}

func runLiveStoreTests(t *testing.T, store ports.LiveStore) {
	ctx := context.Background()
	owner := domain.ActorId{0xff}

	site, err := domain.NewLaunchSite("Cape", owner)
	require.NoError(t, err)

	got, err := store.Get(ctx, site.Id)
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = site.RegisterParticipant(domain.ActorId{0x01}, "Alice")
	require.NoError(t, err)
	require.NoError(t, store.Upsert(ctx, site.Snapshot()))

	got, err = store.Get(ctx, site.Id)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, site.Snapshot(), *got)

	_, err = site.StartSession(owner, staticEnvironment{})
	require.NoError(t, err)
	_, err = site.RegisterOnLaunch(domain.ActorId{0x01}, 300, 100)
	require.NoError(t, err)
	require.NoError(t, store.Upsert(ctx, site.Snapshot()))

	got, err = store.Get(ctx, site.Id)
	require.NoError(t, err)
	require.Equal(t, site.Snapshot(), *got)
	require.NotNil(t, got.Session)
	require.Len(t, got.Session.Registrations, 1)
}
