package db_test

import (
	"context"
	"math"
	"os"
	"testing"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/ark-network/launchsite/internal/core/ports"
	"github.com/ark-network/launchsite/internal/infrastructure/db"
	"github.com/stretchr/testify/require"
)

var (
	owner = domain.ActorId{0xff}
	alice = domain.ActorId{0x01}
	bob   = domain.ActorId{0x02}

	testEnvironment = domain.Environment{
		Altitude:     120000,
		FuelPrice:    10,
		PayloadValue: 100,
	}
)

type staticEnvironment struct{}

func (staticEnvironment) Draw() (domain.Environment, error) {
	return testEnvironment, nil
}

func TestService(t *testing.T) {
	dbDir := t.TempDir()
	tests := []struct {
		name   string
		config db.ServiceConfig
	}{
		{
			name: "repo_manager_with_badger_stores",
			config: db.ServiceConfig{
				EventStoreType:   "badger",
				DataStoreType:    "badger",
				EventStoreConfig: []interface{}{"", nil},
				DataStoreConfig:  []interface{}{"", nil},
			},
		},
		{
			name: "repo_manager_with_sqlite_stores",
			config: db.ServiceConfig{
				EventStoreType:   "badger",
				DataStoreType:    "sqlite",
				EventStoreConfig: []interface{}{"", nil},
				DataStoreConfig:  []interface{}{dbDir},
			},
		},
	}

	if dsn := os.Getenv("LAUNCH_TEST_POSTGRES_URL"); dsn != "" {
		tests = append(tests, struct {
			name   string
			config db.ServiceConfig
		}{
			name: "repo_manager_with_postgres_stores",
			config: db.ServiceConfig{
				EventStoreType:   "badger",
				DataStoreType:    "postgres",
				EventStoreConfig: []interface{}{"", nil},
				DataStoreConfig:  []interface{}{dsn},
			},
		})
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := db.NewService(tt.config)
			require.NoError(t, err)
			defer svc.Close()

			testSiteEventRepository(t, svc)
			testLaunchRepository(t, svc)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := db.NewService(db.ServiceConfig{
			EventStoreType: "postgres",
			DataStoreType:  "badger",
		})
		require.Error(t, err)

		_, err = db.NewService(db.ServiceConfig{
			EventStoreType: "badger",
			DataStoreType:  "postgres",
		})
		require.Error(t, err)
	})
}

func testSiteEventRepository(t *testing.T, svc ports.RepoManager) {
	t.Run("test_site_event_repository", func(t *testing.T) {
		ctx := context.Background()

		site, err := domain.NewLaunchSite("Cape", owner)
		require.NoError(t, err)

		_, err = svc.Events().Load(ctx, site.Id)
		require.Error(t, err)

		_, err = site.RegisterParticipant(alice, "Alice")
		require.NoError(t, err)
		_, err = site.RegisterParticipant(bob, "Bob")
		require.NoError(t, err)

		err = svc.Events().Save(ctx, site.Id, site.Events()...)
		require.NoError(t, err)

		loaded, err := svc.Events().Load(ctx, site.Id)
		require.NoError(t, err)
		require.Equal(t, site.Snapshot(), loaded.Snapshot())

		committed := len(site.Events())
		_, err = site.StartSession(owner, staticEnvironment{})
		require.NoError(t, err)
		_, err = site.RegisterOnLaunch(alice, 300, 100)
		require.NoError(t, err)
		_, err = site.RegisterOnLaunch(bob, 50, math.MaxUint32)
		require.NoError(t, err)
		_, err = site.ExecuteSession()
		require.NoError(t, err)
		_, err = site.RenameParticipant(bob, "Robert")
		require.NoError(t, err)

		err = svc.Events().Save(ctx, site.Id, site.Events()[committed:]...)
		require.NoError(t, err)
		// Saving nothing is a no-op.
		require.NoError(t, svc.Events().Save(ctx, site.Id))

		other, err := domain.NewLaunchSite("Kourou", owner)
		require.NoError(t, err)
		require.NoError(t, svc.Events().Save(ctx, other.Id, other.Events()...))

		loaded, err = svc.Events().Load(ctx, site.Id)
		require.NoError(t, err)
		require.Equal(t, site.Snapshot(), loaded.Snapshot())
		require.Equal(t, uint(len(site.Events())), loaded.Version)
		require.Equal(t, site.Version, loaded.Version)

		loadedOther, err := svc.Events().Load(ctx, other.Id)
		require.NoError(t, err)
		require.Equal(t, other.Snapshot(), loadedOther.Snapshot())
	})
}

func testLaunchRepository(t *testing.T, svc ports.RepoManager) {
	t.Run("test_launch_repository", func(t *testing.T) {
		ctx := context.Background()
		siteId := "site-" + t.Name()

		launches := []domain.Launch{
			{
				SessionId:   "session-2",
				SiteId:      siteId,
				Number:      2,
				Environment: testEnvironment,
				StartedAt:   1700000100,
				EndedAt:     1700000200,
				Outcomes: []domain.Outcome{
					{Participant: alice, Survived: true, Altitude: 120000, Earnings: 10000, RoundsSurvived: 3, FuelLeft: 300},
					{Participant: bob, Survived: false, Altitude: 0, Earnings: math.MaxUint64, RoundsSurvived: 0, FuelLeft: 50},
				},
			},
			{
				SessionId:   "session-1",
				SiteId:      siteId,
				Number:      1,
				Environment: testEnvironment,
				StartedAt:   1700000000,
				EndedAt:     1700000050,
				Outcomes:    []domain.Outcome{},
			},
			{
				SessionId:   "session-other",
				SiteId:      "other-site",
				Number:      1,
				Environment: testEnvironment,
				Outcomes:    []domain.Outcome{},
			},
		}

		for _, launch := range launches {
			require.NoError(t, svc.Launches().AddLaunch(ctx, launch))
		}

		launch, err := svc.Launches().GetLaunchWithSessionId(ctx, "session-2")
		require.NoError(t, err)
		require.Equal(t, launches[0], *launch)

		_, err = svc.Launches().GetLaunchWithSessionId(ctx, "unknown")
		require.Error(t, err)

		got, err := svc.Launches().GetLaunches(ctx, siteId)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, uint64(1), got[0].Number)
		require.Equal(t, uint64(2), got[1].Number)
		require.Equal(t, launches[0].Outcomes, got[1].Outcomes)

		// Adding the same launch twice is idempotent.
		require.NoError(t, svc.Launches().AddLaunch(ctx, launches[0]))
		got, err = svc.Launches().GetLaunches(ctx, siteId)
		require.NoError(t, err)
		require.Len(t, got, 2)
	})
}
