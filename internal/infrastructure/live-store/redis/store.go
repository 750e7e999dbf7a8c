package redislivestore

import (
	"context"
	"fmt"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/ark-network/launchsite/internal/core/ports"
	"github.com/redis/go-redis/v9"
)

const snapshotPrefix = "launchsite:snapshot:"

type liveStore struct {
	rdb          *redis.Client
	snapshots    *KVStore[domain.SiteSnapshot]
	numOfRetries int
}

// NewLiveStore connects to the redis instance at the given url.
func NewLiveStore(url string, numOfRetries int) (ports.LiveStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewLiveStoreWithClient(rdb, numOfRetries), nil
}

func NewLiveStoreWithClient(rdb *redis.Client, numOfRetries int) ports.LiveStore {
	if numOfRetries <= 0 {
		numOfRetries = 1
	}
	return &liveStore{
		rdb:          rdb,
		snapshots:    NewRedisKVStore[domain.SiteSnapshot](rdb, snapshotPrefix),
		numOfRetries: numOfRetries,
	}
}

func (s *liveStore) Upsert(ctx context.Context, snapshot domain.SiteSnapshot) error {
	var err error
	for attempt := 0; attempt < s.numOfRetries; attempt++ {
		if err = s.snapshots.Set(ctx, snapshot.Id, &snapshot); err == nil {
			return nil
		}
	}
	return fmt.Errorf("failed to upsert snapshot of site %s: %w", snapshot.Id, err)
}

func (s *liveStore) Get(ctx context.Context, siteId string) (*domain.SiteSnapshot, error) {
	snapshot, err := s.snapshots.Get(ctx, siteId)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot of site %s: %w", siteId, err)
	}
	return snapshot, nil
}

func (s *liveStore) Close() {
	_ = s.rdb.Close()
}
