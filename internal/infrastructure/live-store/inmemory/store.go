package inmemorylivestore

import (
	"context"
	"sync"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/ark-network/launchsite/internal/core/ports"
)

type liveStore struct {
	lock      sync.RWMutex
	snapshots map[string]domain.SiteSnapshot
}

func NewLiveStore() ports.LiveStore {
	return &liveStore{
		snapshots: make(map[string]domain.SiteSnapshot),
	}
}

func (s *liveStore) Upsert(_ context.Context, snapshot domain.SiteSnapshot) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.snapshots[snapshot.Id] = snapshot
	return nil
}

func (s *liveStore) Get(_ context.Context, siteId string) (*domain.SiteSnapshot, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	snapshot, ok := s.snapshots[siteId]
	if !ok {
		return nil, nil
	}
	return &snapshot, nil
}

func (s *liveStore) Close() {}
