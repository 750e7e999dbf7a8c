package badgerdb

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"
)

const launchStoreDir = "launches"

type launchRepository struct {
	store  *badgerhold.Store
	stopGC func()
}

func NewLaunchRepository(config ...interface{}) (domain.LaunchRepository, error) {
	baseDir, logger, err := parseConfig(config)
	if err != nil {
		return nil, err
	}

	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, launchStoreDir)
	}
	store, stopGC, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open launch store: %s", err)
	}

	return &launchRepository{store, stopGC}, nil
}

func (r *launchRepository) AddLaunch(
	ctx context.Context, launch domain.Launch,
) (err error) {
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxUpsert(tx, launch.SessionId, launch)
	} else {
		err = r.store.Upsert(launch.SessionId, launch)
	}
	return
}

func (r *launchRepository) GetLaunchWithSessionId(
	ctx context.Context, sessionId string,
) (*domain.Launch, error) {
	query := badgerhold.Where("SessionId").Eq(sessionId)
	launches, err := r.findLaunches(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(launches) <= 0 {
		return nil, fmt.Errorf("session %s: %w", sessionId, domain.ErrLaunchNotFound)
	}
	launch := &launches[0]
	return launch, nil
}

func (r *launchRepository) GetLaunches(
	ctx context.Context, siteId string,
) ([]domain.Launch, error) {
	query := badgerhold.Where("SiteId").Eq(siteId).SortBy("Number")
	return r.findLaunches(ctx, query)
}

func (r *launchRepository) Close() {
	r.stopGC()
	r.store.Close()
}

func (r *launchRepository) findLaunches(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Launch, error) {
	var launches []domain.Launch
	var err error

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxFind(tx, &launches, query)
	} else {
		err = r.store.Find(&launches, query)
	}

	return launches, err
}
