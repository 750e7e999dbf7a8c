package db

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/ark-network/launchsite/internal/core/ports"
	badgerdb "github.com/ark-network/launchsite/internal/infrastructure/db/badger"
	pgdb "github.com/ark-network/launchsite/internal/infrastructure/db/postgres"
	sqlitedb "github.com/ark-network/launchsite/internal/infrastructure/db/sqlite"
)

var (
	eventStoreTypes = map[string]func(...interface{}) (domain.SiteEventRepository, error){
		"badger": badgerdb.NewSiteEventRepository,
	}
	launchStoreTypes = map[string]func(...interface{}) (domain.LaunchRepository, error){
		"badger":   badgerdb.NewLaunchRepository,
		"sqlite":   sqlitedb.NewLaunchRepository,
		"postgres": pgdb.NewLaunchRepository,
	}
)

const (
	sqliteDbFile = "sqlite.db"
)

type ServiceConfig struct {
	EventStoreType string
	DataStoreType  string

	EventStoreConfig []interface{}
	DataStoreConfig  []interface{}
}

type service struct {
	eventStore  domain.SiteEventRepository
	launchStore domain.LaunchRepository
}

func NewService(config ServiceConfig) (ports.RepoManager, error) {
	eventStoreFactory, ok := eventStoreTypes[config.EventStoreType]
	if !ok {
		return nil, fmt.Errorf("invalid event store type: %s", config.EventStoreType)
	}

	launchStoreFactory, ok := launchStoreTypes[config.DataStoreType]
	if !ok {
		return nil, fmt.Errorf("invalid data store type: %s", config.DataStoreType)
	}

	dataStoreConfig := config.DataStoreConfig
	switch config.DataStoreType {
	case "sqlite":
		db, err := openSqlite(config.DataStoreConfig)
		if err != nil {
			return nil, err
		}
		dataStoreConfig = []interface{}{db}
	case "postgres":
		db, err := openPostgres(config.DataStoreConfig)
		if err != nil {
			return nil, err
		}
		dataStoreConfig = []interface{}{db}
	}

	eventStore, err := eventStoreFactory(config.EventStoreConfig...)
	if err != nil {
		return nil, fmt.Errorf("failed to create event store: %w", err)
	}

	launchStore, err := launchStoreFactory(dataStoreConfig...)
	if err != nil {
		eventStore.Close()
		return nil, fmt.Errorf("failed to create launch store: %w", err)
	}

	return &service{
		eventStore:  eventStore,
		launchStore: launchStore,
	}, nil
}

func (s *service) Events() domain.SiteEventRepository {
	return s.eventStore
}

func (s *service) Launches() domain.LaunchRepository {
	return s.launchStore
}

func (s *service) Close() {
	s.eventStore.Close()
	s.launchStore.Close()
}

func openSqlite(config []interface{}) (*sql.DB, error) {
	if len(config) != 1 {
		return nil, errors.New("invalid config")
	}

	baseDir, ok := config[0].(string)
	if !ok {
		return nil, errors.New("invalid config")
	}

	db, err := sqlitedb.OpenDb(filepath.Join(baseDir, sqliteDbFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	if err := sqlitedb.MigrateDb(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
	}

	return db, nil
}

func openPostgres(config []interface{}) (*sql.DB, error) {
	if len(config) != 1 {
		return nil, errors.New("invalid config")
	}

	dsn, ok := config[0].(string)
	if !ok || dsn == "" {
		return nil, errors.New("invalid config: missing postgres dsn")
	}

	db, err := pgdb.OpenDb(dsn)
	if err != nil {
		return nil, err
	}

	if err := pgdb.MigrateDb(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate postgres: %w", err)
	}

	return db, nil
}
