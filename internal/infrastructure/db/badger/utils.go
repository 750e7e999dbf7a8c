package badgerdb

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/timshannon/badgerhold/v4"
)

// createDB opens the store and, when on disk, starts its value log GC. The
// returned func stops the GC, waiting for it to return, and must be called
// before closing the store.
func createDB(dbDir string, logger badger.Logger) (*badgerhold.Store, func(), error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, nil, err
	}

	if isInMemory {
		return db, func() {}, nil
	}

	ticker := time.NewTicker(30 * time.Minute)
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := db.Badger().RunValueLogGC(0.5); err != nil && err != badger.ErrNoRewrite {
					if logger != nil {
						logger.Errorf("%s", err)
					}
				}
			}
		}
	}()

	var once sync.Once
	stopGC := func() {
		once.Do(func() { close(done) })
		<-stopped
	}
	return db, stopGC, nil
}

func parseConfig(config []interface{}) (string, badger.Logger, error) {
	if len(config) != 2 {
		return "", nil, fmt.Errorf("invalid config")
	}
	baseDir, ok := config[0].(string)
	if !ok {
		return "", nil, fmt.Errorf("invalid base directory")
	}

	var logger badger.Logger
	if config[1] != nil {
		logger, ok = config[1].(badger.Logger)
		if !ok {
			return "", nil, fmt.Errorf("invalid logger")
		}
	}
	return baseDir, logger, nil
}

// deserializeEvent decodes the embedded SiteEvent first to know the concrete
// type of the event.
func deserializeEvent(buf []byte) (domain.Event, error) {
	var header domain.SiteEvent
	if err := json.Unmarshal(buf, &header); err != nil {
		return nil, fmt.Errorf("failed to decode event: %s", err)
	}

	switch header.Type {
	case domain.EventTypeSiteCreated:
		return decode[domain.SiteCreated](buf)
	case domain.EventTypeParticipantRegistered:
		return decode[domain.ParticipantRegistered](buf)
	case domain.EventTypeParticipantRenamed:
		return decode[domain.ParticipantRenamed](buf)
	case domain.EventTypeSessionStarted:
		return decode[domain.SessionStarted](buf)
	case domain.EventTypeLaunchRegistered:
		return decode[domain.LaunchRegistered](buf)
	case domain.EventTypeSessionExecuted:
		return decode[domain.SessionExecuted](buf)
	default:
		return nil, fmt.Errorf("unknown event type %d", header.Type)
	}
}

func decode[T domain.Event](buf []byte) (domain.Event, error) {
	var event T
	if err := json.Unmarshal(buf, &event); err != nil {
		return nil, err
	}
	return event, nil
}
