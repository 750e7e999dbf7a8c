package badgerdb

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"
)

const eventStoreDir = "site-events"

// eventRecord is one entry of a site journal, Seq is its position starting
// from 0.
type eventRecord struct {
	SiteId string `badgerholdIndex:"SiteId"`
	Seq    uint64
	Type   string
	Data   []byte
}

type eventRepository struct {
	store  *badgerhold.Store
	stopGC func()

	lock    *sync.Mutex
	nextSeq map[string]uint64
}

func NewSiteEventRepository(config ...interface{}) (domain.SiteEventRepository, error) {
	baseDir, logger, err := parseConfig(config)
	if err != nil {
		return nil, err
	}

	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, eventStoreDir)
	}
	store, stopGC, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open site events store: %s", err)
	}
	return &eventRepository{
		store:   store,
		stopGC:  stopGC,
		lock:    &sync.Mutex{},
		nextSeq: make(map[string]uint64),
	}, nil
}

// Save appends the events to the journal of the site, all or none of them.
func (r *eventRepository) Save(
	_ context.Context, id string, events ...domain.Event,
) error {
	if len(events) <= 0 {
		return nil
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	seq, err := r.getNextSeq(id)
	if err != nil {
		return err
	}

	records := make([]eventRecord, 0, len(events))
	for i, event := range events {
		buf, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to encode %s event: %s", event.GetType(), err)
		}
		records = append(records, eventRecord{
			SiteId: id,
			Seq:    seq + uint64(i),
			Type:   event.GetType().String(),
			Data:   buf,
		})
	}

	if err := r.store.Badger().Update(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := r.store.TxInsert(tx, recordKey(id, record.Seq), record); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to append events of site %s: %s", id, err)
	}

	r.nextSeq[id] = seq + uint64(len(records))
	return nil
}

func (r *eventRepository) Load(
	_ context.Context, id string,
) (*domain.LaunchSite, error) {
	var records []eventRecord
	query := badgerhold.Where("SiteId").Eq(id).Index("SiteId").SortBy("Seq")
	if err := r.store.Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to get events of site %s: %s", id, err)
	}
	if len(records) <= 0 {
		return nil, fmt.Errorf("site %s not found", id)
	}

	events := make([]domain.Event, 0, len(records))
	for i, record := range records {
		if record.Seq != uint64(i) {
			return nil, fmt.Errorf("journal of site %s has a gap at position %d", id, i)
		}
		event, err := deserializeEvent(record.Data)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return domain.NewLaunchSiteFromEvents(events), nil
}

func (r *eventRepository) Close() {
	r.stopGC()
	r.store.Close()
}

// getNextSeq returns the position of the next event of the site, counting the
// stored ones only the first time the site is seen.
func (r *eventRepository) getNextSeq(id string) (uint64, error) {
	if seq, ok := r.nextSeq[id]; ok {
		return seq, nil
	}
	count, err := r.store.Count(
		&eventRecord{}, badgerhold.Where("SiteId").Eq(id).Index("SiteId"),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to count events of site %s: %s", id, err)
	}
	r.nextSeq[id] = count
	return count, nil
}

func recordKey(id string, seq uint64) string {
	return fmt.Sprintf("%s:%020d", id, seq)
}
