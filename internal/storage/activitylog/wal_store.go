// Package activitylog persists activity events in a write-ahead log so
// the audit trail survives restarts and can be replayed by consumers.
package activitylog

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
)

const (
	defaultEventDir   = "./wal/activity"
	eventSegmentLimit = 1000
	eventMaxSegments  = 100
	eventKeyPrefix    = "activity_event_"
)

// EventRecord bundles an event with the WAL index it was written at.
type EventRecord struct {
	Index uint64
	Event domain.ActivityEvent
}

// WALStore is a gowal-backed activity event store.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed event store under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultEventDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "events_",
		SegmentThreshold: eventSegmentLimit,
		MaxSegments:      eventMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init activity event WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Append writes one event to the WAL. Implements activity.Sink.
func (s *WALStore) Append(event domain.ActivityEvent) error {
	if s == nil || s.wal == nil {
		return errors.New("activity event store is not initialized")
	}
	if event.ID == "" {
		return fmt.Errorf("activity event id is required")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal activity event")
	}

	key := fmt.Sprintf("%s%s", eventKeyPrefix, event.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// EventsAfter returns all events written after the provided WAL index.
func (s *WALStore) EventsAfter(index uint64) ([]EventRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("activity event store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]EventRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, eventKeyPrefix) {
			// compacted or foreign entries are skipped, not fatal
			continue
		}
		var event domain.ActivityEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "decode activity event")
		}
		records = append(records, EventRecord{Index: idx, Event: event})
	}

	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("activity event store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
