// Package activity keeps a bounded, time-ordered record of completed
// trade, reward and strategy events for audit and display.
package activity

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultCapacity bounds the log to the most recent events.
const DefaultCapacity = 20

// Sink receives every appended event, e.g. for durable storage.
// Append must not block the caller for long.
type Sink interface {
	Append(event domain.ActivityEvent) error
}

// Log is a fixed-capacity ring of activity events. Reads return the
// retained events most-recent-first.
type Log struct {
	mu       sync.RWMutex
	events   []domain.ActivityEvent
	head     int
	size     int
	capacity int
	sink     Sink
}

// NewLog creates a log bounded to capacity events. Non-positive
// capacities fall back to DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		events:   make([]domain.ActivityEvent, capacity),
		capacity: capacity,
	}
}

// SetSink attaches a sink receiving every subsequent append.
func (l *Log) SetSink(sink Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink = sink
}

// Record builds an event and appends it, returning the stored event.
func (l *Log) Record(strategy domain.StrategySource, pair string, profit decimal.Decimal) domain.ActivityEvent {
	event := domain.ActivityEvent{
		ID:       uuid.New().String(),
		Time:     time.Now(),
		Strategy: strategy,
		Pair:     pair,
		Profit:   profit,
	}
	l.Append(event)
	return event
}

// Append adds the event, evicting the oldest once capacity is reached.
// Insertion order is preserved even under concurrent appends because
// the ring index moves under the same lock as the write.
func (l *Log) Append(event domain.ActivityEvent) {
	l.mu.Lock()
	l.events[l.head] = event
	l.head = (l.head + 1) % l.capacity
	if l.size < l.capacity {
		l.size++
	}
	sink := l.sink
	l.mu.Unlock()

	if sink != nil {
		// sink failures must not affect the in-memory log
		_ = sink.Append(event)
	}
}

// Events returns retained events, most recent first.
func (l *Log) Events() []domain.ActivityEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.ActivityEvent, 0, l.size)
	for i := 1; i <= l.size; i++ {
		idx := (l.head - i + l.capacity) % l.capacity
		out = append(out, l.events[idx])
	}
	return out
}

// Len returns the number of retained events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}
