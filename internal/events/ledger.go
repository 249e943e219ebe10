// Package events fans out ledger state updates to in-process consumers
// such as the web dashboard.
package events

import (
	"sync"
	"time"
)

// LedgerUpdate is a display-ready view of engine state. String fields
// avoid precision issues when rendered in UI layers.
type LedgerUpdate struct {
	Timestamp time.Time         `json:"ts"`
	Pair      string            `json:"pair"`
	Balances  map[string]string `json:"balances"`
	Earnings  string            `json:"earnings"`
	Staked    string            `json:"staked"`
	APY       string            `json:"apy"`
	BotProfit string            `json:"bot_profit"`
}

// Broadcaster fans out updates to all subscribers via buffered channels.
// It keeps the API intentionally small so call sites can stay straightforward.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[chan LedgerUpdate]struct{}
	buffer int
}

// NewBroadcaster creates a broadcaster with the given per-subscriber buffer.
func NewBroadcaster(buffer int) *Broadcaster {
	if buffer < 1 {
		buffer = 64
	}
	return &Broadcaster{
		subs:   make(map[chan LedgerUpdate]struct{}),
		buffer: buffer,
	}
}

// Publish sends the update to all subscribers, dropping if a reader is slow.
func (b *Broadcaster) Publish(u LedgerUpdate) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- u:
		default:
			// drop slow consumer
		}
	}
}

// Subscribe returns a channel that receives updates until Unsubscribe is called.
func (b *Broadcaster) Subscribe() chan LedgerUpdate {
	ch := make(chan LedgerUpdate, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel and closes it.
func (b *Broadcaster) Unsubscribe(ch chan LedgerUpdate) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}
