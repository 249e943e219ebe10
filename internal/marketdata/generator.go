// Package marketdata synthesizes order book snapshots for the active
// trading pair. The generator owns the snapshot; consumers only read
// fully published books, never a half-updated one.
package marketdata

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/gopkg/lang/fastrand"
	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// Depth levels per book side.
	Depth = 10
	// sizes are drawn uniformly from [minLevelSize, minLevelSize+levelSizeSpread)
	minLevelSize    = 10000
	levelSizeSpread = 50000
)

var (
	defaultMid = decimal.NewFromFloat(0.9998)
	priceStep  = decimal.NewFromFloat(0.0001)
)

// Generator periodically replaces the order book snapshot for its pair.
type Generator struct {
	mu       sync.RWMutex
	pair     domain.Pair
	snapshot *domain.OrderBookSnapshot
	interval time.Duration
	logger   *zap.Logger
}

// NewGenerator creates a generator targeting the given pair. The first
// snapshot is built immediately so consumers never observe an empty book.
func NewGenerator(pair domain.Pair, interval time.Duration, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Generator{
		pair:     pair,
		interval: interval,
		logger:   logger,
	}
	g.refresh()
	return g
}

// Run regenerates the book every interval until ctx is cancelled.
func (g *Generator) Run(ctx context.Context) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	g.logger.Info("market data generator started",
		zap.String("pair", g.Pair().String()),
		zap.Duration("interval", g.interval))

	for {
		select {
		case <-ctx.Done():
			g.logger.Info("market data generator stopped")
			return ctx.Err()
		case <-ticker.C:
			g.refresh()
		}
	}
}

// SetPair retargets the generator and replaces the snapshot immediately,
// so a stale book for the previous pair is never served.
func (g *Generator) SetPair(pair domain.Pair) {
	g.mu.Lock()
	g.pair = pair
	g.snapshot = buildBook(pair)
	g.mu.Unlock()

	g.logger.Info("market data pair switched", zap.String("pair", pair.String()))
}

// Pair returns the currently targeted pair.
func (g *Generator) Pair() domain.Pair {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pair
}

// Snapshot returns the latest full book. The returned value is shared
// and must be treated as read-only; the generator never mutates a
// published snapshot in place.
func (g *Generator) Snapshot() *domain.OrderBookSnapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshot
}

func (g *Generator) refresh() {
	g.mu.Lock()
	g.snapshot = buildBook(g.pair)
	g.mu.Unlock()
}

// buildBook synthesizes a book around the pair mid price: bids stepped
// down, asks stepped up, randomized level sizes.
func buildBook(pair domain.Pair) *domain.OrderBookSnapshot {
	bids := make([]domain.BookLevel, 0, Depth)
	asks := make([]domain.BookLevel, 0, Depth)

	for i := 0; i < Depth; i++ {
		offset := priceStep.Mul(decimal.NewFromInt(int64(i)))
		bids = append(bids, domain.BookLevel{
			Price:  defaultMid.Sub(offset),
			Amount: randomLevelSize(),
		})
		asks = append(asks, domain.BookLevel{
			Price:  defaultMid.Add(offset),
			Amount: randomLevelSize(),
		})
	}

	return &domain.OrderBookSnapshot{Pair: pair, Bids: bids, Asks: asks}
}

func randomLevelSize() decimal.Decimal {
	return decimal.NewFromInt(int64(minLevelSize + fastrand.Intn(levelSizeSpread)))
}
