package marketdata

import (
	"testing"
	"time"

	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenerator_InitialSnapshotShape(t *testing.T) {
	g := NewGenerator(domain.DefaultPair, time.Second, zap.NewNop())

	snap := g.Snapshot()
	require.NotNil(t, snap)
	require.Len(t, snap.Bids, Depth)
	require.Len(t, snap.Asks, Depth)
	assert.Equal(t, domain.DefaultPair, snap.Pair)

	// bids strictly descending, asks strictly ascending
	for i := 1; i < Depth; i++ {
		assert.True(t, snap.Bids[i].Price.LessThan(snap.Bids[i-1].Price))
		assert.True(t, snap.Asks[i].Price.GreaterThan(snap.Asks[i-1].Price))
	}

	// level sizes stay inside the configured band
	for _, level := range append(append([]domain.BookLevel{}, snap.Bids...), snap.Asks...) {
		assert.True(t, level.Amount.GreaterThanOrEqual(decimal.NewFromInt(minLevelSize)))
		assert.True(t, level.Amount.LessThan(decimal.NewFromInt(minLevelSize+levelSizeSpread)))
	}
}

func TestGenerator_BestBidAsk(t *testing.T) {
	g := NewGenerator(domain.DefaultPair, time.Second, zap.NewNop())

	snap := g.Snapshot()
	bid, ok := snap.BestBid()
	require.True(t, ok)
	ask, ok := snap.BestAsk()
	require.True(t, ok)

	assert.True(t, bid.Price.Equal(decimal.NewFromFloat(0.9998)))
	assert.True(t, ask.Price.Equal(decimal.NewFromFloat(0.9998)))
}

func TestGenerator_SetPairReplacesSnapshot(t *testing.T) {
	g := NewGenerator(domain.DefaultPair, time.Second, zap.NewNop())
	old := g.Snapshot()

	next := domain.Pair{Base: "DAI", Quote: domain.AssetUSDC}
	g.SetPair(next)

	snap := g.Snapshot()
	assert.Equal(t, next, snap.Pair)
	assert.NotSame(t, old, snap, "snapshot must be fully replaced, not merged")
	assert.Equal(t, next, g.Pair())
}

func TestGenerator_RefreshReplacesWholeBook(t *testing.T) {
	g := NewGenerator(domain.DefaultPair, time.Second, zap.NewNop())

	first := g.Snapshot()
	g.refresh()
	second := g.Snapshot()

	assert.NotSame(t, first, second)
	// old snapshot stays intact for readers holding it
	require.Len(t, first.Bids, Depth)
}
