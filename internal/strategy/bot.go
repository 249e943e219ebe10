// Package strategy runs the automated profit process. While enabled it
// periodically draws a bounded random profit attributed to one of the
// named bot strategies and credits it to the shared ledger.
package strategy

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/gopkg/lang/fastrand"
	"github.com/nonagonchain/dexcore/internal/activity"
	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/nonagonchain/dexcore/internal/ledger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// profit per tick is drawn uniformly from [profitFloor, profitFloor+profitSpread)
	profitFloor  = 2.0
	profitSpread = 5.0
)

// PairSource reports the pair the bot should tag its events with.
type PairSource interface {
	Pair() domain.Pair
}

// Stats is a point-in-time view of the bot's performance.
type Stats struct {
	Enabled     bool
	TotalProfit decimal.Decimal
	Ticks       int64
}

// Bot credits strategy profits while enabled. Enabling and disabling is
// cooperative: a tick that already fired completes, only future ticks
// are cancelled.
type Bot struct {
	mu          sync.RWMutex
	enabled     bool
	totalProfit decimal.Decimal
	ticks       int64

	ledger   *ledger.Ledger
	log      *activity.Log
	pairs    PairSource
	interval time.Duration
	logger   *zap.Logger

	wake chan struct{}
}

// NewBot creates a disabled bot ticking every interval once enabled.
func NewBot(l *ledger.Ledger, log *activity.Log, pairs PairSource, interval time.Duration, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		totalProfit: decimal.Zero,
		ledger:      l,
		log:         log,
		pairs:       pairs,
		interval:    interval,
		logger:      logger,
		wake:        make(chan struct{}, 1),
	}
}

// Enable starts scheduling ticks.
func (b *Bot) Enable() {
	b.mu.Lock()
	already := b.enabled
	b.enabled = true
	b.mu.Unlock()

	if !already {
		b.logger.Info("strategy bot enabled")
		b.nudge()
	}
}

// Disable stops scheduling future ticks. A tick currently executing is
// never aborted and its credit stands; there is no rollback.
func (b *Bot) Disable() {
	b.mu.Lock()
	already := !b.enabled
	b.enabled = false
	b.mu.Unlock()

	if !already {
		b.logger.Info("strategy bot disabled")
		b.nudge()
	}
}

// Enabled reports whether future ticks are scheduled.
func (b *Bot) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

// Stats returns current performance counters.
func (b *Bot) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Stats{Enabled: b.enabled, TotalProfit: b.totalProfit, Ticks: b.ticks}
}

// Run schedules ticks until ctx is cancelled. While disabled the loop
// parks instead of firing no-op ticks.
func (b *Bot) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.logger.Info("strategy bot loop started", zap.Duration("interval", b.interval))

	for {
		if !b.Enabled() {
			select {
			case <-ctx.Done():
				b.logger.Info("strategy bot loop stopped")
				return ctx.Err()
			case <-b.wake:
				ticker.Reset(b.interval)
				continue
			}
		}

		select {
		case <-ctx.Done():
			b.logger.Info("strategy bot loop stopped")
			return ctx.Err()
		case <-b.wake:
		case <-ticker.C:
			b.Tick()
		}
	}
}

// Tick executes one profit draw against the ledger. Exposed so tests
// can drive the bot without timers.
func (b *Bot) Tick() decimal.Decimal {
	if !b.Enabled() {
		return decimal.Zero
	}

	profit := drawProfit()
	source := drawStrategy()
	pair := domain.DefaultPair
	if b.pairs != nil {
		pair = b.pairs.Pair()
	}

	b.ledger.RecordEarnings(profit)

	b.mu.Lock()
	b.totalProfit = b.totalProfit.Add(profit)
	b.ticks++
	b.mu.Unlock()

	if b.log != nil {
		b.log.Record(source, pair.String(), profit)
	}

	b.logger.Debug("strategy tick",
		zap.String("strategy", source.String()),
		zap.String("pair", pair.String()),
		zap.String("profit", profit.String()))

	return profit
}

func drawProfit() decimal.Decimal {
	return decimal.NewFromFloat(profitFloor + fastrand.Float64()*profitSpread)
}

func drawStrategy() domain.StrategySource {
	strategies := domain.BotStrategies()
	return strategies[fastrand.Intn(len(strategies))]
}

func (b *Bot) nudge() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}
