// Package internal wires the ledger, execution engine and periodic
// processes into one engine instance behind the public operation set.
package internal

import (
	"context"
	"sync"
	"time"

	"github.com/nonagonchain/dexcore/config"
	"github.com/nonagonchain/dexcore/internal/activity"
	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/nonagonchain/dexcore/internal/events"
	"github.com/nonagonchain/dexcore/internal/exchange"
	"github.com/nonagonchain/dexcore/internal/ledger"
	"github.com/nonagonchain/dexcore/internal/marketdata"
	"github.com/nonagonchain/dexcore/internal/staking"
	"github.com/nonagonchain/dexcore/internal/storage/activitylog"
	"github.com/nonagonchain/dexcore/internal/storage/ledgerstate"
	"github.com/nonagonchain/dexcore/internal/strategy"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// n9gQuoteValue prices N9G in quote terms for portfolio valuation.
var n9gQuoteValue = decimal.NewFromFloat(1.2)

// Snapshot aggregates all published engine state at a single instant.
// Ledger state is internally consistent (one lock acquisition); the
// order book and activity views are each independently consistent. The
// staking position is read under its own lock, so a stake or unstake in
// flight may momentarily show staked N9G in neither the balance nor the
// position; the dip resolves by the next snapshot.
type Snapshot struct {
	Pair           domain.Pair
	Balances       map[domain.Asset]decimal.Decimal
	Earnings       decimal.Decimal
	Staking        staking.Position
	APY            decimal.Decimal
	Bot            strategy.Stats
	OrderBook      *domain.OrderBookSnapshot
	Activity       []domain.ActivityEvent
	PortfolioValue decimal.Decimal
}

// Engine is the single-user ledger instance. All mutation funnels
// through its operations; the shared ledger is the serialization point.
type Engine struct {
	ledger      *ledger.Ledger
	activityLog *activity.Log
	exec        *exchange.Engine
	staking     *staking.Manager
	bot         *strategy.Bot
	marketData  *marketdata.Generator
	broadcaster *events.Broadcaster
	stateStore  *ledgerstate.Store
	eventStore  *activitylog.WALStore
	logger      *zap.Logger

	publishInterval time.Duration
}

// NewEngine builds an engine from config, restoring persisted state
// when present.
func NewEngine(conf config.Config, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	led := ledger.New(conf.InitialBalances, logger.Named("ledger"))
	activityLog := activity.NewLog(activity.DefaultCapacity)

	eventStore, err := activitylog.NewWALStore(conf.ActivityWALDir)
	if err != nil {
		return nil, errors.Wrap(err, "init activity event store")
	}
	activityLog.SetSink(eventStore)

	stateStore, err := ledgerstate.NewStore(conf.StateDir)
	if err != nil {
		return nil, errors.Wrap(err, "init ledger state store")
	}

	generator := marketdata.NewGenerator(conf.Pair, conf.OrderBookInterval, logger.Named("marketdata"))
	stakingMgr := staking.NewManager(led, activityLog, conf.StakingInterval, logger.Named("staking"))
	bot := strategy.NewBot(led, activityLog, generator, conf.StrategyInterval, logger.Named("strategy"))
	exec := exchange.NewEngine(led, activityLog, logger.Named("exchange"))

	engine := &Engine{
		ledger:          led,
		activityLog:     activityLog,
		exec:            exec,
		staking:         stakingMgr,
		bot:             bot,
		marketData:      generator,
		broadcaster:     events.NewBroadcaster(256),
		stateStore:      stateStore,
		eventStore:      eventStore,
		logger:          logger,
		publishInterval: conf.PublishInterval,
	}

	if err := engine.restore(); err != nil {
		logger.Warn("failed to restore persisted state", zap.Error(err))
	}

	return engine, nil
}

func (e *Engine) restore() error {
	persisted, err := e.stateStore.Load()
	if err != nil || persisted == nil {
		return err
	}

	e.ledger.Restore(persisted.Balances, persisted.Earnings)
	e.staking.Restore(staking.Position{
		Staked:         persisted.Staked,
		LockPeriodDays: persisted.LockPeriodDays,
	})

	e.logger.Info("restored persisted engine state",
		zap.String("earnings", persisted.Earnings.String()),
		zap.String("staked", persisted.Staked.String()))
	return nil
}

// Run drives the periodic tasks until ctx is cancelled. The synchronous
// operations below stay available the whole time and never wait on a
// periodic task beyond a single ledger lock.
func (e *Engine) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
				e.logger.Error("task exited", zap.String("task", name), zap.Error(err))
			}
		}()
	}

	run("marketdata", e.marketData.Run)
	run("staking", e.staking.Run)
	run("strategy", e.bot.Run)
	run("publisher", e.publishLoop)

	wg.Wait()

	if err := e.persist(); err != nil {
		e.logger.Warn("failed to persist state on shutdown", zap.Error(err))
	}
	if err := e.eventStore.Close(); err != nil {
		e.logger.Warn("failed to close activity event store", zap.Error(err))
	}
	return ctx.Err()
}

// publishLoop periodically persists state and fans out a display update.
func (e *Engine) publishLoop(ctx context.Context) error {
	interval := e.publishInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := e.persist(); err != nil {
				e.logger.Warn("periodic persist failed", zap.Error(err))
			}
			e.broadcaster.Publish(e.buildUpdate())
		}
	}
}

func (e *Engine) persist() error {
	ledgerSnap := e.ledger.Snapshot()
	pos := e.staking.Position()
	return e.stateStore.Save(ledgerstate.Snapshot{
		Balances:       ledgerSnap.Balances,
		Earnings:       ledgerSnap.Earnings,
		Staked:         pos.Staked,
		LockPeriodDays: pos.LockPeriodDays,
	})
}

func (e *Engine) buildUpdate() events.LedgerUpdate {
	snap := e.GetSnapshot()
	balances := make(map[string]string, len(snap.Balances))
	for asset, amount := range snap.Balances {
		balances[asset.String()] = amount.StringFixed(2)
	}
	return events.LedgerUpdate{
		Timestamp: time.Now(),
		Pair:      snap.Pair.String(),
		Balances:  balances,
		Earnings:  snap.Earnings.StringFixed(2),
		Staked:    snap.Staking.Staked.StringFixed(2),
		APY:       snap.APY.Mul(decimal.NewFromInt(100)).StringFixed(1),
		BotProfit: snap.Bot.TotalProfit.StringFixed(2),
	}
}

// Updates exposes the broadcaster for read-only consumers.
func (e *Engine) Updates() *events.Broadcaster {
	return e.broadcaster
}

// ActivityStore exposes the durable activity event store.
func (e *Engine) ActivityStore() *activitylog.WALStore {
	return e.eventStore
}

// GetSnapshot returns a read-only view of all engine state.
func (e *Engine) GetSnapshot() Snapshot {
	ledgerSnap := e.ledger.Snapshot()
	pos := e.staking.Position()

	liquid := ledgerSnap.Balance(domain.AssetUSDC).Add(ledgerSnap.Balance(domain.AssetUSDT))
	n9gTotal := ledgerSnap.Balance(domain.AssetN9G).Add(pos.Staked)

	return Snapshot{
		Pair:           e.marketData.Pair(),
		Balances:       ledgerSnap.Balances,
		Earnings:       ledgerSnap.Earnings,
		Staking:        pos,
		APY:            staking.APY(pos.LockPeriodDays),
		Bot:            e.bot.Stats(),
		OrderBook:      e.marketData.Snapshot(),
		Activity:       e.activityLog.Events(),
		PortfolioValue: liquid.Add(n9gTotal.Mul(n9gQuoteValue)),
	}
}

// ExecuteTrade settles a trade on the active pair.
func (e *Engine) ExecuteTrade(side domain.Side, price, amount decimal.Decimal) (*domain.TradeReceipt, error) {
	return e.exec.ExecuteTrade(e.marketData.Pair(), side, price, amount)
}

// Stake moves N9G from the ledger into the staking position.
func (e *Engine) Stake(amount decimal.Decimal) error {
	return e.staking.Stake(amount)
}

// Unstake returns the full staked amount to the ledger.
func (e *Engine) Unstake() error {
	return e.staking.Unstake()
}

// SetLockPeriod adjusts the staking lock period in days.
func (e *Engine) SetLockPeriod(days int) error {
	return e.staking.SetLockPeriod(days)
}

// EnableStrategy starts the automated strategy process.
func (e *Engine) EnableStrategy() {
	e.bot.Enable()
}

// DisableStrategy stops scheduling future strategy ticks.
func (e *Engine) DisableStrategy() {
	e.bot.Disable()
}

// SetTradingPair retargets the market data generator. The order book
// snapshot is reset immediately; subsequent trades and bot events are
// tagged with the new pair.
func (e *Engine) SetTradingPair(pair domain.Pair) {
	e.marketData.SetPair(pair)
}
