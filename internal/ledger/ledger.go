// Package ledger holds the authoritative balance map and cumulative
// earnings counter. Every mutation in the system funnels through its
// operation set; the internal mutex is the single serialization point.
package ledger

import (
	"sync"

	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrInsufficientFunds is returned when a debit would leave a balance negative.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidAmount is returned when an operation receives a negative amount.
var ErrInvalidAmount = errors.New("amount must not be negative")

// Snapshot is an immutable view of ledger state taken at a single instant.
type Snapshot struct {
	Balances map[domain.Asset]decimal.Decimal
	Earnings decimal.Decimal
}

// Balance returns the snapshot balance for an asset, zero when absent.
func (s Snapshot) Balance(asset domain.Asset) decimal.Decimal {
	return s.Balances[asset]
}

// Ledger is the single owner of balances and cumulative earnings.
type Ledger struct {
	mu       sync.RWMutex
	balances map[domain.Asset]decimal.Decimal
	earnings decimal.Decimal
	logger   *zap.Logger
}

// New creates a ledger seeded with the given balances. Assets missing
// from the map start at zero.
func New(initial map[domain.Asset]decimal.Decimal, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	balances := make(map[domain.Asset]decimal.Decimal, len(domain.Assets()))
	for _, asset := range domain.Assets() {
		balances[asset] = decimal.Zero
	}
	for asset, amount := range initial {
		if amount.IsNegative() {
			logger.Warn("ignoring negative initial balance",
				zap.String("asset", asset.String()),
				zap.String("amount", amount.String()))
			continue
		}
		balances[asset] = amount
	}
	return &Ledger{
		balances: balances,
		earnings: decimal.Zero,
		logger:   logger,
	}
}

// Credit increases the balance of the given asset. Always succeeds for
// non-negative amounts.
func (l *Ledger) Credit(asset domain.Asset, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errors.Wrapf(ErrInvalidAmount, "credit %s %s", asset, amount.String())
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[asset] = l.balances[asset].Add(amount)
	return nil
}

// Debit decreases the balance of the given asset. The sufficiency check
// and the decrement happen under one lock acquisition so no concurrent
// operation can observe or exploit the window between them.
func (l *Ledger) Debit(asset domain.Asset, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errors.Wrapf(ErrInvalidAmount, "debit %s %s", asset, amount.String())
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.debitLocked(asset, amount)
}

func (l *Ledger) debitLocked(asset domain.Asset, amount decimal.Decimal) error {
	have := l.balances[asset]
	if have.LessThan(amount) {
		return errors.Wrapf(ErrInsufficientFunds, "%s: have %s need %s",
			asset, have.String(), amount.String())
	}
	l.balances[asset] = have.Sub(amount)
	return nil
}

// Transfer debits fromAmount of the from asset and credits toAmount of
// the to asset as one atomic step. On failure nothing is applied.
func (l *Ledger) Transfer(from domain.Asset, fromAmount decimal.Decimal, to domain.Asset, toAmount decimal.Decimal) error {
	if fromAmount.IsNegative() || toAmount.IsNegative() {
		return errors.Wrap(ErrInvalidAmount, "transfer")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.debitLocked(from, fromAmount); err != nil {
		return err
	}
	l.balances[to] = l.balances[to].Add(toAmount)
	return nil
}

// RecordEarnings adds delta (any sign) to cumulative earnings.
func (l *Ledger) RecordEarnings(delta decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.earnings = l.earnings.Add(delta)
}

// Earnings returns the current cumulative earnings.
func (l *Ledger) Earnings() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.earnings
}

// Balance returns the current balance of one asset.
func (l *Ledger) Balance(asset domain.Asset) decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[asset]
}

// Snapshot copies balances and earnings under one lock acquisition, so
// the returned view reflects a state that existed at a single instant.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	balances := make(map[domain.Asset]decimal.Decimal, len(l.balances))
	for asset, amount := range l.balances {
		balances[asset] = amount
	}
	return Snapshot{Balances: balances, Earnings: l.earnings}
}

// Restore overwrites ledger state with persisted values. Used once at
// startup before any periodic task runs.
func (l *Ledger) Restore(balances map[domain.Asset]decimal.Decimal, earnings decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for asset, amount := range balances {
		if amount.IsNegative() {
			l.logger.Warn("skipping negative restored balance",
				zap.String("asset", asset.String()),
				zap.String("amount", amount.String()))
			continue
		}
		l.balances[asset] = amount
	}
	l.earnings = earnings
}
