// Package staking tracks the N9G staking position and accrues
// time-locked rewards into the ledger's cumulative earnings.
package staking

import (
	"context"
	"sync"
	"time"

	"github.com/nonagonchain/dexcore/internal/activity"
	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/nonagonchain/dexcore/internal/ledger"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// MaxLockPeriodDays upper bound of the lock period slider.
	MaxLockPeriodDays = 365
)

var (
	// ErrInvalidStakeAmount is returned for non-positive stake amounts.
	ErrInvalidStakeAmount = errors.New("invalid stake amount")
	// ErrInvalidLockPeriod is returned for lock periods outside [0, 365].
	ErrInvalidLockPeriod = errors.New("lock period must be between 0 and 365 days")
	// ErrNothingStaked is returned when unstaking with no position.
	ErrNothingStaked = errors.New("nothing staked")

	baseAPY     = decimal.NewFromFloat(0.15)
	lockBonus   = decimal.NewFromFloat(0.8)
	daysPerYear = decimal.NewFromInt(365)
)

// Position is the staking state at one instant.
type Position struct {
	Staked         decimal.Decimal
	LockPeriodDays int
}

// APY derives the yield from the lock period: 15% base scaled by a lock
// multiplier growing linearly up to 1.8x at a full-year lock.
func APY(lockPeriodDays int) decimal.Decimal {
	multiplier := decimal.NewFromInt(1).Add(
		decimal.NewFromInt(int64(lockPeriodDays)).Div(daysPerYear).Mul(lockBonus))
	return baseAPY.Mul(multiplier)
}

// Manager owns the staking position. Stake and unstake settle against
// the shared ledger; the accrual loop credits earnings only.
type Manager struct {
	mu       sync.RWMutex
	staked   decimal.Decimal
	lockDays int

	ledger   *ledger.Ledger
	log      *activity.Log
	interval time.Duration
	logger   *zap.Logger

	// wake nudges the accrual loop out of its idle state after a stake.
	wake chan struct{}
}

// NewManager creates a staking manager accruing every interval while a
// position exists.
func NewManager(l *ledger.Ledger, log *activity.Log, interval time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		staked:   decimal.Zero,
		ledger:   l,
		log:      log,
		interval: interval,
		logger:   logger,
		wake:     make(chan struct{}, 1),
	}
}

// Stake debits N9G from the ledger and adds it to the position.
// Repeated stakes stack onto the existing position.
func (m *Manager) Stake(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.Wrapf(ErrInvalidStakeAmount, "amount %s", amount.String())
	}

	// the ledger debit is the sufficiency check: it fails atomically
	// when the available N9G balance is below the requested amount.
	// Between the debit and the position update below, a concurrent
	// snapshot sees the amount in neither place; no funds are lost and
	// the next snapshot converges.
	if err := m.ledger.Debit(domain.AssetN9G, amount); err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return errors.Wrap(ErrInvalidStakeAmount, "stake exceeds available N9G balance")
		}
		return err
	}

	m.mu.Lock()
	m.staked = m.staked.Add(amount)
	staked := m.staked
	m.mu.Unlock()

	m.logger.Info("staked",
		zap.String("amount", amount.String()),
		zap.String("total_staked", staked.String()))

	m.nudge()
	return nil
}

// Unstake returns the full staked amount to the ledger and resets the
// position, including the lock period.
func (m *Manager) Unstake() error {
	m.mu.Lock()
	staked := m.staked
	if !staked.IsPositive() {
		m.mu.Unlock()
		return ErrNothingStaked
	}
	m.staked = decimal.Zero
	m.lockDays = 0
	m.mu.Unlock()

	// same transient window as Stake, in reverse: the position is
	// already zeroed while the credit is still in flight
	if err := m.ledger.Credit(domain.AssetN9G, staked); err != nil {
		return errors.Wrap(err, "return staked N9G")
	}

	m.logger.Info("unstaked", zap.String("amount", staked.String()))
	return nil
}

// SetLockPeriod adjusts the lock period, days in [0, 365].
func (m *Manager) SetLockPeriod(days int) error {
	if days < 0 || days > MaxLockPeriodDays {
		return errors.Wrapf(ErrInvalidLockPeriod, "%d days", days)
	}

	m.mu.Lock()
	m.lockDays = days
	m.mu.Unlock()
	return nil
}

// Position returns the current staking state.
func (m *Manager) Position() Position {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Position{Staked: m.staked, LockPeriodDays: m.lockDays}
}

// CurrentAPY returns the APY for the current lock period.
func (m *Manager) CurrentAPY() decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return APY(m.lockDays)
}

// Restore loads a persisted position. Called once at startup.
func (m *Manager) Restore(pos Position) {
	if pos.Staked.IsNegative() || pos.LockPeriodDays < 0 || pos.LockPeriodDays > MaxLockPeriodDays {
		m.logger.Warn("ignoring invalid persisted staking position")
		return
	}

	m.mu.Lock()
	m.staked = pos.Staked
	m.lockDays = pos.LockPeriodDays
	m.mu.Unlock()

	if pos.Staked.IsPositive() {
		m.nudge()
	}
}

// Run accrues rewards every interval while a position exists. With
// nothing staked the loop parks on the wake channel instead of spinning
// on no-op ticks.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info("staking accrual started", zap.Duration("interval", m.interval))

	for {
		if !m.Position().Staked.IsPositive() {
			select {
			case <-ctx.Done():
				m.logger.Info("staking accrual stopped")
				return ctx.Err()
			case <-m.wake:
				ticker.Reset(m.interval)
				continue
			}
		}

		select {
		case <-ctx.Done():
			m.logger.Info("staking accrual stopped")
			return ctx.Err()
		case <-m.wake:
		case <-ticker.C:
			m.Accrue()
		}
	}
}

// Accrue computes one reward tick from current state. The rate is
// recomputed every tick, so lock-period changes apply immediately.
// Rewards are earnings-only: no N9G is minted and the principal does
// not compound.
func (m *Manager) Accrue() decimal.Decimal {
	m.mu.RLock()
	staked := m.staked
	lockDays := m.lockDays
	m.mu.RUnlock()

	if !staked.IsPositive() {
		return decimal.Zero
	}

	dailyRate := APY(lockDays).Div(daysPerYear)
	reward := staked.Mul(dailyRate)

	m.ledger.RecordEarnings(reward)
	if m.log != nil {
		m.log.Record(domain.StrategyStakingReward, domain.AssetN9G.String(), reward)
	}

	m.logger.Debug("staking reward accrued",
		zap.String("staked", staked.String()),
		zap.Int("lock_days", lockDays),
		zap.String("reward", reward.String()))

	return reward
}

func (m *Manager) nudge() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}
