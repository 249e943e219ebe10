// Package exchange validates and settles user trades against the ledger
// using the fee model. It is the only synchronous mutation path; the
// periodic processes share the same ledger handle.
package exchange

import (
	"time"

	"github.com/google/uuid"
	"github.com/nonagonchain/dexcore/internal/activity"
	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/nonagonchain/dexcore/internal/fees"
	"github.com/nonagonchain/dexcore/internal/ledger"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrInvalidOrder is returned for non-positive price or amount.
var ErrInvalidOrder = errors.New("invalid order")

// Engine settles trades for one trading pair at a time.
type Engine struct {
	ledger *ledger.Ledger
	log    *activity.Log
	logger *zap.Logger
}

// NewEngine creates an execution engine bound to the shared ledger and
// activity log.
func NewEngine(l *ledger.Ledger, log *activity.Log, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{ledger: l, log: log, logger: logger}
}

// ExecuteTrade validates and settles a trade. Orders placed against the
// book consume liquidity, so the role is taker; the maker leg exists in
// the fee model for completeness.
//
// Buy: debit quote net cost, credit base amount.
// Sell: debit base amount, credit quote proceeds net of fee.
// Either both legs apply or neither does.
func (e *Engine) ExecuteTrade(pair domain.Pair, side domain.Side, price, amount decimal.Decimal) (*domain.TradeReceipt, error) {
	if !side.IsValid() {
		return nil, errors.Wrapf(ErrInvalidOrder, "side %q", side)
	}
	if !price.IsPositive() {
		return nil, errors.Wrapf(ErrInvalidOrder, "price %s", price.String())
	}
	if !amount.IsPositive() {
		return nil, errors.Wrapf(ErrInvalidOrder, "amount %s", amount.String())
	}

	role := domain.RoleTaker
	legs := fees.Quote(side, role, price, amount)

	var err error
	switch side {
	case domain.SideBuy:
		err = e.ledger.Transfer(pair.Quote, legs.QuoteDelta, pair.Base, legs.BaseDelta)
	case domain.SideSell:
		err = e.ledger.Transfer(pair.Base, legs.BaseDelta, pair.Quote, legs.QuoteDelta)
	}
	if err != nil {
		e.logger.Warn("trade rejected",
			zap.String("pair", pair.String()),
			zap.String("side", side.String()),
			zap.String("price", price.String()),
			zap.String("amount", amount.String()),
			zap.Error(err))
		return nil, err
	}

	e.ledger.RecordEarnings(legs.EarningsDelta)

	receipt := &domain.TradeReceipt{
		ID:            uuid.New().String(),
		Pair:          pair,
		Side:          side,
		Role:          role,
		Price:         price,
		Amount:        amount,
		Notional:      legs.Notional,
		Fee:           legs.Fee,
		EarningsDelta: legs.EarningsDelta,
		Time:          time.Now(),
	}

	if e.log != nil {
		e.log.Record(domain.StrategyManualTrade, pair.String(), legs.EarningsDelta)
	}

	e.logger.Info("trade executed",
		zap.String("id", receipt.ID),
		zap.String("pair", pair.String()),
		zap.String("side", side.String()),
		zap.String("price", price.String()),
		zap.String("amount", amount.String()),
		zap.String("fee", legs.Fee.String()))

	return receipt, nil
}
