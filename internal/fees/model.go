// Package fees implements the maker/taker fee model. Everything here is
// a pure computation over decimals; no state, no side effects.
package fees

import (
	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// makerRate is negative: makers are rebated for supplying liquidity.
	makerRate = decimal.NewFromFloat(-0.0001)
	// takerRate is what liquidity consumers pay.
	takerRate = decimal.NewFromFloat(0.0003)
)

// Rate returns the signed fee rate for a role.
func Rate(role domain.Role) decimal.Decimal {
	if role == domain.RoleMaker {
		return makerRate
	}
	return takerRate
}

// Legs describes both settlement legs of a prospective trade plus its
// earnings contribution. The engine applies whichever legs the order
// side requires.
type Legs struct {
	// Notional price times amount, before fees.
	Notional decimal.Decimal
	// Fee absolute fee amount in quote asset.
	Fee decimal.Decimal
	// QuoteDelta quote asset the trade moves: on a buy this is the cost
	// to debit, on a sell the proceeds to credit (both net of fee).
	QuoteDelta decimal.Decimal
	// BaseDelta base asset the trade moves.
	BaseDelta decimal.Decimal
	// EarningsDelta signed earnings contribution: +fee when rebated,
	// -fee when paid.
	EarningsDelta decimal.Decimal
}

// Quote computes all legs for the given side, role, price and amount.
// Callers must validate price > 0 and amount > 0 beforehand.
func Quote(side domain.Side, role domain.Role, price, amount decimal.Decimal) Legs {
	rate := Rate(role)
	notional := price.Mul(amount)
	fee := notional.Mul(rate.Abs())
	rebated := rate.IsNegative()

	legs := Legs{
		Notional:  notional,
		Fee:       fee,
		BaseDelta: amount,
	}

	if rebated {
		legs.EarningsDelta = fee
	} else {
		legs.EarningsDelta = fee.Neg()
	}

	switch side {
	case domain.SideBuy:
		// buyer pays notional plus fee, or notional minus rebate
		if rebated {
			legs.QuoteDelta = notional.Sub(fee)
		} else {
			legs.QuoteDelta = notional.Add(fee)
		}
	case domain.SideSell:
		// seller receives notional minus fee, or notional plus rebate
		if rebated {
			legs.QuoteDelta = notional.Add(fee)
		} else {
			legs.QuoteDelta = notional.Sub(fee)
		}
	}

	return legs
}
