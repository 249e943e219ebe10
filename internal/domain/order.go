package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Side direction of a trade.
type Side string

const (
	// SideBuy spend quote, receive base.
	SideBuy Side = "buy"
	// SideSell spend base, receive quote.
	SideSell Side = "sell"
)

// String returns the string representation.
func (s Side) String() string {
	return string(s)
}

// IsValid checks if the Side value is valid.
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// Role liquidity role of an order. Makers supply liquidity and are
// rebated, takers consume it and pay the fee.
type Role string

const (
	RoleMaker Role = "maker"
	RoleTaker Role = "taker"
)

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// TradeReceipt describes a settled trade.
type TradeReceipt struct {
	// ID unique identifier of the execution.
	ID string
	// Pair the trade settled against.
	Pair Pair
	// Side buy or sell.
	Side Side
	// Role maker or taker.
	Role Role
	// Price execution price in quote per base.
	Price decimal.Decimal
	// Amount base asset quantity.
	Amount decimal.Decimal
	// Notional price multiplied by amount, before fees.
	Notional decimal.Decimal
	// Fee absolute fee amount in quote asset.
	Fee decimal.Decimal
	// EarningsDelta signed contribution to cumulative earnings.
	EarningsDelta decimal.Decimal
	// Time settlement timestamp.
	Time time.Time
}

// String returns a human-readable string representation.
func (r *TradeReceipt) String() string {
	return fmt.Sprintf("%s %s %s @ %s fee %s", r.Pair.String(), r.Side, r.Amount.String(), r.Price.String(), r.Fee.String())
}
