package domain

import (
	"fmt"
	"strings"
)

// Pair trading pair of base and quote assets.
type Pair struct {
	// Base asset received on a buy.
	Base Asset
	// Quote asset spent on a buy.
	Quote Asset
}

// DefaultPair is the pair the engine targets on startup.
var DefaultPair = Pair{Base: AssetUSDC, Quote: AssetUSDT}

// String returns the slash-separated representation, e.g. "USDC/USDT".
func (p Pair) String() string {
	return fmt.Sprintf("%s/%s", p.Base, p.Quote)
}

// Symbol returns the concatenated symbol representation.
func (p Pair) Symbol() string {
	return fmt.Sprintf("%s%s", p.Base, p.Quote)
}

// ParsePair converts a "BASE/QUOTE" string into a Pair.
// Synthetic pairs may reference assets the ledger does not settle,
// so only the shape is validated here.
func ParsePair(s string) (Pair, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Pair{}, fmt.Errorf("pair must look like BASE/QUOTE, got %q", s)
	}
	return Pair{Base: Asset(parts[0]), Quote: Asset(parts[1])}, nil
}

// TradingPairs lists the synthetic pairs the market data generator can target.
func TradingPairs() []Pair {
	return []Pair{
		{Base: AssetUSDC, Quote: AssetUSDT},
		{Base: "DAI", Quote: AssetUSDC},
		{Base: "FRAX", Quote: AssetUSDT},
		{Base: "BUSD", Quote: AssetUSDC},
	}
}
