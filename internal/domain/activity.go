package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StrategySource identifies which process produced an activity event.
type StrategySource string

const (
	StrategyManualTrade    StrategySource = "Manual Trade"
	StrategyMarketMaking   StrategySource = "Market Making"
	StrategyArbitrage      StrategySource = "Arbitrage"
	StrategySpreadCapture  StrategySource = "Spread Capture"
	StrategyStatisticalArb StrategySource = "Statistical Arb"
	StrategyStakingReward  StrategySource = "Staking Reward"
)

// BotStrategies lists the strategies the automated process draws from.
func BotStrategies() []StrategySource {
	return []StrategySource{
		StrategyMarketMaking,
		StrategyArbitrage,
		StrategySpreadCapture,
		StrategyStatisticalArb,
	}
}

// String returns the string representation.
func (s StrategySource) String() string {
	return string(s)
}

// ActivityEvent immutable record of one completed trade, reward or
// strategy tick. Profit is the signed earnings contribution.
type ActivityEvent struct {
	ID       string          `json:"id"`
	Time     time.Time       `json:"time"`
	Strategy StrategySource  `json:"strategy"`
	Pair     string          `json:"pair"`
	Profit   decimal.Decimal `json:"profit"`
}
