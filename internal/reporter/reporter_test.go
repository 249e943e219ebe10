package reporter

import (
	"bytes"
	"testing"
	"unicode"

	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/nonagonchain/dexcore/internal/staking"
	"github.com/nonagonchain/dexcore/internal/strategy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFprint_RendersSummary(t *testing.T) {
	var buf bytes.Buffer

	Fprint(&buf, Summary{
		Pair: domain.DefaultPair,
		Balances: map[domain.Asset]decimal.Decimal{
			domain.AssetUSDC: decimal.NewFromInt(11000),
			domain.AssetUSDT: decimal.NewFromFloat(8999.70),
			domain.AssetN9G:  decimal.NewFromInt(4000),
		},
		Earnings:       decimal.NewFromFloat(12.34),
		Staking:        staking.Position{Staked: decimal.NewFromInt(1000), LockPeriodDays: 90},
		APY:            decimal.NewFromFloat(0.1796),
		Bot:            strategy.Stats{TotalProfit: decimal.NewFromFloat(42.5), Ticks: 10},
		PortfolioValue: decimal.NewFromInt(26000),
	})

	out := buf.String()
	assert.Contains(t, out, "Session Report - USDC/USDT")
	assert.Contains(t, out, "11000.00")
	assert.Contains(t, out, "N9G (staked)")
	assert.Contains(t, out, "18.0%")
	assert.Contains(t, out, "42.50")
}

func TestFprint_TitleIsPlainASCII(t *testing.T) {
	var buf bytes.Buffer

	Fprint(&buf, Summary{Pair: domain.DefaultPair})

	for _, r := range "Session Report - " + domain.DefaultPair.String() {
		assert.True(t, r <= unicode.MaxASCII, "title rune %q is not ASCII", r)
	}
	assert.Contains(t, buf.String(), "Session Report - USDC/USDT")
}
