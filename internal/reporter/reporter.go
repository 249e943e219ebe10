// Package reporter prints an end-of-session portfolio summary.
package reporter

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/nonagonchain/dexcore/internal/staking"
	"github.com/nonagonchain/dexcore/internal/strategy"
	"github.com/shopspring/decimal"
)

// Summary is everything the report needs, decoupled from the engine.
type Summary struct {
	Pair           domain.Pair
	Balances       map[domain.Asset]decimal.Decimal
	Earnings       decimal.Decimal
	Staking        staking.Position
	APY            decimal.Decimal
	Bot            strategy.Stats
	PortfolioValue decimal.Decimal
}

// Print renders the session report to stdout.
func Print(s Summary) {
	Fprint(os.Stdout, s)
}

// Fprint renders the session report to w.
func Fprint(w io.Writer, s Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Session Report - %s", s.Pair.String())

	t.AppendHeader(table.Row{"Asset", "Balance"})
	for _, asset := range domain.Assets() {
		t.AppendRow(table.Row{asset.String(), s.Balances[asset].StringFixed(2)})
	}
	t.AppendRow(table.Row{"N9G (staked)", s.Staking.Staked.StringFixed(2)})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Portfolio value", s.PortfolioValue.StringFixed(2)})
	t.AppendRow(table.Row{"Cumulative earnings", s.Earnings.StringFixed(2)})
	t.AppendRow(table.Row{"Current APY", s.APY.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"})
	t.AppendRow(table.Row{"Bot profit", s.Bot.TotalProfit.StringFixed(2)})
	t.AppendRow(table.Row{"Bot ticks", s.Bot.Ticks})
	t.Render()
}
