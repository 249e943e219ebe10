// Package setup implements the interactive configuration wizard.
package setup

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/nonagonchain/dexcore/config"
	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

func header(step string) {
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("DEXCORE CONFIG WIZARD"))
	fmt.Println(stepStyle.Render(step))
}

// RunTUI launches the terminal configuration wizard and writes the
// resulting config to path.
func RunTUI(path string) error {
	var (
		pairStr          string
		usdcStr          = "10000"
		usdtStr          = "10000"
		n9gStr           = "5000"
		obIntervalStr    = "3s"
		botIntervalStr   = "5s"
		stakeIntervalStr = "2s"
		webAddr          = ":8087"
		confirm          bool
	)

	pairOptions := make([]huh.Option[string], 0, len(domain.TradingPairs()))
	for _, pair := range domain.TradingPairs() {
		pairOptions = append(pairOptions, huh.NewOption(pair.String(), pair.String()))
	}

	header("STEP 1: TRADING PAIR")
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Pick the synthetic pair to simulate.\n"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Trading Pair").
				Options(pairOptions...).
				Value(&pairStr),
		),
	).Run()
	if err != nil {
		return err
	}

	header("STEP 2: INITIAL BALANCES")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("USDC").Value(&usdcStr).Validate(validateBalance),
			huh.NewInput().Title("USDT").Value(&usdtStr).Validate(validateBalance),
			huh.NewInput().Title("N9G").Value(&n9gStr).Validate(validateBalance),
		),
	).Run()
	if err != nil {
		return err
	}

	header("STEP 3: TIMING")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Order Book Refresh Interval").
				Description("Duration string (e.g. 3s, 500ms)").
				Value(&obIntervalStr).
				Validate(validateDuration),
			huh.NewInput().
				Title("Strategy Tick Interval").
				Value(&botIntervalStr).
				Validate(validateDuration),
			huh.NewInput().
				Title("Staking Accrual Interval").
				Value(&stakeIntervalStr).
				Validate(validateDuration),
		),
	).Run()
	if err != nil {
		return err
	}

	header("STEP 4: DASHBOARD")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Dashboard Listen Address").
				Description("host:port, e.g. :8087").
				Value(&webAddr),
		),
	).Run()
	if err != nil {
		return err
	}

	header("FINAL CONFIRMATION")
	summary := fmt.Sprintf(
		"Pair: %s\nUSDC: %s  USDT: %s  N9G: %s\nBook: %s  Strategy: %s  Staking: %s\nDashboard: %s\n",
		pairStr, usdcStr, usdtStr, n9gStr, obIntervalStr, botIntervalStr, stakeIntervalStr, webAddr,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Write configuration to %s?", path)).
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("configuration not saved")
	}

	conf := config.Default()
	conf.Pair, _ = domain.ParsePair(pairStr)
	conf.InitialBalances = map[domain.Asset]decimal.Decimal{
		domain.AssetUSDC: mustDecimal(usdcStr),
		domain.AssetUSDT: mustDecimal(usdtStr),
		domain.AssetN9G:  mustDecimal(n9gStr),
	}
	conf.OrderBookInterval, _ = time.ParseDuration(obIntervalStr)
	conf.StrategyInterval, _ = time.ParseDuration(botIntervalStr)
	conf.StakingInterval, _ = time.ParseDuration(stakeIntervalStr)
	conf.WebAddr = webAddr

	if err := config.Save(conf, path); err != nil {
		return err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render("Configuration saved to " + path))
	return nil
}

func validateBalance(s string) error {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a decimal number")
	}
	if amount.IsNegative() {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validateDuration(s string) error {
	_, err := time.ParseDuration(s)
	return err
}

// mustDecimal is safe here: inputs passed validateBalance already.
func mustDecimal(s string) decimal.Decimal {
	amount, _ := decimal.NewFromString(s)
	return amount
}
