// Package config loads engine configuration from YAML with CLI flag
// fallbacks. An optional .env file supplies environment overrides.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// LogConfig controls the zap logger output.
type LogConfig struct {
	Level      string `yaml:"level"`
	Output     string `yaml:"output"` // console, file or both
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Config is the resolved engine configuration.
type Config struct {
	Pair              domain.Pair
	InitialBalances   map[domain.Asset]decimal.Decimal
	OrderBookInterval time.Duration
	StrategyInterval  time.Duration
	StakingInterval   time.Duration
	PublishInterval   time.Duration
	WebAddr           string
	ActivityWALDir    string
	StateDir          string
	Log               LogConfig
}

// configYAML is the raw on-disk layout; decimals ride as strings.
type configYAML struct {
	Pair              string            `yaml:"pair"`
	InitialBalances   map[string]string `yaml:"initial_balances,omitempty"`
	OrderBookInterval time.Duration     `yaml:"orderbook_interval"`
	StrategyInterval  time.Duration     `yaml:"strategy_interval"`
	StakingInterval   time.Duration     `yaml:"staking_interval"`
	PublishInterval   time.Duration     `yaml:"publish_interval,omitempty"`
	WebAddr           string            `yaml:"web_addr,omitempty"`
	ActivityWALDir    string            `yaml:"activity_wal_dir,omitempty"`
	StateDir          string            `yaml:"state_dir,omitempty"`
	Log               LogConfig         `yaml:"log,omitempty"`
}

// Default returns the stock configuration: USDC/USDT, 10k/10k/5k
// balances, 3s book refresh, 5s strategy ticks, 2s staking accrual.
func Default() Config {
	return Config{
		Pair: domain.DefaultPair,
		InitialBalances: map[domain.Asset]decimal.Decimal{
			domain.AssetUSDC: decimal.NewFromInt(10000),
			domain.AssetUSDT: decimal.NewFromInt(10000),
			domain.AssetN9G:  decimal.NewFromInt(5000),
		},
		OrderBookInterval: 3 * time.Second,
		StrategyInterval:  5 * time.Second,
		StakingInterval:   2 * time.Second,
		PublishInterval:   2 * time.Second,
		WebAddr:           ":8087",
		ActivityWALDir:    "./wal/activity",
		StateDir:          "./wal/state",
		Log: LogConfig{
			Level:  "info",
			Output: "console",
		},
	}
}

// Get resolves configuration from --config YAML when provided, falling
// back to CLI flags over defaults. A .env file is loaded first when
// present so DEXCORE_* variables can override paths.
func Get() (Config, error) {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to yaml config")
	pairFlag := flag.String("pair", domain.DefaultPair.String(), "trading pair, example: USDC/USDT")
	webAddr := flag.String("web", ":8087", "dashboard listen address")
	obInterval := flag.Duration("obinterval", 3*time.Second, "order book refresh interval")
	botInterval := flag.Duration("botinterval", 5*time.Second, "strategy tick interval")
	stakeInterval := flag.Duration("stakeinterval", 2*time.Second, "staking accrual interval")
	flag.Parse()

	if *configPath != "" {
		return loadYAML(*configPath)
	}

	conf := Default()
	pair, err := domain.ParsePair(*pairFlag)
	if err != nil {
		return Config{}, fmt.Errorf("invalid --pair provided, --pair=%s", *pairFlag)
	}
	conf.Pair = pair
	conf.WebAddr = *webAddr
	conf.OrderBookInterval = *obInterval
	conf.StrategyInterval = *botInterval
	conf.StakingInterval = *stakeInterval

	applyEnvOverrides(&conf)
	return conf, nil
}

// Load reads configuration from a YAML file at path.
func Load(path string) (Config, error) {
	return loadYAML(path)
}

func loadYAML(path string) (Config, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config file")
	}

	var raw configYAML
	if err := yaml.Unmarshal(payload, &raw); err != nil {
		return Config{}, errors.Wrap(err, "parse config file")
	}

	conf := Default()

	if raw.Pair != "" {
		pair, err := domain.ParsePair(raw.Pair)
		if err != nil {
			return Config{}, errors.Wrap(err, "invalid pair in config")
		}
		conf.Pair = pair
	}
	if len(raw.InitialBalances) > 0 {
		balances := make(map[domain.Asset]decimal.Decimal, len(raw.InitialBalances))
		for symbol, value := range raw.InitialBalances {
			asset, err := domain.ParseAsset(symbol)
			if err != nil {
				return Config{}, errors.Wrap(err, "invalid asset in initial_balances")
			}
			amount, err := decimal.NewFromString(value)
			if err != nil {
				return Config{}, errors.Wrapf(err, "invalid %s initial balance", symbol)
			}
			if amount.IsNegative() {
				return Config{}, fmt.Errorf("initial %s balance must not be negative", symbol)
			}
			balances[asset] = amount
		}
		conf.InitialBalances = balances
	}
	if raw.OrderBookInterval > 0 {
		conf.OrderBookInterval = raw.OrderBookInterval
	}
	if raw.StrategyInterval > 0 {
		conf.StrategyInterval = raw.StrategyInterval
	}
	if raw.StakingInterval > 0 {
		conf.StakingInterval = raw.StakingInterval
	}
	if raw.PublishInterval > 0 {
		conf.PublishInterval = raw.PublishInterval
	}
	if raw.WebAddr != "" {
		conf.WebAddr = raw.WebAddr
	}
	if raw.ActivityWALDir != "" {
		conf.ActivityWALDir = raw.ActivityWALDir
	}
	if raw.StateDir != "" {
		conf.StateDir = raw.StateDir
	}
	if raw.Log.Level != "" {
		conf.Log = raw.Log
	}

	applyEnvOverrides(&conf)
	return conf, nil
}

// Save writes the configuration to a YAML file at path.
func Save(conf Config, path string) error {
	raw := configYAML{
		Pair:              conf.Pair.String(),
		InitialBalances:   make(map[string]string, len(conf.InitialBalances)),
		OrderBookInterval: conf.OrderBookInterval,
		StrategyInterval:  conf.StrategyInterval,
		StakingInterval:   conf.StakingInterval,
		PublishInterval:   conf.PublishInterval,
		WebAddr:           conf.WebAddr,
		ActivityWALDir:    conf.ActivityWALDir,
		StateDir:          conf.StateDir,
		Log:               conf.Log,
	}
	for asset, amount := range conf.InitialBalances {
		raw.InitialBalances[asset.String()] = amount.String()
	}

	payload, err := yaml.Marshal(raw)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrap(os.WriteFile(path, payload, 0o644), "write config file")
}

func applyEnvOverrides(conf *Config) {
	if dir := os.Getenv("DEXCORE_WAL_DIR"); dir != "" {
		conf.ActivityWALDir = dir
	}
	if dir := os.Getenv("DEXCORE_STATE_DIR"); dir != "" {
		conf.StateDir = dir
	}
	if addr := os.Getenv("DEXCORE_WEB_ADDR"); addr != "" {
		conf.WebAddr = addr
	}
}
