package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nonagonchain/dexcore/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	conf := Default()

	assert.Equal(t, domain.DefaultPair, conf.Pair)
	assert.True(t, conf.InitialBalances[domain.AssetUSDC].Equal(decimal.NewFromInt(10000)))
	assert.True(t, conf.InitialBalances[domain.AssetUSDT].Equal(decimal.NewFromInt(10000)))
	assert.True(t, conf.InitialBalances[domain.AssetN9G].Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, 3*time.Second, conf.OrderBookInterval)
	assert.Equal(t, 5*time.Second, conf.StrategyInterval)
	assert.Equal(t, 2*time.Second, conf.StakingInterval)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	payload := `
pair: USDC/USDT
initial_balances:
  USDC: "2500.5"
  USDT: "1000"
orderbook_interval: 1s
strategy_interval: 2s
staking_interval: 500ms
web_addr: ":9090"
log:
  level: debug
  output: console
`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultPair, conf.Pair)
	assert.True(t, conf.InitialBalances[domain.AssetUSDC].Equal(decimal.NewFromFloat(2500.5)))
	assert.True(t, conf.InitialBalances[domain.AssetUSDT].Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, time.Second, conf.OrderBookInterval)
	assert.Equal(t, 2*time.Second, conf.StrategyInterval)
	assert.Equal(t, 500*time.Millisecond, conf.StakingInterval)
	assert.Equal(t, ":9090", conf.WebAddr)
	assert.Equal(t, "debug", conf.Log.Level)
}

func TestLoadYAML_InvalidAssetRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("initial_balances:\n  DOGE: \"1\"\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadYAML_NegativeBalanceRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("initial_balances:\n  USDC: \"-1\"\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	conf := Default()
	conf.WebAddr = ":7001"
	conf.StrategyInterval = 7 * time.Second
	require.NoError(t, Save(conf, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7001", loaded.WebAddr)
	assert.Equal(t, 7*time.Second, loaded.StrategyInterval)
	assert.True(t, loaded.InitialBalances[domain.AssetN9G].Equal(decimal.NewFromInt(5000)))
}
