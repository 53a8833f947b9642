package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alejandrodnm/frcbot/config"
	"github.com/alejandrodnm/frcbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv vacía las variables que Load lee, para aislar cada test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URL", "TOKEN", "EX_RPC", "NODE_RPC", "NODE_API_PORT",
		"LIST_SUM_AMOUNT", "LOG_LEVEL", "LOG_FORMAT", "METRICS_ADDR",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir()) // sin .env
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_YAMLAndDefaults(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, `
robot:
  token: FRC
  list_sum_amount: 1000
  buy_interval_seconds: 30
api:
  exchange_rpc: http://ex
  node_rpc: http://node
  node_api_port: "8668"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "FRC", cfg.Robot.Token)
	assert.Equal(t, uint64(1000), cfg.SumThreshold())
	assert.Equal(t, 1, cfg.StartPriceIndex())
	assert.Equal(t, 50, cfg.Robot.PageSize)
	assert.Equal(t, 5*time.Second, cfg.SupplyInterval())
	assert.Equal(t, 30*time.Second, cfg.BuyInterval())
	assert.Equal(t, 15*time.Second, cfg.CallTimeout())
	assert.Equal(t, domain.DefaultFloorPrices, cfg.Robot.FloorPrices)
	assert.Equal(t, 10, cfg.Accounts.Count)
	assert.Equal(t, "accounts-mint.txt", cfg.Accounts.MintFile)
	assert.Equal(t, "http://node:8668", cfg.NodeURL())
	assert.Equal(t, "frcbot.db", cfg.Storage.DSN)
}

func TestLoad_EnvOverridesWithoutYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOKEN", "T")
	t.Setenv("EX_RPC", "http://ex")
	t.Setenv("NODE_RPC", "http://node")
	t.Setenv("NODE_API_PORT", "8669")
	t.Setenv("LIST_SUM_AMOUNT", "18446744073709551615")
	t.Setenv("DATABASE_URL", "/tmp/robot.db")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "T", cfg.Robot.Token)
	assert.Equal(t, uint64(18446744073709551615), cfg.SumThreshold())
	assert.Equal(t, 1, cfg.StartPriceIndex(), "sin YAML arranca en el índice 1")
	assert.Equal(t, "/tmp/robot.db", cfg.Storage.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidListSumAmount(t *testing.T) {
	clearEnv(t)
	t.Setenv("LIST_SUM_AMOUNT", "-3")

	_, err := config.Load("missing.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfig))
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, "robot: [unclosed")

	_, err := config.Load(path)
	assert.True(t, errors.Is(err, domain.ErrConfig))
}

func TestValidate_MissingRequired(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load("missing.yaml")
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfig))
	for _, k := range []string{"TOKEN", "EX_RPC", "NODE_RPC", "NODE_API_PORT", "LIST_SUM_AMOUNT"} {
		assert.Contains(t, err.Error(), k)
	}
}

func TestValidate_BadPort(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, `
robot: {token: T, list_sum_amount: 1}
api: {exchange_rpc: http://ex, node_rpc: http://node, node_api_port: "http"}
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, errors.Is(cfg.Validate(), domain.ErrConfig))
}

func TestLoad_ZeroListSumAmountIsValid(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOKEN", "T")
	t.Setenv("EX_RPC", "http://ex")
	t.Setenv("NODE_RPC", "http://node")
	t.Setenv("NODE_API_PORT", "8668")
	t.Setenv("LIST_SUM_AMOUNT", "0")

	cfg, err := config.Load("missing.yaml")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, uint64(0), cfg.SumThreshold())
}

func TestLoad_ZeroListSumAmountFromYAML(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, `
robot: {token: T, list_sum_amount: 0}
api: {exchange_rpc: http://ex, node_rpc: http://node, node_api_port: "8668"}
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_StartPriceIndex(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(writeYAML(t, "robot: {start_price_index: 0}"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.StartPriceIndex(), "un 0 explícito se respeta")

	cfg, err = config.Load(writeYAML(t, "robot: {token: T}"))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.StartPriceIndex())
}
