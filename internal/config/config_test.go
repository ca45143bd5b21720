package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockDashboard/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, 365, cfg.DataSource.LookbackDays)
	assert.Equal(t, "AAPL", cfg.DataSource.Symbol)
	assert.Len(t, cfg.DataSource.Symbols, len(DefaultSymbols))
	assert.Equal(t, model.DefaultIndicatorConfig(), cfg.IndicatorConfig())
	assert.Equal(t, 15, cfg.Cache.TTLMinutes)
	assert.False(t, cfg.TelegramEnabled())

	set, err := cfg.ActiveIndicators()
	require.NoError(t, err)
	assert.Equal(t, []string{"MACD", "VWAP"}, set.Names())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := writeConfig(t, `
data_source:
  provider: vstrader
  base_url: http://localhost:9000
  symbols: [msft, " nvda "]
  lookback_days: 90
indicators:
  fast_span: 5
  slow_span: 35
  signal_span: 5
  active: [vwap]
`)
	t.Setenv("MACD_SIGNAL", "7")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"MSFT", "NVDA"}, cfg.DataSource.Symbols)
	assert.Equal(t, "MSFT", cfg.DataSource.Symbol)
	assert.Equal(t, 90, cfg.DataSource.LookbackDays)
	assert.Equal(t, model.IndicatorConfig{FastSpan: 5, SlowSpan: 35, SignalSpan: 7}, cfg.IndicatorConfig())
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)

	set, err := cfg.ActiveIndicators()
	require.NoError(t, err)
	assert.False(t, set.Has(model.IndicatorMACD))
	assert.True(t, set.Has(model.IndicatorVWAP))
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EmptyActiveList(t *testing.T) {
	cfg, err := Load(writeConfig(t, "indicators:\n  active: []\n"))
	require.NoError(t, err)
	set, err := cfg.ActiveIndicators()
	require.NoError(t, err)
	assert.Empty(t, set)
}

func intPtr(n int) *int { return &n }

func TestLoad_ExplicitZeroSpanIsRefused(t *testing.T) {
	cfg, err := Load(writeConfig(t, "indicators:\n  fast_span: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.IndicatorConfig().FastSpan, "explicit zero must not fall back to the default")
	assert.Equal(t, 26, cfg.IndicatorConfig().SlowSpan)
	assert.Error(t, cfg.Validate())

	t.Setenv("MACD_SIGNAL", "0")
	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.IndicatorConfig().SignalSpan)
	assert.Error(t, cfg.Validate())
}

func TestLoad_BadEnvInt(t *testing.T) {
	t.Setenv("LOOKBACK_DAYS", "a year")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "data_source: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"slow below fast only warns", func(c *Config) { c.Indicators.SlowSpan = intPtr(3) }, false},
		{"zero fast span", func(c *Config) { c.Indicators.FastSpan = intPtr(0) }, true},
		{"negative signal span", func(c *Config) { c.Indicators.SignalSpan = intPtr(-1) }, true},
		{"unset span", func(c *Config) { c.Indicators.SlowSpan = nil }, true},
		{"negative lookback", func(c *Config) { c.DataSource.LookbackDays = -5 }, true},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }, true},
		{"vstrader without url", func(c *Config) { c.DataSource.Provider = "vstrader" }, true},
		{"unknown indicator", func(c *Config) { c.Indicators.Active = []string{"RSI"} }, true},
		{"no symbols", func(c *Config) { c.DataSource.Symbols = nil }, true},
		{"telegram half configured", func(c *Config) { c.Telegram.BotToken = "x" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
