package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"StockDashboard/internal/model"
)

// DefaultSymbols is the catalog used when none is configured: a slice of the S&P 500.
var DefaultSymbols = []string{
	"AAPL", "MSFT", "NVDA", "AMZN", "GOOGL", "META", "BRK.B", "JPM", "V", "UNH",
	"XOM", "JNJ", "PG", "MA", "HD", "COST", "KO", "PEP", "WMT", "DIS",
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
		Mode string `yaml:"mode"` // gin mode: debug, release, test
	} `yaml:"server"`
	DataSource struct {
		Provider     string   `yaml:"provider"` // yahoo, vstrader or mock
		BaseURL      string   `yaml:"base_url"`
		APIKey       string   `yaml:"api_key"`
		Symbol       string   `yaml:"symbol"`
		Symbols      []string `yaml:"symbols"`
		LookbackDays int      `yaml:"lookback_days"`
	} `yaml:"data_source"`
	Indicators struct {
		// nil means unset; an explicit 0 is kept so Validate can refuse it
		FastSpan   *int     `yaml:"fast_span"`
		SlowSpan   *int     `yaml:"slow_span"`
		SignalSpan *int     `yaml:"signal_span"`
		Active     []string `yaml:"active"`
	} `yaml:"indicators"`
	Cache struct {
		RedisAddr     string `yaml:"redis_addr"`
		RedisPassword string `yaml:"redis_password"`
		TTLMinutes    int    `yaml:"ttl_minutes"`
	} `yaml:"cache"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already set in the process environment
	_ = godotenv.Load()

	// Environment variable overrides
	setString(&cfg.Server.Addr, "SERVER_ADDR")
	setString(&cfg.Server.Mode, "GIN_MODE")
	setString(&cfg.DataSource.Provider, "DATA_PROVIDER")
	setString(&cfg.DataSource.BaseURL, "VSTRADER_BASE_URL")
	setString(&cfg.DataSource.APIKey, "VSTRADER_API_KEY")
	setString(&cfg.DataSource.Symbol, "DEFAULT_SYMBOL")
	setString(&cfg.Cache.RedisAddr, "REDIS_ADDR")
	setString(&cfg.Cache.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	setString(&cfg.Schedule.DailyCron, "CRON_DAILY")
	setString(&cfg.Database.SQLitePath, "SQLITE_PATH")
	setString(&cfg.Proxy, "HTTPS_PROXY")
	if v := os.Getenv("DATA_SYMBOLS"); v != "" {
		cfg.DataSource.Symbols = splitList(v)
	}
	if v := os.Getenv("INDICATORS"); v != "" {
		cfg.Indicators.Active = splitList(v)
	}
	if err := setInt(&cfg.DataSource.LookbackDays, "LOOKBACK_DAYS"); err != nil {
		return nil, err
	}
	if err := setIntPtr(&cfg.Indicators.FastSpan, "MACD_FAST"); err != nil {
		return nil, err
	}
	if err := setIntPtr(&cfg.Indicators.SlowSpan, "MACD_SLOW"); err != nil {
		return nil, err
	}
	if err := setIntPtr(&cfg.Indicators.SignalSpan, "MACD_SIGNAL"); err != nil {
		return nil, err
	}
	if err := setInt(&cfg.Cache.TTLMinutes, "CACHE_TTL_MINUTES"); err != nil {
		return nil, err
	}

	// Defaults
	def := model.DefaultIndicatorConfig()
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if len(cfg.DataSource.Symbols) == 0 {
		cfg.DataSource.Symbols = append([]string(nil), DefaultSymbols...)
	}
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = cfg.DataSource.Symbols[0]
	}
	if cfg.DataSource.LookbackDays == 0 {
		cfg.DataSource.LookbackDays = 365
	}
	if cfg.Indicators.FastSpan == nil {
		cfg.Indicators.FastSpan = &def.FastSpan
	}
	if cfg.Indicators.SlowSpan == nil {
		cfg.Indicators.SlowSpan = &def.SlowSpan
	}
	if cfg.Indicators.SignalSpan == nil {
		cfg.Indicators.SignalSpan = &def.SignalSpan
	}
	if cfg.Indicators.Active == nil {
		cfg.Indicators.Active = []string{"MACD", "VWAP"}
	}
	if cfg.Cache.TTLMinutes == 0 {
		cfg.Cache.TTLMinutes = 15
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 30 22 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stock_dashboard.db"
	}

	for i, s := range cfg.DataSource.Symbols {
		cfg.DataSource.Symbols[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	cfg.DataSource.Symbol = strings.ToUpper(cfg.DataSource.Symbol)

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "vstrader":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the vstrader provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if len(c.DataSource.Symbols) == 0 {
		return fmt.Errorf("data_source.symbols must not be empty")
	}
	if c.DataSource.LookbackDays <= 0 {
		return fmt.Errorf("data_source.lookback_days must be positive")
	}
	ic := c.IndicatorConfig()
	if ic.FastSpan <= 0 || ic.SlowSpan <= 0 || ic.SignalSpan <= 0 {
		return fmt.Errorf("indicators spans must be positive, got %d/%d/%d", ic.FastSpan, ic.SlowSpan, ic.SignalSpan)
	}
	if ic.SlowSpan <= ic.FastSpan {
		log.Printf("[WARN] indicators.slow_span (%d) <= fast_span (%d), MACD will be inverted or flat", ic.SlowSpan, ic.FastSpan)
	}
	if _, err := c.ActiveIndicators(); err != nil {
		return fmt.Errorf("indicators.active: %w", err)
	}
	if c.Cache.TTLMinutes < 0 {
		return fmt.Errorf("cache.ttl_minutes must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// IndicatorConfig returns the configured MACD spans.
func (c *Config) IndicatorConfig() model.IndicatorConfig {
	return model.IndicatorConfig{
		FastSpan:   deref(c.Indicators.FastSpan),
		SlowSpan:   deref(c.Indicators.SlowSpan),
		SignalSpan: deref(c.Indicators.SignalSpan),
	}
}

// ActiveIndicators parses the configured indicator names.
func (c *Config) ActiveIndicators() (model.IndicatorSet, error) {
	return model.ParseIndicators(c.Indicators.Active...)
}

// TelegramEnabled reports whether notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("env %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setIntPtr(dst **int, key string) error {
	if os.Getenv(key) == "" {
		return nil
	}
	var n int
	if err := setInt(&n, key); err != nil {
		return err
	}
	*dst = &n
	return nil
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
