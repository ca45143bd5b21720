package model

import "time"

// TriggerType indicates what started an analysis.
type TriggerType string

const (
	TriggerDaily  TriggerType = "DAILY"
	TriggerManual TriggerType = "MANUAL"
	TriggerAPI    TriggerType = "API"
)

// Trend is the MACD line position relative to its signal line.
type Trend string

const (
	TrendBullish Trend = "BULLISH"
	TrendBearish Trend = "BEARISH"
	TrendNeutral Trend = "NEUTRAL"
	TrendUnknown Trend = "UNKNOWN"
)

// Crossover is a MACD/signal line crossing.
type Crossover string

const (
	CrossoverNone   Crossover = "NONE"
	CrossoverGolden Crossover = "GOLDEN" // MACD crossed above signal
	CrossoverDead   Crossover = "DEAD"   // MACD crossed below signal
)

// Reading is a plain-language interpretation of the latest indicator values.
type Reading struct {
	Trend         Trend     `json:"trend"`
	Histogram     Stat      `json:"histogram"`
	Crossover     Crossover `json:"crossover"`
	CrossoverAt   time.Time `json:"crossover_at,omitzero"`
	VWAPDeviation Stat      `json:"vwap_deviation_pct"` // (close - vwap) / vwap * 100
	Commentary    string    `json:"commentary"`
	WarningMsg    string    `json:"warning,omitempty"`
}
