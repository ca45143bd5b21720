package recorder

import (
	"time"

	"StockDashboard/internal/model"
)

// AnalysisRun is one computed analysis and what triggered it.
type AnalysisRun struct {
	Trigger  model.TriggerType
	Analysis *model.Analysis
}

// RunSummary is the stored headline of a past run.
type RunSummary struct {
	ID            int64      `json:"id"`
	RecordedAt    time.Time  `json:"recorded_at"`
	Trigger       string     `json:"trigger"`
	Symbol        string     `json:"symbol"`
	Start         string     `json:"start"`
	End           string     `json:"end"`
	Bars          int        `json:"bars"`
	LastClose     float64    `json:"last_close"`
	Trend         string     `json:"trend"`
	Crossover     string     `json:"crossover"`
	VWAPDeviation model.Stat `json:"vwap_deviation_pct"`
}

// Recorder persists analysis history.
type Recorder interface {
	RecordAnalysis(run *AnalysisRun) (int64, error)
	RecentRuns(symbol string, limit int) ([]RunSummary, error)
	Close() error
}
