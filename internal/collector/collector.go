package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"StockDashboard/internal/calculator"
	"StockDashboard/internal/metrics"
	"StockDashboard/internal/model"
	"StockDashboard/internal/strategy"
)

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher      Fetcher
	Symbol       string
	Config       model.IndicatorConfig
	Active       model.IndicatorSet
	LookbackDays int
	Metrics      *metrics.Metrics

	now func() time.Time
}

// NewCollector creates a Collector with the default spans, both indicators and a one-year lookback.
func NewCollector(fetcher Fetcher, symbol string) *Collector {
	return &Collector{
		Fetcher:      fetcher,
		Symbol:       symbol,
		Config:       model.DefaultIndicatorConfig(),
		Active:       model.AllIndicators(),
		LookbackDays: 365,
		now:          time.Now,
	}
}

// Request returns a request for symbol (the default symbol when empty) over the
// default range ending today.
func (c *Collector) Request(symbol string) model.AnalysisRequest {
	if symbol == "" {
		symbol = c.Symbol
	}
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	end := Date(now())
	active := model.IndicatorSet{}
	for k, v := range c.Active {
		active[k] = v
	}
	return model.AnalysisRequest{
		Symbol: strings.ToUpper(symbol),
		Start:  end.AddDate(0, 0, -c.LookbackDays),
		End:    end,
		Config: c.Config,
		Active: active,
	}
}

// Analyze fetches the requested range and computes the requested indicators.
// A fetch failure is reported as ErrNoData and no computation is attempted;
// cancellation and deadline errors are returned as they are.
func (c *Collector) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Analysis, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", calculator.ErrInvalidConfiguration)
	}
	if req.End.Before(req.Start) {
		return nil, fmt.Errorf("%w: end %s before start %s", calculator.ErrInvalidConfiguration,
			req.End.Format("2006-01-02"), req.Start.Format("2006-01-02"))
	}

	fetchStart := time.Now()
	series, err := c.Fetcher.FetchDailyBars(ctx, req.Symbol, req.Start, req.End)
	c.Metrics.ObserveFetch(c.Fetcher.Name(), fetchStart)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.Metrics.IncAnalysis("error")
			return nil, fmt.Errorf("fetch daily bars: %w", err)
		}
		c.Metrics.IncAnalysis("no_data")
		if errors.Is(err, ErrNoData) {
			return nil, fmt.Errorf("fetch daily bars: %w", err)
		}
		return nil, fmt.Errorf("fetch daily bars: %w: %w", ErrNoData, err)
	}
	if series.Len() == 0 {
		c.Metrics.IncAnalysis("no_data")
		return nil, fmt.Errorf("fetch daily bars: %w: %s between %s and %s", ErrNoData, req.Symbol,
			req.Start.Format("2006-01-02"), req.End.Format("2006-01-02"))
	}
	if c.Metrics != nil {
		c.Metrics.BarsFetched.Observe(float64(series.Len()))
	}
	log.Printf("[INFO] Fetched %d daily bars for %s from %s", series.Len(), req.Symbol, c.Fetcher.Name())

	computeStart := time.Now()
	a, err := compute(series, req)
	if c.Metrics != nil {
		c.Metrics.ComputeDur.Observe(time.Since(computeStart).Seconds())
	}
	if err != nil {
		if errors.Is(err, calculator.ErrInvalidConfiguration) {
			c.Metrics.IncAnalysis("invalid")
		} else {
			c.Metrics.IncAnalysis("error")
		}
		return nil, err
	}
	c.Metrics.IncAnalysis("ok")
	return a, nil
}

func compute(series *model.PriceSeries, req model.AnalysisRequest) (*model.Analysis, error) {
	a := &model.Analysis{Request: req, Series: series, CreatedAt: time.Now().UTC()}

	summary, err := calculator.SummarizeSeries(series)
	if err != nil {
		return nil, fmt.Errorf("summary statistics: %w", err)
	}
	a.Summary = summary

	if req.Active.Has(model.IndicatorMACD) {
		macd, signal, err := calculator.MACD(series, req.Config)
		if err != nil {
			return nil, err
		}
		a.MACD, a.Signal = &macd, &signal
	}

	if req.Active.Has(model.IndicatorVWAP) {
		vwap, err := calculator.VWAP(series)
		if err != nil {
			return nil, err
		}
		a.VWAP = &vwap
		if last, ok := vwap.Last(); ok && !last.Valid {
			log.Printf("[WARN] VWAP undefined for %s: no traded volume in range", series.Symbol)
		}
	}

	a.Reading = strategy.Evaluate(a)
	return a, nil
}
