package calculator

import (
	"fmt"
	"time"

	"StockDashboard/internal/model"
)

// MACD returns the MACD line (fast EMA minus slow EMA of close) and its signal line
// (EMA of the MACD line). Both are aligned with the series.
//
// A slow span that does not exceed the fast span is computed as given.
func MACD(series *model.PriceSeries, cfg model.IndicatorConfig) (macd, signal model.IndicatorSeries, err error) {
	if series.Len() == 0 {
		return macd, signal, fmt.Errorf("macd: %w", ErrEmptySeries)
	}
	closes := series.Closes()

	fast, err := EMA(closes, cfg.FastSpan)
	if err != nil {
		return macd, signal, fmt.Errorf("macd fast span: %w", err)
	}
	slow, err := EMA(closes, cfg.SlowSpan)
	if err != nil {
		return macd, signal, fmt.Errorf("macd slow span: %w", err)
	}
	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}
	sig, err := EMA(line, cfg.SignalSpan)
	if err != nil {
		return macd, signal, fmt.Errorf("macd signal span: %w", err)
	}

	times := series.Times()
	macd = toSeries(fmt.Sprintf("MACD(%d,%d)", cfg.FastSpan, cfg.SlowSpan), times, line)
	signal = toSeries(fmt.Sprintf("SIGNAL(%d)", cfg.SignalSpan), times, sig)
	return macd, signal, nil
}

func toSeries(name string, times []time.Time, values []float64) model.IndicatorSeries {
	points := make([]model.Point, len(values))
	for i, v := range values {
		points[i] = model.Point{Time: times[i], Value: v, Valid: true}
	}
	return model.IndicatorSeries{Name: name, Points: points}
}
