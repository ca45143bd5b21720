package strategy

import (
	"math"

	"StockDashboard/internal/model"
)

// scoreMACD sets the trend from the last histogram value (MACD minus signal)
// and records the most recent sign change within CrossoverLookback bars.
func scoreMACD(r *model.Reading, macd, signal *model.IndicatorSeries) {
	n := macd.Len()
	if n == 0 || signal.Len() != n {
		return
	}
	hist := make([]float64, n)
	for i := range hist {
		hist[i] = macd.Points[i].Value - signal.Points[i].Value
	}

	last := hist[n-1]
	r.Histogram = model.Stat{Value: last, Valid: true}
	switch {
	case last > 0:
		r.Trend = model.TrendBullish
	case last < 0:
		r.Trend = model.TrendBearish
	default:
		r.Trend = model.TrendNeutral
	}

	start := n - CrossoverLookback
	if start < 1 {
		start = 1
	}
	for i := n - 1; i >= start; i-- {
		prev, cur := sign(hist[i-1]), sign(hist[i])
		if prev <= 0 && cur > 0 {
			r.Crossover = model.CrossoverGolden
			r.CrossoverAt = macd.Points[i].Time
			return
		}
		if prev >= 0 && cur < 0 {
			r.Crossover = model.CrossoverDead
			r.CrossoverAt = macd.Points[i].Time
			return
		}
	}
}

// scoreVWAP reports the last close as a percentage deviation from the last VWAP value.
func scoreVWAP(r *model.Reading, series *model.PriceSeries, vwap *model.IndicatorSeries) {
	bar, ok := series.Last()
	p, okV := vwap.Last()
	if !ok || !okV || !p.Valid || p.Value == 0 {
		return
	}
	dev := (bar.Close - p.Value) / p.Value * 100
	r.VWAPDeviation = model.Stat{Value: dev, Valid: true}
	if math.Abs(dev) >= StretchPct {
		r.WarningMsg = "price stretched from VWAP, mean reversion risk"
	}
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
