package calculator

import (
	"fmt"
	"math"
	"sort"

	"StockDashboard/internal/model"
)

// Summarize returns count, mean, sample standard deviation, min, quartiles and max.
// NaN values count as missing and are skipped. Std is undefined for a single value.
func Summarize(values []float64) (model.Summary, error) {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	n := len(valid)
	if n == 0 {
		return model.Summary{}, fmt.Errorf("summary: %w", ErrEmptySeries)
	}
	sort.Float64s(valid)

	sum := 0.0
	for _, v := range valid {
		sum += v
	}
	mean := sum / float64(n)

	s := model.Summary{
		Count: n,
		Mean:  mean,
		Min:   valid[0],
		P25:   percentile(valid, 0.25),
		P50:   percentile(valid, 0.50),
		P75:   percentile(valid, 0.75),
		Max:   valid[n-1],
	}
	if n > 1 {
		ss := 0.0
		for _, v := range valid {
			d := v - mean
			ss += d * d
		}
		s.Std = model.Stat{Value: math.Sqrt(ss / float64(n-1)), Valid: true}
	}
	return s, nil
}

// SummarizeSeries summarizes the close prices of series.
func SummarizeSeries(series *model.PriceSeries) (model.Summary, error) {
	return Summarize(series.Closes())
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
