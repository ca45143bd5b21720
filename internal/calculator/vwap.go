package calculator

import (
	"fmt"

	"StockDashboard/internal/model"
)

// VWAP returns the cumulative volume-weighted average of the typical price
// (high+low+close)/3. vwap[i] depends only on bars 0..i.
//
// While cumulative volume is zero the point is marked undefined (Valid=false)
// instead of carrying NaN; later points are still computed.
func VWAP(series *model.PriceSeries) (model.IndicatorSeries, error) {
	n := series.Len()
	if n == 0 {
		return model.IndicatorSeries{}, fmt.Errorf("vwap: %w", ErrEmptySeries)
	}

	pv := make([]float64, n)
	for i := 0; i < n; i++ {
		b := series.Bar(i)
		pv[i] = TypicalPrice(b) * b.Volume
	}
	cumPV := CumSum(pv)
	cumVol := CumSum(series.Volumes())

	points := make([]model.Point, n)
	for i := 0; i < n; i++ {
		points[i] = model.Point{Time: series.Bar(i).Time}
		if cumVol[i] == 0 {
			continue
		}
		points[i].Value = cumPV[i] / cumVol[i]
		points[i].Valid = true
	}
	return model.IndicatorSeries{Name: "VWAP", Points: points}, nil
}

// TypicalPrice returns (high+low+close)/3.
func TypicalPrice(b model.OHLCV) float64 {
	return (b.High + b.Low + b.Close) / 3
}

// ValueAt returns the i-th value of s, or ErrUndefinedValue when that point is undefined.
func ValueAt(s model.IndicatorSeries, i int) (float64, error) {
	if i < 0 || i >= len(s.Points) {
		return 0, fmt.Errorf("%s index %d out of range [0,%d)", s.Name, i, len(s.Points))
	}
	p := s.Points[i]
	if !p.Valid {
		return 0, fmt.Errorf("%s at %s: %w", s.Name, p.Time.Format("2006-01-02"), ErrUndefinedValue)
	}
	return p.Value, nil
}
