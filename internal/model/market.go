package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidSeries is returned when bars cannot form a PriceSeries.
var ErrInvalidSeries = errors.New("invalid price series")

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds the ascending daily bars of one symbol.
// Build it with NewPriceSeries; it is not modified afterwards.
type PriceSeries struct {
	Symbol string
	bars   []OHLCV
}

// NewPriceSeries validates bars and wraps them in a PriceSeries.
// Timestamps must be strictly increasing, prices positive and finite, volume non-negative and finite.
// An empty bar list is accepted; indicator computations reject it later.
func NewPriceSeries(symbol string, bars []OHLCV) (*PriceSeries, error) {
	for i, b := range bars {
		if i > 0 && !b.Time.After(bars[i-1].Time) {
			return nil, fmt.Errorf("%w: bar %d at %s is not after %s", ErrInvalidSeries, i,
				b.Time.Format("2006-01-02"), bars[i-1].Time.Format("2006-01-02"))
		}
		for _, p := range [...]float64{b.Open, b.High, b.Low, b.Close} {
			if !(p > 0) || math.IsInf(p, 0) {
				return nil, fmt.Errorf("%w: bar %d has invalid price %v", ErrInvalidSeries, i, p)
			}
		}
		if !(b.Volume >= 0) || math.IsInf(b.Volume, 0) {
			return nil, fmt.Errorf("%w: bar %d has invalid volume %v", ErrInvalidSeries, i, b.Volume)
		}
	}
	cp := make([]OHLCV, len(bars))
	copy(cp, bars)
	return &PriceSeries{Symbol: symbol, bars: cp}, nil
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bars)
}

// Bars returns a copy of the bars.
func (s *PriceSeries) Bars() []OHLCV {
	out := make([]OHLCV, s.Len())
	if s != nil {
		copy(out, s.bars)
	}
	return out
}

// Bar returns the i-th bar.
func (s *PriceSeries) Bar(i int) OHLCV { return s.bars[i] }

// Times returns the bar timestamps.
func (s *PriceSeries) Times() []time.Time {
	out := make([]time.Time, s.Len())
	for i := range out {
		out[i] = s.bars[i].Time
	}
	return out
}

// Closes returns the close price column.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, s.Len())
	for i := range out {
		out[i] = s.bars[i].Close
	}
	return out
}

// Volumes returns the volume column.
func (s *PriceSeries) Volumes() []float64 {
	out := make([]float64, s.Len())
	for i := range out {
		out[i] = s.bars[i].Volume
	}
	return out
}

// Last returns the most recent bar and false if the series is empty.
func (s *PriceSeries) Last() (OHLCV, bool) {
	if s.Len() == 0 {
		return OHLCV{}, false
	}
	return s.bars[len(s.bars)-1], true
}
