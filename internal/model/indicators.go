package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Indicator names a computation the caller can request.
type Indicator string

const (
	IndicatorMACD Indicator = "MACD"
	IndicatorVWAP Indicator = "VWAP"
)

// IndicatorSet is the set of indicators to compute.
type IndicatorSet map[Indicator]bool

// AllIndicators returns a set with every supported indicator.
func AllIndicators() IndicatorSet {
	return IndicatorSet{IndicatorMACD: true, IndicatorVWAP: true}
}

// ParseIndicators parses names such as "macd,vwap" (case-insensitive).
// An empty input yields an empty set.
func ParseIndicators(names ...string) (IndicatorSet, error) {
	set := IndicatorSet{}
	for _, raw := range names {
		for _, part := range strings.Split(raw, ",") {
			part = strings.ToUpper(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			switch Indicator(part) {
			case IndicatorMACD, IndicatorVWAP:
				set[Indicator(part)] = true
			default:
				return nil, fmt.Errorf("unknown indicator %q", part)
			}
		}
	}
	return set, nil
}

// Has reports whether ind is in the set.
func (s IndicatorSet) Has(ind Indicator) bool { return s[ind] }

// Names returns the sorted indicator names.
func (s IndicatorSet) Names() []string {
	out := make([]string, 0, len(s))
	for ind, on := range s {
		if on {
			out = append(out, string(ind))
		}
	}
	sort.Strings(out)
	return out
}

// IndicatorConfig holds the MACD spans.
type IndicatorConfig struct {
	FastSpan   int `json:"fast_span" yaml:"fast_span"`
	SlowSpan   int `json:"slow_span" yaml:"slow_span"`
	SignalSpan int `json:"signal_span" yaml:"signal_span"`
}

// DefaultIndicatorConfig returns the conventional 12/26/9 spans.
func DefaultIndicatorConfig() IndicatorConfig {
	return IndicatorConfig{FastSpan: 12, SlowSpan: 26, SignalSpan: 9}
}

// Point is one indicator value. Valid is false when the value is undefined.
type Point struct {
	Time  time.Time
	Value float64
	Valid bool
}

// MarshalJSON renders undefined points with a null value.
func (p Point) MarshalJSON() ([]byte, error) {
	var v *float64
	if p.Valid {
		v = &p.Value
	}
	return json.Marshal(struct {
		Time  string   `json:"time"`
		Value *float64 `json:"value"`
	}{Time: p.Time.Format("2006-01-02"), Value: v})
}

// UnmarshalJSON accepts the form produced by MarshalJSON.
func (p *Point) UnmarshalJSON(b []byte) error {
	var raw struct {
		Time  string   `json:"time"`
		Value *float64 `json:"value"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", raw.Time)
	if err != nil {
		return fmt.Errorf("point time: %w", err)
	}
	*p = Point{Time: t}
	if raw.Value != nil {
		p.Value, p.Valid = *raw.Value, true
	}
	return nil
}

// IndicatorSeries is aligned index-for-index with the PriceSeries it came from.
type IndicatorSeries struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Len returns the number of points.
func (s IndicatorSeries) Len() int { return len(s.Points) }

// Values returns the raw values; undefined points read as 0, so check Valid when it matters.
func (s IndicatorSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Last returns the most recent point.
func (s IndicatorSeries) Last() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Stat is a statistic that may be undefined.
type Stat struct {
	Value float64
	Valid bool
}

// MarshalJSON renders an undefined statistic as null.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON treats null as undefined.
func (s *Stat) UnmarshalJSON(b []byte) error {
	var v *float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Stat{}
	if v != nil {
		s.Value, s.Valid = *v, true
	}
	return nil
}

// Summary holds descriptive statistics of the close prices.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   Stat    `json:"std"`
	Min   float64 `json:"min"`
	P25   float64 `json:"p25"`
	P50   float64 `json:"p50"`
	P75   float64 `json:"p75"`
	Max   float64 `json:"max"`
}

// AnalysisRequest describes what the caller wants analysed.
type AnalysisRequest struct {
	Symbol string
	Start  time.Time
	End    time.Time
	Config IndicatorConfig
	Active IndicatorSet
}

// Analysis is everything handed to the presentation layer.
// MACD, Signal and VWAP are nil when not requested.
type Analysis struct {
	Request   AnalysisRequest
	Series    *PriceSeries
	MACD      *IndicatorSeries
	Signal    *IndicatorSeries
	VWAP      *IndicatorSeries
	Summary   Summary
	Reading   Reading
	CreatedAt time.Time
}
