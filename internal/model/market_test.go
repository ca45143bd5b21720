package model

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"
)

func bar(day int, close, volume float64) OHLCV {
	return OHLCV{
		Time:   time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		Open:   close,
		High:   close + 1,
		Low:    close - 1,
		Close:  close,
		Volume: volume,
	}
}

func TestNewPriceSeries_Validation(t *testing.T) {
	tests := []struct {
		name    string
		bars    []OHLCV
		wantErr bool
	}{
		{"empty is allowed", nil, false},
		{"ascending", []OHLCV{bar(1, 10, 100), bar(4, 11, 0)}, false},
		{"duplicate date", []OHLCV{bar(1, 10, 100), bar(1, 11, 100)}, true},
		{"descending", []OHLCV{bar(5, 10, 100), bar(4, 11, 100)}, true},
		{"zero close", []OHLCV{bar(1, 0, 100)}, true},
		{"nan close", []OHLCV{bar(1, math.NaN(), 100)}, true},
		{"infinite close", []OHLCV{bar(1, math.Inf(1), 100)}, true},
		{"infinite high", []OHLCV{{Time: bar(1, 0, 0).Time, Open: 5, High: math.Inf(1), Low: 4, Close: 5, Volume: 1}}, true},
		{"negative volume", []OHLCV{bar(1, 10, -5)}, true},
		{"infinite volume", []OHLCV{bar(1, 10, math.Inf(1))}, true},
		{"high below low passes through", []OHLCV{{Time: bar(1, 0, 0).Time, Open: 5, High: 4, Low: 6, Close: 5, Volume: 1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPriceSeries("T", tt.bars)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSeries) {
					t.Errorf("expected ErrInvalidSeries, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPriceSeries_IsolatedFromInput(t *testing.T) {
	bars := []OHLCV{bar(1, 10, 100), bar(2, 11, 200)}
	s, err := NewPriceSeries("T", bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bars[0].Close = 999
	if s.Closes()[0] != 10 {
		t.Error("series must not share storage with the caller's slice")
	}
	out := s.Bars()
	out[1].Close = 999
	if s.Bar(1).Close != 11 {
		t.Error("Bars must return a copy")
	}
	last, ok := s.Last()
	if !ok || last.Close != 11 {
		t.Errorf("unexpected last bar %+v", last)
	}
}

func TestParseIndicators(t *testing.T) {
	set, err := ParseIndicators("macd, VWAP")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set.Has(IndicatorMACD) || !set.Has(IndicatorVWAP) {
		t.Errorf("expected both indicators, got %v", set.Names())
	}

	set, err = ParseIndicators("")
	if err != nil || len(set) != 0 {
		t.Errorf("expected empty set, got %v (err=%v)", set, err)
	}

	if _, err := ParseIndicators("rsi"); err == nil {
		t.Error("expected error for unsupported indicator")
	}
}

func TestPoint_MarshalUndefinedAsNull(t *testing.T) {
	s := IndicatorSeries{Name: "VWAP", Points: []Point{
		{Time: bar(1, 1, 1).Time},
		{Time: bar(2, 1, 1).Time, Value: 0, Valid: true},
	}}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"VWAP","points":[{"time":"2024-03-01","value":null},{"time":"2024-03-02","value":0}]}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}

func TestPointAndStat_UnmarshalJSON(t *testing.T) {
	var s IndicatorSeries
	if err := json.Unmarshal([]byte(`{"name":"VWAP","points":[{"time":"2024-03-01","value":null},{"time":"2024-03-02","value":1.5}]}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Points[0].Valid || !s.Points[1].Valid || s.Points[1].Value != 1.5 {
		t.Errorf("unexpected points %+v", s.Points)
	}
	if !s.Points[1].Time.Equal(bar(2, 1, 1).Time) {
		t.Errorf("unexpected time %s", s.Points[1].Time)
	}

	var sum Summary
	if err := json.Unmarshal([]byte(`{"count":1,"std":null,"mean":3}`), &sum); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sum.Std.Valid || sum.Mean != 3 {
		t.Errorf("unexpected summary %+v", sum)
	}
}
