package strategy

import (
	"strings"
	"testing"
	"time"

	"StockDashboard/internal/model"
)

var t0 = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func lineOf(name string, values ...float64) *model.IndicatorSeries {
	pts := make([]model.Point, len(values))
	for i, v := range values {
		pts[i] = model.Point{Time: t0.AddDate(0, 0, i), Value: v, Valid: true}
	}
	return &model.IndicatorSeries{Name: name, Points: pts}
}

func seriesOf(t *testing.T, closes ...float64) *model.PriceSeries {
	t.Helper()
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: t0.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 100}
	}
	s, err := model.NewPriceSeries("TEST", bars)
	if err != nil {
		t.Fatalf("build series: %v", err)
	}
	return s
}

func TestEvaluate_GoldenCross(t *testing.T) {
	a := &model.Analysis{
		Series: seriesOf(t, 10, 10, 10, 10, 10, 10),
		MACD:   lineOf("MACD", 0, -0.5, -0.4, -0.1, 0.2, 0.4),
		Signal: lineOf("SIGNAL", 0, -0.3, -0.35, -0.2, 0.0, 0.2),
	}
	r := Evaluate(a)
	if r.Trend != model.TrendBullish {
		t.Errorf("expected bullish trend, got %s", r.Trend)
	}
	if r.Crossover != model.CrossoverGolden {
		t.Fatalf("expected golden cross, got %s", r.Crossover)
	}
	if !r.CrossoverAt.Equal(t0.AddDate(0, 0, 3)) {
		t.Errorf("expected crossover on day 3, got %s", r.CrossoverAt)
	}
	if !strings.Contains(r.Commentary, "golden cross") {
		t.Errorf("commentary missing crossover: %q", r.Commentary)
	}
}

func TestEvaluate_DeadCross(t *testing.T) {
	a := &model.Analysis{
		Series: seriesOf(t, 10, 10, 10, 10),
		MACD:   lineOf("MACD", 0, 0.5, 0.3, 0.1),
		Signal: lineOf("SIGNAL", 0, 0.3, 0.3, 0.25),
	}
	r := Evaluate(a)
	if r.Trend != model.TrendBearish {
		t.Errorf("expected bearish trend, got %s", r.Trend)
	}
	if r.Crossover != model.CrossoverDead {
		t.Errorf("expected dead cross, got %s", r.Crossover)
	}
	if !r.Histogram.Valid || r.Histogram.Value >= 0 {
		t.Errorf("expected negative histogram, got %+v", r.Histogram)
	}
}

func TestEvaluate_CrossoverOutsideLookback(t *testing.T) {
	macd := []float64{0, -1, 1, 2, 3, 4, 5, 6, 7}
	sig := make([]float64, len(macd))
	a := &model.Analysis{
		Series: seriesOf(t, 1, 1, 1, 1, 1, 1, 1, 1, 1),
		MACD:   lineOf("MACD", macd...),
		Signal: lineOf("SIGNAL", sig...),
	}
	r := Evaluate(a)
	if r.Crossover != model.CrossoverNone {
		t.Errorf("expected no recent crossover, got %s at %s", r.Crossover, r.CrossoverAt)
	}
}

func TestEvaluate_VWAPDeviation(t *testing.T) {
	a := &model.Analysis{
		Series: seriesOf(t, 100, 110),
		VWAP:   lineOf("VWAP", 100, 105),
	}
	r := Evaluate(a)
	if !r.VWAPDeviation.Valid {
		t.Fatal("expected defined VWAP deviation")
	}
	want := (110.0 - 105.0) / 105.0 * 100
	if diff := r.VWAPDeviation.Value - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("deviation: got %.4f, want %.4f", r.VWAPDeviation.Value, want)
	}
	if r.WarningMsg != "" {
		t.Errorf("unexpected warning: %s", r.WarningMsg)
	}
	if r.Trend != model.TrendUnknown {
		t.Errorf("MACD not requested, expected unknown trend, got %s", r.Trend)
	}
}

func TestEvaluate_VWAPStretched(t *testing.T) {
	a := &model.Analysis{
		Series: seriesOf(t, 100, 130),
		VWAP:   lineOf("VWAP", 100, 110),
	}
	r := Evaluate(a)
	if r.WarningMsg == "" {
		t.Error("expected stretch warning")
	}
}

func TestEvaluate_VWAPUndefined(t *testing.T) {
	vwap := lineOf("VWAP", 0, 0)
	for i := range vwap.Points {
		vwap.Points[i].Valid = false
	}
	a := &model.Analysis{Series: seriesOf(t, 10, 11), VWAP: vwap}
	r := Evaluate(a)
	if r.VWAPDeviation.Valid {
		t.Error("expected undefined deviation")
	}
	if !strings.Contains(r.WarningMsg, "VWAP undefined") {
		t.Errorf("expected undefined warning, got %q", r.WarningMsg)
	}
}

func TestEvaluate_NothingRequested(t *testing.T) {
	r := Evaluate(&model.Analysis{Series: seriesOf(t, 10)})
	if r.Commentary != "no indicators requested" {
		t.Errorf("unexpected commentary %q", r.Commentary)
	}
}
