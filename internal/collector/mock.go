package collector

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"StockDashboard/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// When Bars is nil it synthesizes one bar per weekday around Price.
type MockFetcher struct {
	Price float64
	Bars  []model.OHLCV
	Err   error
	Calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	m.Calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		bars := append([]model.OHLCV(nil), m.Bars...)
		return model.NewPriceSeries(symbol, inRange(bars, start, end))
	}
	return model.NewPriceSeries(symbol, generateMockBars(m.Price, start, end))
}

// generateMockBars produces a deterministic wave so MACD crosses over now and then.
func generateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	var bars []model.OHLCV
	i := 0
	for d := Date(start); !d.After(Date(end)); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/10) + float64(i)*0.0005)
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000 + float64(i%5)*50000,
		})
		i++
	}
	return bars
}
