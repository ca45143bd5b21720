package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"StockDashboard/internal/model"
)

// ErrNoData is the recoverable condition surfaced when no series can be produced
// for a request: provider failure, unknown symbol or an empty result.
var ErrNoData = errors.New("no data available for the selected period")

// Fetcher retrieves historical daily bars.
type Fetcher interface {
	// FetchDailyBars returns the bars of symbol for the inclusive date range [start, end].
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error)
	Name() string
}

// newHTTPClient builds a client with a request timeout and optional proxy.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// Date truncates t to its calendar date in UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// inRange keeps bars whose date falls in [start, end].
func inRange(bars []model.OHLCV, start, end time.Time) []model.OHLCV {
	start, end = Date(start), Date(end)
	out := bars[:0]
	for _, b := range bars {
		d := Date(b.Time)
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// dedupeByDate keeps the last bar of each calendar date; bars must be sorted.
func dedupeByDate(bars []model.OHLCV) []model.OHLCV {
	out := make([]model.OHLCV, 0, len(bars))
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
