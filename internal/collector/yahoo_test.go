package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartPayload = `{"chart":{"result":[{
	"meta":{"gmtoffset":-18000},
	"timestamp":[1709303400,1709562600,1709649000],
	"indicators":{"quote":[{
		"open":[10.0,11.0,null],
		"high":[11.0,12.5,null],
		"low":[9.5,10.5,null],
		"close":[10.5,12.0,null],
		"volume":[1000,null,null]
	}]}
}],"error":null}}`

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	var gotPath, gotP1, gotP2, gotInterval string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotP1 = r.URL.Query().Get("period1")
		gotP2 = r.URL.Query().Get("period2")
		gotInterval = r.URL.Query().Get("interval")
		_, _ = w.Write([]byte(chartPayload))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL

	s, err := f.FetchDailyBars(context.Background(), "BRK.B", day(3, 1), day(3, 5))
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/BRK-B", gotPath)
	assert.Equal(t, "1709251200", gotP1)
	assert.Equal(t, "1709683200", gotP2, "period2 must cover the end date")
	assert.Equal(t, "1d", gotInterval)

	require.Equal(t, 2, s.Len(), "null bars are skipped")
	assert.Equal(t, "BRK.B", s.Symbol)
	assert.True(t, s.Bar(0).Time.Equal(day(3, 1)))
	assert.True(t, s.Bar(1).Time.Equal(day(3, 4)))
	assert.Equal(t, 12.0, s.Bar(1).Close)
	assert.Equal(t, 0.0, s.Bar(1).Volume, "missing volume reads as zero")
}

func TestYahooFetcher_UnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyBars(context.Background(), "NOPE", day(3, 1), day(3, 5))
	assert.True(t, errors.Is(err, ErrNoData), "got %v", err)
}

func TestYahooFetcher_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{},"timestamp":[],"indicators":{"quote":[{}]}}],"error":null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyBars(context.Background(), "AAPL", day(3, 1), day(3, 5))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestYahooFetcher_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyBars(context.Background(), "AAPL", day(3, 1), day(3, 5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestYahooFetcher_SymbolMap(t *testing.T) {
	f := NewYahooFetcher("")
	assert.Equal(t, "^GSPC", f.yahooSymbol("SPX"))
	assert.Equal(t, "AAPL", f.yahooSymbol("AAPL"))
}
