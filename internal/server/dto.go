package server

import "StockDashboard/internal/model"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CandleResponse is one row of the raw data table.
type CandleResponse struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// AnalysisResponse carries everything a chart needs. Indicator series that
// were not requested are omitted; undefined points carry a null value.
type AnalysisResponse struct {
	Symbol     string                 `json:"symbol"`
	Start      string                 `json:"start"`
	End        string                 `json:"end"`
	Config     model.IndicatorConfig  `json:"config"`
	Indicators []string               `json:"indicators"`
	Candles    []CandleResponse       `json:"candles"`
	MACD       *model.IndicatorSeries `json:"macd,omitempty"`
	Signal     *model.IndicatorSeries `json:"signal,omitempty"`
	VWAP       *model.IndicatorSeries `json:"vwap,omitempty"`
	Statistics model.Summary          `json:"statistics"`
	Reading    model.Reading          `json:"reading"`
	RunID      int64                  `json:"run_id,omitempty"`
}

// SymbolsResponse lists the symbol catalog.
type SymbolsResponse struct {
	Default string   `json:"default"`
	Symbols []string `json:"symbols"`
}

func toResponse(a *model.Analysis) AnalysisResponse {
	bars := a.Series.Bars()
	candles := make([]CandleResponse, 0, len(bars))
	for _, b := range bars {
		candles = append(candles, CandleResponse{
			Time:   b.Time.UTC().Format("2006-01-02"),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	return AnalysisResponse{
		Symbol:     a.Series.Symbol,
		Start:      a.Request.Start.Format("2006-01-02"),
		End:        a.Request.End.Format("2006-01-02"),
		Config:     a.Request.Config,
		Indicators: a.Request.Active.Names(),
		Candles:    candles,
		MACD:       a.MACD,
		Signal:     a.Signal,
		VWAP:       a.VWAP,
		Statistics: a.Summary,
		Reading:    a.Reading,
	}
}
