package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"StockDashboard/internal/calculator"
	"StockDashboard/internal/collector"
	"StockDashboard/internal/model"
	"StockDashboard/internal/recorder"
)

// Analyzer runs analyses. *collector.Collector satisfies it.
type Analyzer interface {
	Request(symbol string) model.AnalysisRequest
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Analysis, error)
}

// Handler serves the dashboard data API.
type Handler struct {
	analyzer Analyzer
	recorder recorder.Recorder
	symbols  []string
}

// NewHandler creates a Handler. A nil rec disables history.
func NewHandler(analyzer Analyzer, rec recorder.Recorder, symbols []string) *Handler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Handler{analyzer: analyzer, recorder: rec, symbols: symbols}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Symbols returns the symbol catalog.
//
// GET /symbols
func (h *Handler) Symbols(c *gin.Context) {
	def := h.analyzer.Request("").Symbol
	c.JSON(http.StatusOK, SymbolsResponse{Default: def, Symbols: h.symbols})
}

// Analysis fetches the range and returns candles, requested indicators, statistics and a reading.
//
// GET /analysis/:symbol?start=2024-01-02&end=2024-06-28&indicators=macd,vwap&fast=12&slow=26&signal=9
func (h *Handler) Analysis(c *gin.Context) {
	req, err := h.parseRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	a, err := h.analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			log.Printf("[ERROR] analysis %s: %v", req.Symbol, err)
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	resp := toResponse(a)
	id, err := h.recorder.RecordAnalysis(&recorder.AnalysisRun{Trigger: model.TriggerAPI, Analysis: a})
	if err != nil {
		log.Printf("[WARN] record analysis %s: %v", req.Symbol, err)
	}
	resp.RunID = id
	c.JSON(http.StatusOK, resp)
}

// History lists recorded runs.
//
// GET /history?symbol=AAPL&limit=20
func (h *Handler) History(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 500 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be an integer between 1 and 500"})
		return
	}
	runs, err := h.recorder.RecentRuns(strings.ToUpper(c.Query("symbol")), limit)
	if err != nil {
		log.Printf("[ERROR] history: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if runs == nil {
		runs = []recorder.RunSummary{}
	}
	c.JSON(http.StatusOK, runs)
}

func (h *Handler) parseRequest(c *gin.Context) (model.AnalysisRequest, error) {
	req := h.analyzer.Request(c.Param("symbol"))

	if v := c.Query("end"); v != "" {
		end, err := time.Parse("2006-01-02", v)
		if err != nil {
			return req, fmt.Errorf("end: expected YYYY-MM-DD, got %q", v)
		}
		// keep the default lookback anchored to the requested end
		req.Start = end.Add(req.Start.Sub(req.End))
		req.End = end
	}
	if v := c.Query("start"); v != "" {
		start, err := time.Parse("2006-01-02", v)
		if err != nil {
			return req, fmt.Errorf("start: expected YYYY-MM-DD, got %q", v)
		}
		req.Start = start
	}

	if v, ok := c.GetQuery("indicators"); ok {
		set, err := model.ParseIndicators(v)
		if err != nil {
			return req, err
		}
		req.Active = set
	}

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"fast", &req.Config.FastSpan},
		{"slow", &req.Config.SlowSpan},
		{"signal", &req.Config.SignalSpan},
	} {
		v := c.Query(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%s: expected an integer, got %q", p.name, v)
		}
		*p.dst = n
	}
	return req, nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, collector.ErrNoData), errors.Is(err, calculator.ErrEmptySeries):
		return http.StatusNotFound
	case errors.Is(err, calculator.ErrInvalidConfiguration):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
