package server

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"StockDashboard/internal/metrics"
)

// NewRouter wires the API routes. A nil m disables /metrics and request counting.
func NewRouter(h *Handler, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if m != nil {
		r.Use(countRequests(m))
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	r.GET("/healthz", h.Health)
	r.GET("/symbols", h.Symbols)
	r.GET("/analysis/:symbol", h.Analysis)
	r.GET("/history", h.History)
	return r
}

func countRequests(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
