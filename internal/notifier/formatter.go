package notifier

import (
	"fmt"
	"html"
	"strings"

	"StockDashboard/internal/model"
	"StockDashboard/internal/recorder"
)

// FormatAnalysisReport formats the latest analysis of a symbol into a Telegram message.
func FormatAnalysisReport(a *model.Analysis) string {
	var b strings.Builder
	req := a.Request
	r := a.Reading

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s → %s\n\n", html.EscapeString(a.Series.Symbol),
		req.Start.Format("2006-01-02"), req.End.Format("2006-01-02")))

	if last, ok := a.Series.Last(); ok {
		b.WriteString(fmt.Sprintf("Close: %.2f (%s)\n", last.Close, last.Time.Format("2006-01-02")))
		b.WriteString(fmt.Sprintf("Range: %.2f – %.2f over %d sessions\n\n", a.Summary.Min, a.Summary.Max, a.Summary.Count))
	}

	if a.MACD != nil && a.Signal != nil {
		cfg := req.Config
		b.WriteString(fmt.Sprintf("📈 <b>MACD(%d,%d,%d)</b>\n", cfg.FastSpan, cfg.SlowSpan, cfg.SignalSpan))
		b.WriteString(fmt.Sprintf("  MACD: %s | Signal: %s\n", lastOf(a.MACD), lastOf(a.Signal)))
		b.WriteString(fmt.Sprintf("  Histogram: %s | Trend: %s\n", formatStat(r.Histogram, "%+.4f"), r.Trend))
		if r.Crossover != model.CrossoverNone {
			b.WriteString(fmt.Sprintf("  %s cross on %s\n", strings.ToLower(string(r.Crossover)), r.CrossoverAt.Format("2006-01-02")))
		}
		b.WriteString("\n")
	}

	if a.VWAP != nil {
		b.WriteString("⚖️ <b>VWAP</b>\n")
		b.WriteString(fmt.Sprintf("  VWAP: %s | Close vs VWAP: %s\n\n", lastOf(a.VWAP), formatStat(r.VWAPDeviation, "%+.2f%%")))
	}

	if r.Commentary != "" {
		b.WriteString(fmt.Sprintf("💬 %s\n", html.EscapeString(r.Commentary)))
	}
	if r.WarningMsg != "" {
		b.WriteString(fmt.Sprintf("⚠️ %s\n", html.EscapeString(r.WarningMsg)))
	}
	return b.String()
}

// FormatStats formats the summary statistics of the close prices.
func FormatStats(a *model.Analysis) string {
	s := a.Summary
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📦 <b>%s close statistics</b>\n\n", html.EscapeString(a.Series.Symbol)))
	b.WriteString("<pre>")
	b.WriteString(fmt.Sprintf("count %10d\n", s.Count))
	b.WriteString(fmt.Sprintf("mean  %10.2f\n", s.Mean))
	b.WriteString(fmt.Sprintf("std   %10s\n", formatStat(s.Std, "%.2f")))
	b.WriteString(fmt.Sprintf("min   %10.2f\n", s.Min))
	b.WriteString(fmt.Sprintf("25%%   %10.2f\n", s.P25))
	b.WriteString(fmt.Sprintf("50%%   %10.2f\n", s.P50))
	b.WriteString(fmt.Sprintf("75%%   %10.2f\n", s.P75))
	b.WriteString(fmt.Sprintf("max   %10.2f\n", s.Max))
	b.WriteString("</pre>")
	return b.String()
}

// FormatError formats a failed command for the chat.
func FormatError(symbol string, err error) string {
	return fmt.Sprintf("❌ <b>%s</b>: %s", html.EscapeString(symbol), html.EscapeString(err.Error()))
}

// FormatHelp lists the supported bot commands.
func FormatHelp(defaultSymbol string) string {
	return fmt.Sprintf("🤖 <b>StockDashboard</b>\n\n"+
		"/report [SYMBOL] - MACD and VWAP report\n"+
		"/stats [SYMBOL] - close price statistics\n"+
		"/history [SYMBOL] - recent recorded runs\n"+
		"/help - this message\n\n"+
		"Default symbol: %s", html.EscapeString(defaultSymbol))
}

// FormatHistory lists recorded runs, newest first.
func FormatHistory(runs []recorder.RunSummary) string {
	if len(runs) == 0 {
		return "🗂 No analyses recorded yet."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent analyses</b>\n\n")
	for _, r := range runs {
		b.WriteString(fmt.Sprintf("%s %s %s → %s close %.2f %s",
			r.RecordedAt.Format("01-02 15:04"), html.EscapeString(r.Symbol), r.Start, r.End, r.LastClose, r.Trend))
		if r.Crossover != "" && r.Crossover != string(model.CrossoverNone) {
			b.WriteString(" " + strings.ToLower(r.Crossover) + " cross")
		}
		b.WriteString(fmt.Sprintf(" [%s]\n", strings.ToLower(r.Trigger)))
	}
	return b.String()
}

func lastOf(s *model.IndicatorSeries) string {
	p, ok := s.Last()
	if !ok || !p.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", p.Value)
}

func formatStat(s model.Stat, format string) string {
	if !s.Valid {
		return "n/a"
	}
	return fmt.Sprintf(format, s.Value)
}
