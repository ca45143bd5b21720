package strategy

import (
	"fmt"
	"strings"

	"StockDashboard/internal/model"
)

// CrossoverLookback is how many recent bars are searched for a MACD/signal crossing.
const CrossoverLookback = 5

// StretchPct is the close-vs-VWAP deviation that triggers a warning.
const StretchPct = 10.0

// Evaluate interprets the latest indicator values of an analysis.
func Evaluate(a *model.Analysis) model.Reading {
	r := model.Reading{Trend: model.TrendUnknown, Crossover: model.CrossoverNone}
	var notes []string

	if a.MACD != nil && a.Signal != nil {
		scoreMACD(&r, a.MACD, a.Signal)
		notes = append(notes, macdCommentary(r))
	}

	if a.VWAP != nil {
		scoreVWAP(&r, a.Series, a.VWAP)
		if r.VWAPDeviation.Valid {
			notes = append(notes, fmt.Sprintf("close %+.1f%% vs VWAP", r.VWAPDeviation.Value))
		} else {
			notes = append(notes, "VWAP undefined")
			r.WarningMsg = "VWAP undefined: no traded volume in the selected range"
		}
	}

	if len(notes) == 0 {
		r.Commentary = "no indicators requested"
	} else {
		r.Commentary = strings.Join(notes, "; ")
	}
	return r
}

func macdCommentary(r model.Reading) string {
	var s string
	switch r.Trend {
	case model.TrendBullish:
		s = "MACD above signal"
	case model.TrendBearish:
		s = "MACD below signal"
	case model.TrendNeutral:
		s = "MACD on signal"
	default:
		return "MACD unavailable"
	}
	switch r.Crossover {
	case model.CrossoverGolden:
		s += ", golden cross " + r.CrossoverAt.Format("2006-01-02")
	case model.CrossoverDead:
		s += ", dead cross " + r.CrossoverAt.Format("2006-01-02")
	}
	return s
}
