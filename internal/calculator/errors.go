// Package calculator computes technical indicators and statistics from a PriceSeries.
//
// Every function is pure: it reads its input, allocates its output and keeps no
// state between calls, so concurrent use with separate inputs is safe.
package calculator

import "errors"

var (
	// ErrEmptySeries is returned when a computation receives zero records.
	ErrEmptySeries = errors.New("empty series")
	// ErrInvalidConfiguration is returned for non-positive spans.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrUndefinedValue marks a value that exists in position but has no defined result,
	// such as VWAP with zero cumulative volume or the deviation of a single sample.
	ErrUndefinedValue = errors.New("undefined value")
)
