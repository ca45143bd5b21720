package calculator

import "fmt"

// EMA computes the exponential moving average of values with the given span.
// alpha = 2/(span+1), ema[0] = values[0], ema[i] = alpha*values[i] + (1-alpha)*ema[i-1].
// No warm-up bias correction is applied. Span 1 returns a copy of values.
func EMA(values []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, fmt.Errorf("%w: span must be positive, got %d", ErrInvalidConfiguration, span)
	}
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out, nil
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out, nil
}

// CumSum returns the running totals of values.
func CumSum(values []float64) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		out[i] = sum
	}
	return out
}
