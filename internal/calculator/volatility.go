package calculator

import (
	"errors"
	"math"

	"SMCSentinel/internal/model"
)

// TrueRange returns the per-bar true range. The first bar is measured against its own close.
func TrueRange(bars []model.OHLCV) []float64 {
	tr := make([]float64, len(bars))
	for i, b := range bars {
		prevClose := b.Close
		if i > 0 {
			prevClose = bars[i-1].Close
		}
		tr[i] = math.Max(b.High-b.Low, math.Max(math.Abs(b.High-prevClose), math.Abs(b.Low-prevClose)))
	}
	return tr
}

// RMA applies Wilder smoothing seeded with the first value.
func RMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out, nil
	}
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = out[i-1] + (values[i]-out[i-1])/float64(period)
	}
	return out, nil
}

// ATRWilder computes the Wilder-smoothed average true range over the given period.
func ATRWilder(bars []model.OHLCV, period int) ([]float64, error) {
	return RMA(TrueRange(bars), period)
}

// CumulativeMeanRange returns the running mean of the true range since the first bar.
func CumulativeMeanRange(bars []model.OHLCV) []float64 {
	tr := TrueRange(bars)
	out := make([]float64, len(tr))
	sum := 0.0
	for i, v := range tr {
		sum += v
		out[i] = sum / float64(i+1)
	}
	return out
}

// FillNonFinite replaces NaN and infinite entries with the mean of the finite ones.
// An input without finite entries is filled with zeros.
func FillNonFinite(values []float64) []float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if isFinite(v) {
			sum += v
			n++
		}
	}
	mean := 0.0
	if n > 0 {
		mean = sum / float64(n)
	}
	out := make([]float64, len(values))
	for i, v := range values {
		if isFinite(v) {
			out[i] = v
		} else {
			out[i] = mean
		}
	}
	return out
}

// ParsedHighLow swaps high and low on bars whose range is at least twice the
// volatility measure, so noise spikes do not anchor order blocks.
func ParsedHighLow(bars []model.OHLCV, measure []float64) (parsedHigh, parsedLow []float64) {
	parsedHigh = make([]float64, len(bars))
	parsedLow = make([]float64, len(bars))
	for i, b := range bars {
		vm := 0.0
		if i < len(measure) {
			vm = measure[i]
		}
		if b.High-b.Low >= 2*vm {
			parsedHigh[i], parsedLow[i] = b.Low, b.High
		} else {
			parsedHigh[i], parsedLow[i] = b.High, b.Low
		}
	}
	return parsedHigh, parsedLow
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
