package calculator

import (
	"errors"
	"math"

	"SMCSentinel/internal/model"
)

// WindowRange scans bars[from:to] and returns the highest high and the lowest low.
func WindowRange(bars []model.OHLCV, from, to int) (high, low float64, err error) {
	if from < 0 || to > len(bars) || from >= to {
		return 0, 0, errors.New("empty or out of bounds window")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := from; i < to; i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return high, low, nil
}

// RangePosition returns where the current price sits within [low, high] (0.0~1.0).
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
