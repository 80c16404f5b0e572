package smc

import (
	"math"
	"time"

	"SMCSentinel/internal/calculator"
	"SMCSentinel/internal/model"
)

type side int

const (
	sideHigh side = iota
	sideLow
)

// breakBias is the bias a close-price cross of this side establishes.
func (s side) breakBias() model.Bias {
	if s == sideHigh {
		return model.Bull
	}
	return model.Bear
}

// pivot is the live level of one side at one scope. It is overwritten in place
// on every confirmation.
type pivot struct {
	current   float64
	last      float64
	crossed   bool
	confirmed bool
	time      time.Time
	index     int
}

func newPivot() pivot {
	return pivot{current: math.NaN(), last: math.NaN(), index: -1}
}

func (p *pivot) confirm(level float64, t time.Time, index int) {
	p.last = p.current
	p.current = level
	p.crossed = false
	p.confirmed = true
	p.time = t
	p.index = index
}

type pivotUpdate struct {
	side  side
	time  time.Time
	level float64
	index int
}

// pivotTracker confirms pivot highs and lows at a fixed lookback.
type pivotTracker struct {
	size int
	high pivot
	low  pivot
}

func newPivotTracker(size int) *pivotTracker {
	return &pivotTracker{size: size, high: newPivot(), low: newPivot()}
}

func (t *pivotTracker) pivot(s side) *pivot {
	if s == sideHigh {
		return &t.high
	}
	return &t.low
}

// detect checks whether the bar size positions back from i is now a confirmed
// pivot. A candidate qualifying on both sides is recorded as a low.
func (t *pivotTracker) detect(bars []model.OHLCV, i int) (pivotUpdate, bool) {
	p := i - t.size
	if p < 0 || i >= len(bars) {
		return pivotUpdate{}, false
	}
	maxHigh, minLow, err := calculator.WindowRange(bars, p+1, i+1)
	if err != nil {
		return pivotUpdate{}, false
	}
	candidate := bars[p]
	switch {
	case candidate.Low < minLow:
		t.low.confirm(candidate.Low, candidate.Time, p)
		return pivotUpdate{side: sideLow, time: candidate.Time, level: candidate.Low, index: p}, true
	case candidate.High > maxHigh:
		t.high.confirm(candidate.High, candidate.Time, p)
		return pivotUpdate{side: sideHigh, time: candidate.Time, level: candidate.High, index: p}, true
	}
	return pivotUpdate{}, false
}
