package smc

import (
	"math"

	"SMCSentinel/internal/model"
)

// equalHighLow flags consecutive same-side pivots within an ATR-scaled tolerance.
type equalHighLow struct {
	pivots    *pivotTracker
	threshold float64
}

func newEqualHighLow(length int, threshold float64) *equalHighLow {
	return &equalHighLow{pivots: newPivotTracker(length), threshold: threshold}
}

func (e *equalHighLow) update(bars []model.OHLCV, atr []float64, i int) (model.Event, bool) {
	u, ok := e.pivots.detect(bars, i)
	if !ok || i >= len(atr) {
		return model.Event{}, false
	}
	tolerance := atr[i] * e.threshold
	if !finite(tolerance) || tolerance <= 0 {
		return model.Event{}, false
	}
	p := e.pivots.pivot(u.side)
	if !finite(p.last) || math.Abs(p.current-p.last) >= tolerance {
		return model.Event{}, false
	}
	if u.side == sideHigh {
		return model.Event{Time: u.time, Price: u.level, Kind: model.EventEQH, Bias: model.Bear, Text: "EQH", Scope: model.ScopeOther}, true
	}
	return model.Event{Time: u.time, Price: u.level, Kind: model.EventEQL, Bias: model.Bull, Text: "EQL", Scope: model.ScopeOther}, true
}
