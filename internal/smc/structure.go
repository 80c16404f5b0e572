package smc

import (
	"math"

	"SMCSentinel/internal/model"
)

// structure tracks pivots and trend bias for one scope.
type structure struct {
	scope  model.Scope
	pivots *pivotTracker
	trend  model.Bias
}

func newStructure(scope model.Scope, size int) *structure {
	return &structure{scope: scope, pivots: newPivotTracker(size), trend: model.Bear}
}

// tryBreak fires when curClose crosses the un-crossed level of side s. A break
// whose bias differs from the prevailing trend is a CHoCH, otherwise a BOS.
func (st *structure) tryBreak(s side, prevClose, curClose float64) (model.EventKind, bool) {
	p := st.pivots.pivot(s)
	if !p.confirmed || p.crossed || !finite(p.current) {
		return "", false
	}
	level := p.current
	var crossed bool
	if s == sideHigh {
		crossed = prevClose <= level && curClose > level
	} else {
		crossed = prevClose >= level && curClose < level
	}
	if !crossed {
		return "", false
	}

	bias := s.breakBias()
	kind := model.EventBOS
	if st.trend != bias {
		kind = model.EventCHoCH
	}
	st.trend = bias
	p.crossed = true
	return kind, true
}

// barShape reports the wick comparison used by the internal confluence filter.
// It is an empirically tuned heuristic: a longer upper wick counts as bullish.
func barShape(b model.OHLCV) (bullish, bearish bool) {
	upper := b.High - math.Max(b.Close, b.Open)
	lower := math.Min(b.Close, b.Open) - b.Low
	return upper > lower, upper < lower
}

// confluence gates internal breaks on bar shape and on the internal level
// differing from the swing level of the same side.
func confluence(b model.OHLCV, s side, internal, swing *structure) bool {
	bullish, bearish := barShape(b)
	in, sw := internal.pivots.pivot(s), swing.pivots.pivot(s)
	if s == sideHigh {
		return bullish && in.current != sw.current
	}
	return bearish && in.current != sw.current
}
