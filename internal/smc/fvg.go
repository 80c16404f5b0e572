package smc

import (
	"math"

	"SMCSentinel/internal/model"
)

type fairValueGap struct {
	top        float64
	bottom     float64
	bias       model.Bias
	startIndex int
	endIndex   int
}

// fvgDetector finds three-bar gaps whose middle bar moved more than an
// adaptive multiple of the average absolute bar delta.
type fvgDetector struct {
	autoThreshold bool
	extend        int
	cumAbsDelta   float64
	gaps          *boundedList[fairValueGap]
}

func newFVGDetector(autoThreshold bool, extend int) *fvgDetector {
	return &fvgDetector{
		autoThreshold: autoThreshold,
		extend:        max(extend, 0),
		gaps:          newBoundedList[fairValueGap](fairValueGapCap),
	}
}

// fill drops gaps that price has traded back into.
func (d *fvgDetector) fill(b model.OHLCV) int {
	return d.gaps.RemoveIf(func(g fairValueGap) bool {
		if g.bias == model.Bull {
			return b.Low < g.bottom
		}
		return b.High > g.top
	})
}

// barDeltaPercent is the body move of b relative to its open. A zero open has no delta.
func barDeltaPercent(b model.OHLCV) float64 {
	if b.Open == 0 {
		return 0
	}
	return (b.Close - b.Open) / (b.Open * 100)
}

// detect evaluates the window ending at bar i and records any gap found.
func (d *fvgDetector) detect(bars []model.OHLCV, i int) (fairValueGap, bool) {
	if i < 2 || i >= len(bars) {
		return fairValueGap{}, false
	}
	cur, last, last2 := bars[i], bars[i-1], bars[i-2]

	delta := barDeltaPercent(last)
	d.cumAbsDelta += math.Abs(delta)
	threshold := 0.0
	if d.autoThreshold {
		threshold = d.cumAbsDelta / float64(i) * 2
	}

	var gap fairValueGap
	switch {
	case cur.Low > last2.High && last.Close > last2.High && delta > threshold:
		gap = fairValueGap{top: cur.Low, bottom: last2.High, bias: model.Bull}
	case cur.High < last2.Low && last.Close < last2.Low && -delta > threshold:
		gap = fairValueGap{top: last2.Low, bottom: cur.High, bias: model.Bear}
	default:
		return fairValueGap{}, false
	}
	if !finite(gap.top) || !finite(gap.bottom) || gap.top <= gap.bottom {
		return fairValueGap{}, false
	}
	gap.startIndex = i - 1
	gap.endIndex = i - 1 + d.extend
	d.gaps.PushFront(gap)
	return gap, true
}

// areas materializes every live gap. End indices past the last bar are clamped.
func (d *fvgDetector) areas(bars []model.OHLCV, style Style) []model.Area {
	gaps := d.gaps.Items()
	out := make([]model.Area, 0, len(gaps))
	last := len(bars) - 1
	for _, g := range gaps {
		p := fairValueGapPalette(g.bias, style)
		out = append(out, model.Area{
			Start:  bars[g.startIndex].Time,
			End:    bars[min(g.endIndex, last)].Time,
			Top:    g.top,
			Bottom: g.bottom,
			Name:   "FVG",
			Kind:   "fvg_" + string(g.bias),
			Fill:   p.fill,
			Border: p.border,
		})
	}
	return out
}
