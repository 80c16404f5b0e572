package smc

import (
	"math"
	"time"

	"SMCSentinel/internal/model"
)

type orderBlock struct {
	top        float64
	bottom     float64
	bias       model.Bias
	start      time.Time
	startIndex int
}

// orderBlocks holds the live blocks of one scope, newest first.
type orderBlocks struct {
	scope model.Scope
	list  *boundedList[orderBlock]
}

func newOrderBlocks(scope model.Scope) *orderBlocks {
	return &orderBlocks{scope: scope, list: newBoundedList[orderBlock](orderBlockCap)}
}

// buildOrderBlock picks the bar behind a break at i of the pivot at s: the
// highest parsed high for bearish breaks, the lowest parsed low for bullish ones.
func buildOrderBlock(x *series, s, i int, bias model.Bias) (orderBlock, bool) {
	if s < 0 || s >= i || i > len(x.bars) {
		return orderBlock{}, false
	}
	idx := s
	if bias == model.Bear {
		for k := s + 1; k < i; k++ {
			if x.parsedHigh[k] > x.parsedHigh[idx] {
				idx = k
			}
		}
	} else {
		for k := s + 1; k < i; k++ {
			if x.parsedLow[k] < x.parsedLow[idx] {
				idx = k
			}
		}
	}
	top, bottom := x.parsedHigh[idx], x.parsedLow[idx]
	if !finite(top) || !finite(bottom) || top <= bottom {
		return orderBlock{}, false
	}
	return orderBlock{top: top, bottom: bottom, bias: bias, start: x.bars[idx].Time, startIndex: idx}, true
}

func (o *orderBlocks) add(ob orderBlock) {
	o.list.PushFront(ob)
}

// mitigationPrices returns the prices tested against bearish and bullish blocks.
func mitigationPrices(b model.OHLCV, m OrderBlockMitigation) (bear, bull float64) {
	if m == MitigationClose {
		return b.Close, b.Close
	}
	return b.High, b.Low
}

// mitigate evicts every block whose bound the test price has crossed.
func (o *orderBlocks) mitigate(bearTest, bullTest float64) int {
	return o.list.RemoveIf(func(ob orderBlock) bool {
		if ob.bias == model.Bear {
			return bearTest > ob.top
		}
		return bullTest < ob.bottom
	})
}

// areas materializes the limit most recent blocks, each extended to end.
func (o *orderBlocks) areas(limit int, end time.Time, style Style) []model.Area {
	obs := o.list.Head(limit)
	out := make([]model.Area, 0, len(obs))
	for _, ob := range obs {
		p := orderBlockPalette(o.scope, ob.bias, style)
		out = append(out, model.Area{
			Start:  ob.start,
			End:    end,
			Top:    ob.top,
			Bottom: ob.bottom,
			Name:   "OrderBlock",
			Kind:   "ob_" + string(o.scope) + "_" + string(ob.bias),
			Fill:   p.fill,
			Border: p.border,
		})
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
