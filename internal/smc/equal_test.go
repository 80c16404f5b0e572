package smc

import (
	"math"
	"testing"

	"SMCSentinel/internal/model"
)

// twoPeaks builds flat bars with upper spikes at bars 3 and 8.
func twoPeaks(first, second float64) []model.OHLCV {
	bars := flatBars(13, 99.5)
	bars[3] = mkBar(3, 99.5, first, 99.5, 99.6)
	bars[8] = mkBar(8, 99.5, second, 99.5, 99.6)
	return bars
}

// twoTroughs builds flat bars with lower spikes at bars 3 and 8.
func twoTroughs(first, second float64) []model.OHLCV {
	bars := flatBars(13, 99.5)
	bars[3] = mkBar(3, 99.5, 99.8, first, 99.4)
	bars[8] = mkBar(8, 99.5, 99.8, second, 99.4)
	return bars
}

func constATR(n int, v float64) []float64 {
	atr := make([]float64, n)
	for i := range atr {
		atr[i] = v
	}
	return atr
}

func runEqual(bars []model.OHLCV, atr []float64) []model.Event {
	e := newEqualHighLow(3, 0.25)
	var out []model.Event
	for i := 1; i < len(bars); i++ {
		if evt, ok := e.update(bars, atr, i); ok {
			out = append(out, evt)
		}
	}
	return out
}

func TestEqualHighs_ToleranceIsExclusive(t *testing.T) {
	atr := constATR(13, 4) // tolerance 4 * 0.25 = 1

	if got := runEqual(twoPeaks(110, 111), atr); len(got) != 0 {
		t.Fatalf("levels exactly one tolerance apart must not fire, got %+v", got)
	}
	got := runEqual(twoPeaks(110, 110.5), atr)
	if len(got) != 1 {
		t.Fatalf("expected one EQH, got %+v", got)
	}
	evt := got[0]
	if evt.Kind != model.EventEQH || evt.Bias != model.Bear || evt.Price != 110.5 || !evt.Time.Equal(at(8)) {
		t.Errorf("unexpected event %+v", evt)
	}
}

func TestEqualLows(t *testing.T) {
	atr := constATR(13, 4)
	got := runEqual(twoTroughs(90, 89.2), atr)
	if len(got) != 1 || got[0].Kind != model.EventEQL || got[0].Bias != model.Bull || got[0].Text != "EQL" {
		t.Fatalf("expected one EQL, got %+v", got)
	}
	if got := runEqual(twoTroughs(90, 89), atr); len(got) != 0 {
		t.Fatalf("boundary must not fire, got %+v", got)
	}
}

func TestEqualHighs_RequiresUsableATR(t *testing.T) {
	bars := twoPeaks(110, 110.1)
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if got := runEqual(bars, constATR(13, v)); len(got) != 0 {
			t.Errorf("atr %v: expected no event, got %+v", v, got)
		}
	}
}
