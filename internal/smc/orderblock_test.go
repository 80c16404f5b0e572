package smc

import (
	"testing"
	"time"

	"SMCSentinel/internal/model"
)

func seriesOf(bars []model.OHLCV, parsedHigh, parsedLow []float64) *series {
	return &series{bars: bars, parsedHigh: parsedHigh, parsedLow: parsedLow}
}

func TestBuildOrderBlock_PicksExtremeBar(t *testing.T) {
	bars := flatBars(6, 100)
	x := seriesOf(bars,
		[]float64{101, 104, 106, 106, 103, 999},
		[]float64{99, 97, 95, 96, 95, 1},
	)

	bear, ok := buildOrderBlock(x, 1, 5, model.Bear)
	if !ok {
		t.Fatal("expected a bearish block")
	}
	if bear.startIndex != 2 || bear.top != 106 || bear.bottom != 95 {
		t.Errorf("bearish: expected first max parsed high at bar 2, got %+v", bear)
	}

	bull, ok := buildOrderBlock(x, 1, 5, model.Bull)
	if !ok {
		t.Fatal("expected a bullish block")
	}
	if bull.startIndex != 2 || !bull.start.Equal(at(2)) {
		t.Errorf("bullish: expected first min parsed low at bar 2, got %+v", bull)
	}
}

func TestBuildOrderBlock_RejectsDegenerate(t *testing.T) {
	bars := flatBars(4, 100)
	// bar 1 was a noise spike: its parsed high and low are swapped
	x := seriesOf(bars, []float64{101, 99, 100.5, 100.5}, []float64{99, 110, 99.5, 99.5})

	if _, ok := buildOrderBlock(x, 1, 2, model.Bear); ok {
		t.Error("top <= bottom must be rejected")
	}
	if _, ok := buildOrderBlock(x, 3, 3, model.Bear); ok {
		t.Error("source index at the breakout bar must be rejected")
	}
	if _, ok := buildOrderBlock(x, -1, 3, model.Bull); ok {
		t.Error("negative source index must be rejected")
	}
}

func TestOrderBlocks_MitigationClose(t *testing.T) {
	obs := newOrderBlocks(model.ScopeInternal)
	obs.add(orderBlock{top: 105, bottom: 100, bias: model.Bull, start: at(0)})
	end := at(10)

	closes := []float64{103, 100.5, 100}
	for _, c := range closes {
		bear, bull := mitigationPrices(mkBar(1, c, c+1, c-5, c), MitigationClose)
		obs.mitigate(bear, bull)
	}
	if got := obs.areas(5, end, StyleColored); len(got) != 1 {
		t.Fatalf("block should survive closes at or above its bottom, got %d areas", len(got))
	}

	bear, bull := mitigationPrices(mkBar(2, 100, 100.5, 99, 99.9), MitigationClose)
	if n := obs.mitigate(bear, bull); n != 1 {
		t.Fatalf("expected the block to be mitigated, removed %d", n)
	}
	if got := obs.areas(5, end, StyleColored); len(got) != 0 {
		t.Fatalf("mitigated block must not be materialized, got %+v", got)
	}
}

func TestOrderBlocks_MitigationHighLow(t *testing.T) {
	tests := []struct {
		name       string
		block      orderBlock
		bar        model.OHLCV
		mitigation OrderBlockMitigation
		evicted    bool
	}{
		{"bull wick below, highlow", orderBlock{top: 105, bottom: 100, bias: model.Bull}, mkBar(1, 101, 102, 99, 101), MitigationHighLow, true},
		{"bull wick below, close", orderBlock{top: 105, bottom: 100, bias: model.Bull}, mkBar(1, 101, 102, 99, 101), MitigationClose, false},
		{"bear wick above, highlow", orderBlock{top: 105, bottom: 100, bias: model.Bear}, mkBar(1, 104, 106, 103, 104), MitigationHighLow, true},
		{"bear wick above, close", orderBlock{top: 105, bottom: 100, bias: model.Bear}, mkBar(1, 104, 106, 103, 104), MitigationClose, false},
		{"bear close above", orderBlock{top: 105, bottom: 100, bias: model.Bear}, mkBar(1, 104, 107, 103, 105.5), MitigationClose, true},
		{"bear touch top", orderBlock{top: 105, bottom: 100, bias: model.Bear}, mkBar(1, 104, 105, 103, 104), MitigationHighLow, false},
	}
	for _, tt := range tests {
		obs := newOrderBlocks(model.ScopeSwing)
		obs.add(tt.block)
		bear, bull := mitigationPrices(tt.bar, tt.mitigation)
		if got := obs.mitigate(bear, bull) == 1; got != tt.evicted {
			t.Errorf("%s: expected evicted=%v, got %v", tt.name, tt.evicted, got)
		}
	}
}

func TestOrderBlocks_CapacityDropsOldest(t *testing.T) {
	obs := newOrderBlocks(model.ScopeInternal)
	for i := 0; i < 150; i++ {
		obs.add(orderBlock{top: float64(200 + i), bottom: float64(i), bias: model.Bull, startIndex: i})
	}
	if obs.list.Len() != orderBlockCap {
		t.Fatalf("expected %d live blocks, got %d", orderBlockCap, obs.list.Len())
	}
	if newest, oldest := obs.list.At(0), obs.list.At(orderBlockCap-1); newest.startIndex != 149 || oldest.startIndex != 50 {
		t.Errorf("expected newest 149 and oldest 50, got %d and %d", newest.startIndex, oldest.startIndex)
	}
}

func TestOrderBlocks_AreasCappedAndStyled(t *testing.T) {
	obs := newOrderBlocks(model.ScopeSwing)
	for i := 0; i < 8; i++ {
		obs.add(orderBlock{top: 110 + float64(i), bottom: 100, bias: model.Bear, start: at(i)})
	}
	end := at(20)
	areas := obs.areas(5, end, StyleColored)
	if len(areas) != 5 {
		t.Fatalf("expected 5 areas, got %d", len(areas))
	}
	first := areas[0]
	if first.Top != 117 || first.Kind != "ob_swing_bear" || first.Name != "OrderBlock" {
		t.Errorf("unexpected newest area %+v", first)
	}
	if !first.End.Equal(end) || first.Border != "#b22833" {
		t.Errorf("unexpected end/border %v %s", first.End, first.Border)
	}
	mono := obs.areas(1, end, StyleMonochrome)
	if mono[0].Border != "#5d606b" {
		t.Errorf("monochrome bear border: got %s", mono[0].Border)
	}
	if got := obs.areas(0, time.Time{}, StyleColored); len(got) != 0 {
		t.Errorf("cap 0 should materialize nothing, got %d", len(got))
	}
}
