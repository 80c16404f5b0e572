package smc

import (
	"math"
	"testing"

	"SMCSentinel/internal/model"
)

func TestTrailingExtremes_UpdateFavorsTies(t *testing.T) {
	tr := newTrailingExtremes(mkBar(0, 100, 105, 95, 101))
	tr.update(mkBar(1, 101, 105, 96, 102))
	if !tr.lastTop.Equal(at(1)) {
		t.Errorf("equal high should move lastTop, got %v", tr.lastTop)
	}
	if !tr.lastBottom.Equal(at(0)) {
		t.Errorf("higher low should not move lastBottom, got %v", tr.lastBottom)
	}
	tr.update(mkBar(2, 100, 101, 90, 91))
	if tr.bottom != 90 || !tr.lastBottom.Equal(at(2)) {
		t.Errorf("new low not tracked: %+v", tr)
	}
}

func TestTrailingExtremes_SwingPivotTakesPrecedence(t *testing.T) {
	tr := newTrailingExtremes(mkBar(0, 100, 120, 80, 100))
	tr.syncPivot(pivotUpdate{side: sideHigh, time: at(4), level: 110, index: 4})
	if tr.top != 110 || !tr.anchor.Equal(at(4)) || !tr.lastTop.Equal(at(4)) {
		t.Errorf("swing high should overwrite the running top: %+v", tr)
	}
	tr.syncPivot(pivotUpdate{side: sideLow, time: at(7), level: 85, index: 7})
	if tr.bottom != 85 || tr.top != 110 || !tr.anchor.Equal(at(7)) {
		t.Errorf("swing low should overwrite only the bottom: %+v", tr)
	}
}

func TestZones_Proportions(t *testing.T) {
	tr := newTrailingExtremes(mkBar(0, 150, 200, 100, 150))
	zones := tr.zones(at(9))
	if len(zones) != 3 {
		t.Fatalf("expected 3 zones, got %d", len(zones))
	}
	want := []struct {
		kind        string
		top, bottom float64
	}{
		{"zone_premium", 200, 195},
		{"zone_eq", 152.5, 147.5},
		{"zone_discount", 105, 100},
	}
	for i, w := range want {
		z := zones[i]
		if z.Kind != w.kind || math.Abs(z.Top-w.top) > 1e-9 || math.Abs(z.Bottom-w.bottom) > 1e-9 {
			t.Errorf("zone %d: expected %s %.1f..%.1f, got %s %.4f..%.4f", i, w.kind, w.bottom, w.top, z.Kind, z.Bottom, z.Top)
		}
		if !z.Start.Equal(at(0)) || !z.End.Equal(at(9)) {
			t.Errorf("zone %d: unexpected span %v..%v", i, z.Start, z.End)
		}
	}
}

func TestZones_SkippedOnDegenerateRange(t *testing.T) {
	tr := newTrailingExtremes(mkBar(0, 100, 100, 100, 100))
	if zones := tr.zones(at(1)); len(zones) != 0 {
		t.Fatalf("flat range should produce no zones, got %d", len(zones))
	}
}

func TestLabels_FollowSwingTrend(t *testing.T) {
	tr := newTrailingExtremes(mkBar(0, 100, 110, 90, 100))
	tests := []struct {
		trend     model.Bias
		high, low model.EventKind
	}{
		{model.Bear, model.EventStrongHigh, model.EventWeakLow},
		{model.Bull, model.EventWeakHigh, model.EventStrongLow},
	}
	for _, tt := range tests {
		evts := tr.labels(tt.trend, at(5))
		if evts[0].Kind != tt.high || evts[0].Price != 110 || evts[0].Bias != model.Bear {
			t.Errorf("trend %s: unexpected high label %+v", tt.trend, evts[0])
		}
		if evts[1].Kind != tt.low || evts[1].Price != 90 || evts[1].Scope != model.ScopeSwing {
			t.Errorf("trend %s: unexpected low label %+v", tt.trend, evts[1])
		}
	}
}
