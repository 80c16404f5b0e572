package smc

import (
	"time"

	"SMCSentinel/internal/model"
)

// trailingExtremes keeps the running range used for zones and terminal labels.
type trailingExtremes struct {
	top        float64
	bottom     float64
	anchor     time.Time
	lastTop    time.Time
	lastBottom time.Time
}

func newTrailingExtremes(first model.OHLCV) *trailingExtremes {
	return &trailingExtremes{
		top:        first.High,
		bottom:     first.Low,
		anchor:     first.Time,
		lastTop:    first.Time,
		lastBottom: first.Time,
	}
}

// update extends the range with b. Ties move the timestamps forward.
func (t *trailingExtremes) update(b model.OHLCV) {
	if b.High >= t.top {
		t.top = b.High
		t.lastTop = b.Time
	}
	if b.Low <= t.bottom {
		t.bottom = b.Low
		t.lastBottom = b.Time
	}
}

// syncPivot re-anchors the range on a confirmed swing pivot.
func (t *trailingExtremes) syncPivot(u pivotUpdate) {
	t.anchor = u.time
	if u.side == sideHigh {
		t.top = u.level
		t.lastTop = u.time
	} else {
		t.bottom = u.level
		t.lastBottom = u.time
	}
}

// zones splits the range into premium, equilibrium and discount bands.
func (t *trailingExtremes) zones(end time.Time) []model.Area {
	top, bottom := t.top, t.bottom
	if !finite(top) || !finite(bottom) || top <= bottom {
		return nil
	}
	zone := func(hi, lo float64, name, kind string, p palette) model.Area {
		return model.Area{Start: t.anchor, End: end, Top: hi, Bottom: lo, Name: name, Kind: kind, Fill: p.fill, Border: p.border}
	}
	return []model.Area{
		zone(top, 0.95*top+0.05*bottom, "Premium", "zone_premium", premiumZone),
		zone(0.525*top+0.475*bottom, 0.525*bottom+0.475*top, "Equilibrium", "zone_eq", equilibriumZone),
		zone(0.95*bottom+0.05*top, bottom, "Discount", "zone_discount", discountZone),
	}
}

// labels classifies the trailing extremes against the swing trend: the extreme
// the trend points away from is strong.
func (t *trailingExtremes) labels(swingTrend model.Bias, end time.Time) []model.Event {
	high := model.EventWeakHigh
	if swingTrend == model.Bear {
		high = model.EventStrongHigh
	}
	low := model.EventWeakLow
	if swingTrend == model.Bull {
		low = model.EventStrongLow
	}
	return []model.Event{
		{Time: end, Price: t.top, Kind: high, Bias: model.Bear, Text: string(high), Scope: model.ScopeSwing},
		{Time: end, Price: t.bottom, Kind: low, Bias: model.Bull, Text: string(low), Scope: model.ScopeSwing},
	}
}
