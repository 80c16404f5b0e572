package smc

import (
	"math"
	"math/rand"
	"time"

	"SMCSentinel/internal/model"
)

var t0 = time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)

func at(i int) time.Time { return t0.Add(time.Duration(i) * time.Hour) }

func mkBar(i int, o, h, l, c float64) model.OHLCV {
	return model.OHLCV{Time: at(i), Open: o, High: h, Low: l, Close: c, Volume: 1000}
}

func flatBars(n int, price float64) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	for i := range bars {
		bars[i] = mkBar(i, price, price+0.5, price-0.5, price)
	}
	return bars
}

// pureRiseFallBars rises for 80 bars and falls for 40 with no wicks beyond the
// leg. No swing high ever confirms, so swing trend never leaves its initial bear.
func pureRiseFallBars() []model.OHLCV {
	bars := make([]model.OHLCV, 0, 120)
	for i := 0; i < 80; i++ {
		c := 100 + float64(i)
		bars = append(bars, mkBar(i, c-0.5, c+0.5, c-1, c))
	}
	for i := 80; i < 120; i++ {
		c := 179 - 2*float64(i-79)
		bars = append(bars, mkBar(i, c+1, c+1.5, c-0.5, c))
	}
	return bars
}

// riseFallBars is pureRiseFallBars with bar 5 carrying an upper wick that
// becomes the first swing high and bar 6 a lower wick so that bar 5 is not also
// a swing low. Breaking that high turns the bear start into a bullish CHoCH.
func riseFallBars() []model.OHLCV {
	bars := pureRiseFallBars()
	bars[5] = mkBar(5, 104.5, 160, 104, 105)
	bars[6] = mkBar(6, 105.5, 106.5, 100, 106)
	return bars
}

// randomWalk produces a deterministic bar series with occasional opening gaps.
func randomWalk(n int, seed int64) []model.OHLCV {
	r := rand.New(rand.NewSource(seed))
	bars := make([]model.OHLCV, n)
	price := 100.0
	for i := range bars {
		o := price
		if r.Intn(10) == 0 {
			o = price * (1 + r.NormFloat64()*0.01)
		}
		c := o * (1 + r.NormFloat64()*0.012)
		h := math.Max(o, c) * (1 + r.Float64()*0.006)
		l := math.Min(o, c) * (1 - r.Float64()*0.006)
		bars[i] = mkBar(i, o, h, l, c)
		price = c
	}
	return bars
}

func allOn() Options {
	o := DefaultOptions()
	o.ShowSwingOrderBlocks = true
	o.ShowFairValueGaps = true
	o.ShowPremiumDiscountZones = true
	return o
}
