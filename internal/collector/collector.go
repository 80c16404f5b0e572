package collector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"SMCSentinel/internal/logger"
	"SMCSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  map[string][]model.OHLCV
	Err   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(ctx context.Context, symbol, interval string, limit int) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if bars, ok := m.Bars[symbol]; ok {
		out := make([]model.OHLCV, len(bars))
		copy(out, bars)
		return out, nil
	}
	if limit <= 0 {
		limit = 500
	}
	step, err := intervalDuration(interval)
	if err != nil {
		return nil, err
	}
	return generateMockBars(m.Price, limit, step, time.Now().UTC().Truncate(step)), nil
}

// generateMockBars draws a trending wave so every structure detector has
// something to find.
func generateMockBars(basePrice float64, count int, step time.Duration, end time.Time) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	bars := make([]model.OHLCV, count)
	prev := basePrice
	for i := 0; i < count; i++ {
		x := float64(i)
		p := basePrice * (1 + 0.0005*x + 0.04*math.Sin(x/12) + 0.015*math.Sin(x/3.7))
		hi, lo := math.Max(prev, p), math.Min(prev, p)
		bars[i] = model.OHLCV{
			Time:   end.Add(-time.Duration(count-1-i) * step),
			Open:   prev,
			High:   hi * 1.002,
			Low:    lo * 0.998,
			Close:  p,
			Volume: 1000000,
		}
		prev = p
	}
	return bars
}

// Collector fetches bars for one interval and normalises them for the engine.
type Collector struct {
	Fetcher  Fetcher
	Interval string
	Limit    int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, interval string, limit int) *Collector {
	return &Collector{Fetcher: fetcher, Interval: interval, Limit: limit}
}

// Collect fetches bars for symbol and returns them ascending by time with
// duplicate timestamps collapsed, trimmed to the most recent Limit bars.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	log := logger.Get().WithComponent("collector").WithFields(logger.Fields{
		"source":   c.Fetcher.Name(),
		"symbol":   symbol,
		"interval": c.Interval,
	})

	start := time.Now()
	bars, err := c.Fetcher.FetchBars(ctx, symbol, c.Interval, c.Limit)
	if err != nil {
		return nil, fmt.Errorf("fetch %s bars for %s: %w", c.Interval, symbol, err)
	}
	raw := len(bars)
	bars = latestBars(bars, c.Limit)
	log.Duration("fetch", time.Since(start))
	if dropped := raw - len(bars); dropped > 0 {
		log.WithFields(logger.Fields{"raw": raw, "kept": len(bars)}).Debug("trimmed bars")
	}

	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}

// Symbols lists what the fetcher holds for the collector's interval.
func (c *Collector) Symbols(ctx context.Context) ([]string, error) {
	l, ok := c.Fetcher.(SymbolLister)
	if !ok {
		return nil, fmt.Errorf("source %s cannot list symbols", c.Fetcher.Name())
	}
	syms, err := l.Symbols(ctx, c.Interval)
	if err != nil {
		return nil, fmt.Errorf("list %s symbols: %w", c.Interval, err)
	}
	if len(syms) == 0 {
		return nil, fmt.Errorf("source %s holds no %s bars", c.Fetcher.Name(), c.Interval)
	}
	return syms, nil
}

// normalizeBars sorts ascending by time and keeps the last bar seen for each timestamp.
func normalizeBars(bars []model.OHLCV) []model.OHLCV {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

// latestBars normalizes bars and keeps the most recent limit of them.
// limit <= 0 keeps everything.
func latestBars(bars []model.OHLCV, limit int) []model.OHLCV {
	bars = normalizeBars(bars)
	if limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return bars
}

var intervals = map[string]time.Duration{
	"1m":  time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"4h":  4 * time.Hour,
	"1d":  24 * time.Hour,
	"1wk": 7 * 24 * time.Hour,
}

func intervalDuration(interval string) (time.Duration, error) {
	d, ok := intervals[interval]
	if !ok {
		return 0, fmt.Errorf("unsupported interval %q", interval)
	}
	return d, nil
}
