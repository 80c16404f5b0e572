// Package scanner runs the structure engine over a list of symbols.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"SMCSentinel/internal/collector"
	"SMCSentinel/internal/logger"
	"SMCSentinel/internal/model"
	"SMCSentinel/internal/smc"
	"SMCSentinel/internal/store"
)

// SymbolResult is the outcome of one symbol's pass. Exactly one of Result and Err is set.
type SymbolResult struct {
	Symbol   string
	Series   *model.PriceSeries
	Result   *model.Result
	Err      error
	Duration time.Duration
}

// Run is one scan across all requested symbols, in request order.
type Run struct {
	ID        string
	StartedAt time.Time
	Results   []SymbolResult
}

// Failed counts symbols whose pass returned an error.
func (r *Run) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Scanner fetches bars and analyzes each symbol independently. Every symbol
// gets its own engine state, so passes run in parallel up to Concurrency.
type Scanner struct {
	Collector   *collector.Collector
	Recorder    store.Recorder
	Options     smc.Options
	Concurrency int
	Limiter     *rate.Limiter
}

// NewScanner creates a Scanner. requestsPerSecond <= 0 disables fetch pacing.
func NewScanner(col *collector.Collector, rec store.Recorder, opts smc.Options, concurrency int, requestsPerSecond float64) *Scanner {
	if rec == nil {
		rec = store.NewNoopRecorder()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &Scanner{
		Collector:   col,
		Recorder:    rec,
		Options:     opts,
		Concurrency: concurrency,
		Limiter:     limiter,
	}
}

// RunOnce scans symbols and returns once every pass has finished. Per-symbol
// failures are reported in the Run; the error is non-nil only when options are
// invalid or the context ends first.
func (s *Scanner) RunOnce(ctx context.Context, symbols []string) (*Run, error) {
	if err := s.Options.Validate(); err != nil {
		return nil, err
	}
	run := &Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Results:   make([]SymbolResult, len(symbols)),
	}
	log := logger.Get().WithComponent("scanner").WithFields(logger.Fields{"run_id": run.ID})
	log.WithFields(logger.Fields{"symbols": len(symbols), "concurrency": s.Concurrency}).Info("scan started")

	sem := make(chan struct{}, s.Concurrency)
	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				run.Results[i] = SymbolResult{Symbol: sym, Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()
			run.Results[i] = s.scanSymbol(ctx, run.ID, sym)
		}(i, sym)
	}
	wg.Wait()

	for _, res := range run.Results {
		entry := log.WithFields(logger.Fields{"symbol": res.Symbol})
		if res.Err != nil {
			entry.WithError(res.Err).Warn("symbol failed")
			continue
		}
		entry.WithFields(logger.Fields{
			"bars":   len(res.Series.Bars),
			"events": len(res.Result.Events),
			"areas":  len(res.Result.Areas),
		}).Info("symbol analyzed")
	}
	log.WithFields(logger.Fields{
		"failed":      run.Failed(),
		"duration_ms": float64(time.Since(run.StartedAt).Nanoseconds()) / 1e6,
	}).Info("scan finished")

	if err := ctx.Err(); err != nil {
		return run, err
	}
	return run, nil
}

func (s *Scanner) scanSymbol(ctx context.Context, runID, symbol string) (out SymbolResult) {
	start := time.Now()
	out.Symbol = symbol
	defer func() {
		out.Duration = time.Since(start)
		s.record(runID, start, &out)
	}()

	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			out.Err = fmt.Errorf("wait for rate limit: %w", err)
			return out
		}
	}

	series, err := s.Collector.Collect(ctx, symbol)
	if err != nil {
		out.Err = err
		return out
	}
	out.Series = series

	res, err := smc.Analyze(series.Bars, s.Options)
	if err != nil {
		out.Err = fmt.Errorf("analyze %s: %w", symbol, err)
		return out
	}
	out.Result = res
	return out
}

// record stores the outcome; a recorder failure is logged and never fails the pass.
func (s *Scanner) record(runID string, start time.Time, res *SymbolResult) {
	rec := &store.ScanRecord{
		RunID:     runID,
		Symbol:    res.Symbol,
		Interval:  s.Collector.Interval,
		Source:    s.Collector.Fetcher.Name(),
		StartedAt: start,
		Duration:  res.Duration,
	}
	if res.Series != nil {
		rec.Bars = len(res.Series.Bars)
	}
	if res.Err != nil {
		rec.Err = res.Err.Error()
	}
	if err := s.Recorder.RecordScan(rec); err != nil {
		logger.Get().WithComponent("scanner").WithFields(logger.Fields{
			"run_id": runID,
			"symbol": res.Symbol,
		}).WithError(err).Error("record scan")
	}
}

// ErrAllFailed is returned by Check when no symbol produced a result.
var ErrAllFailed = errors.New("every symbol failed")

// Check reports ErrAllFailed when the run has symbols and none succeeded.
func (r *Run) Check() error {
	if len(r.Results) > 0 && r.Failed() == len(r.Results) {
		return fmt.Errorf("%w (%d symbols)", ErrAllFailed, len(r.Results))
	}
	return nil
}
