// Package smc detects Smart Money Concepts market structure over a single
// instrument's bar sequence: internal and swing structure breaks (BOS/CHoCH),
// equal highs and lows, order blocks, fair value gaps and premium/discount
// zones.
//
// Analyze runs one causal pass over the bars. All state lives in the call, so
// separate instruments can be analyzed concurrently.
package smc

import (
	"errors"
	"fmt"

	"SMCSentinel/internal/calculator"
	"SMCSentinel/internal/model"
)

// ErrMalformedInput is returned when a bar lacks a timestamp or a finite price.
var ErrMalformedInput = errors.New("malformed bar input")

// series is the read-only view of the bars shared by all detectors.
type series struct {
	bars       []model.OHLCV
	atr        []float64
	parsedHigh []float64
	parsedLow  []float64
}

func newSeries(bars []model.OHLCV, filter OrderBlockFilter) (*series, error) {
	atr, err := calculator.ATRWilder(bars, atrPeriod)
	if err != nil {
		return nil, fmt.Errorf("atr: %w", err)
	}
	measure := atr
	if filter == FilterCMR {
		measure = calculator.CumulativeMeanRange(bars)
	}
	parsedHigh, parsedLow := calculator.ParsedHighLow(bars, calculator.FillNonFinite(measure))
	return &series{bars: bars, atr: atr, parsedHigh: parsedHigh, parsedLow: parsedLow}, nil
}

// engine is the per-call state of one pass.
type engine struct {
	opts Options
	x    *series

	internal *structure
	swing    *structure
	equal    *equalHighLow
	trailing *trailingExtremes

	internalOBs *orderBlocks
	swingOBs    *orderBlocks
	fvgs        *fvgDetector

	events []model.Event
}

func newEngine(x *series, opts Options) *engine {
	return &engine{
		opts:        opts,
		x:           x,
		internal:    newStructure(model.ScopeInternal, opts.InternalSize),
		swing:       newStructure(model.ScopeSwing, opts.SwingSize),
		equal:       newEqualHighLow(opts.EqualHighsLowsLength, opts.EqualHighsLowsThreshold),
		trailing:    newTrailingExtremes(x.bars[0]),
		internalOBs: newOrderBlocks(model.ScopeInternal),
		swingOBs:    newOrderBlocks(model.ScopeSwing),
		fvgs:        newFVGDetector(opts.FairValueGapsAutoThreshold, opts.FairValueGapsExtend),
		events:      []model.Event{},
	}
}

// Analyze runs the full detection pass over bars, which must be in ascending
// time order. Inputs shorter than opts.MinBars yield an empty result.
func Analyze(bars []model.OHLCV, opts Options) (*model.Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := validateBars(bars); err != nil {
		return nil, err
	}
	if len(bars) < opts.MinBars() {
		return model.EmptyResult(), nil
	}

	x, err := newSeries(bars, opts.OrderBlockFilter)
	if err != nil {
		return nil, err
	}
	e := newEngine(x, opts)
	for i := 1; i < len(bars); i++ {
		e.step(i)
	}
	return e.finalize(), nil
}

func validateBars(bars []model.OHLCV) error {
	for i, b := range bars {
		if b.Time.IsZero() {
			return fmt.Errorf("%w: bar %d has no timestamp", ErrMalformedInput, i)
		}
		if !finite(b.Open) || !finite(b.High) || !finite(b.Low) || !finite(b.Close) {
			return fmt.Errorf("%w: bar %d (%s) has a non-finite price", ErrMalformedInput, i, b.Time.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

func (e *engine) step(i int) {
	o := e.opts
	bars := e.x.bars

	if o.needInternalPivots() {
		e.internal.pivots.detect(bars, i)
	}
	if o.needSwingPivots() {
		if u, ok := e.swing.pivots.detect(bars, i); ok {
			e.trailing.syncPivot(u)
		}
	}

	if o.ShowEqualHighsLows {
		if evt, ok := e.equal.update(bars, e.x.atr, i); ok {
			e.events = append(e.events, evt)
		}
	}

	if o.ShowHighLowSwings || o.ShowPremiumDiscountZones {
		e.trailing.update(bars[i])
	}

	if o.ShowInternalStructure {
		e.processBreaks(i, e.internal, e.internalOBs, o.ShowInternalOrderBlocks)
	}
	if o.ShowSwingStructure {
		e.processBreaks(i, e.swing, e.swingOBs, o.ShowSwingOrderBlocks)
	}

	if o.ShowInternalOrderBlocks || o.ShowSwingOrderBlocks {
		bear, bull := mitigationPrices(bars[i], o.OrderBlockMitigation)
		e.internalOBs.mitigate(bear, bull)
		e.swingOBs.mitigate(bear, bull)
	}

	if o.ShowFairValueGaps {
		e.fvgs.fill(bars[i])
		e.fvgs.detect(bars, i)
	}
}

func (e *engine) processBreaks(i int, st *structure, obs *orderBlocks, storeBlocks bool) {
	bars := e.x.bars
	for _, s := range []side{sideHigh, sideLow} {
		if !st.pivots.pivot(s).confirmed {
			continue
		}
		if st.scope == model.ScopeInternal && e.opts.InternalFilterConfluence &&
			!confluence(bars[i], s, e.internal, e.swing) {
			continue
		}
		kind, ok := st.tryBreak(s, bars[i-1].Close, bars[i].Close)
		if !ok {
			continue
		}
		bias := s.breakBias()
		e.events = append(e.events, model.Event{
			Time:  bars[i].Time,
			Price: bars[i].Close,
			Kind:  kind,
			Bias:  bias,
			Text:  string(st.scope) + ":" + string(kind),
			Scope: st.scope,
		})
		if !storeBlocks {
			continue
		}
		if ob, ok := buildOrderBlock(e.x, st.pivots.pivot(s).index, i, bias); ok {
			obs.add(ob)
		}
	}
}

func (e *engine) finalize() *model.Result {
	o := e.opts
	bars := e.x.bars
	end := bars[len(bars)-1].Time

	var areas []model.Area
	if o.ShowInternalOrderBlocks {
		areas = append(areas, e.internalOBs.areas(o.InternalOrderBlocksSize, end, o.Style)...)
	}
	if o.ShowSwingOrderBlocks {
		areas = append(areas, e.swingOBs.areas(o.SwingOrderBlocksSize, end, o.Style)...)
	}
	if o.ShowFairValueGaps {
		areas = append(areas, e.fvgs.areas(bars, o.Style)...)
	}
	if o.ShowPremiumDiscountZones {
		areas = append(areas, e.trailing.zones(end)...)
	}
	if o.ShowHighLowSwings {
		e.events = append(e.events, e.trailing.labels(e.swing.trend, end)...)
	}
	return &model.Result{Areas: mergeAreas(areas), Events: e.events}
}
