package report

import (
	"fmt"
	"strings"

	"SMCSentinel/internal/calculator"
	"SMCSentinel/internal/model"
	"SMCSentinel/internal/scanner"
)

const timeLayout = "2006-01-02 15:04"

var eventOrder = []model.EventKind{
	model.EventBOS,
	model.EventCHoCH,
	model.EventEQH,
	model.EventEQL,
}

// FormatRun formats every symbol of a scan run, failures included.
func FormatRun(run *scanner.Run, recent int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("SMC scan %s | %s | %d symbols, %d failed\n",
		run.ID, run.StartedAt.Format(timeLayout), len(run.Results), run.Failed()))

	for _, res := range run.Results {
		b.WriteString("\n")
		if res.Err != nil {
			b.WriteString(fmt.Sprintf("%s: FAILED: %v\n", res.Symbol, res.Err))
			continue
		}
		b.WriteString(FormatSymbol(res.Series, res.Result, recent))
	}
	return b.String()
}

// FormatSymbol summarises one result: where the last close sits, the event
// tally, the most recent events and the live areas.
func FormatSymbol(series *model.PriceSeries, res *model.Result, recent int) string {
	var b strings.Builder

	last, ok := series.Last()
	if !ok {
		b.WriteString(fmt.Sprintf("== %s == no bars\n", series.Symbol))
		return b.String()
	}
	b.WriteString(fmt.Sprintf("== %s == %d bars, last %s\n", series.Symbol, len(series.Bars), last.Time.Format(timeLayout)))

	if len(res.Events) == 0 && len(res.Areas) == 0 {
		b.WriteString("Not enough bars for structure analysis\n")
		return b.String()
	}

	high, low, swingHigh, swingLow := trailingRange(series.Bars, res.Events)
	if pos, err := calculator.RangePosition(last.Close, high, low); err == nil {
		b.WriteString(fmt.Sprintf("Last close: %.2f | range %.2f - %.2f (%.0f%%, %s)\n",
			last.Close, low, high, pos*100, zoneOf(pos)))
	}
	if swingHigh != "" {
		b.WriteString(fmt.Sprintf("Swing trend: %s (%s / %s)\n", swingTrend(swingHigh), swingHigh, swingLow))
	}

	counts := make(map[model.EventKind]int)
	for _, e := range res.Events {
		counts[e.Kind]++
	}
	parts := make([]string, 0, len(eventOrder))
	for _, k := range eventOrder {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[k]))
	}
	b.WriteString("Events: " + strings.Join(parts, " | ") + "\n")

	if recent > 0 {
		structural := make([]model.Event, 0, len(res.Events))
		for _, e := range res.Events {
			if !isTerminal(e.Kind) {
				structural = append(structural, e)
			}
		}
		if len(structural) > recent {
			structural = structural[len(structural)-recent:]
		}
		if len(structural) > 0 {
			b.WriteString("Recent:\n")
		}
		for _, e := range structural {
			b.WriteString(fmt.Sprintf("  %s  %-14s %-4s @ %.2f\n", e.Time.Format(timeLayout), e.Text, e.Bias, e.Price))
		}
	}

	if len(res.Areas) > 0 {
		b.WriteString("Areas:\n")
	}
	for _, a := range res.Areas {
		b.WriteString(fmt.Sprintf("  %-18s %.2f - %.2f  %s -> %s\n",
			a.Kind, a.Bottom, a.Top, a.Start.Format(timeLayout), a.End.Format(timeLayout)))
	}
	return b.String()
}

// trailingRange prefers the engine's terminal labels and falls back to the
// full bar range when swing labels are switched off.
func trailingRange(bars []model.OHLCV, events []model.Event) (high, low float64, highKind, lowKind model.EventKind) {
	found := 0
	for _, e := range events {
		switch e.Kind {
		case model.EventStrongHigh, model.EventWeakHigh:
			high, highKind = e.Price, e.Kind
			found++
		case model.EventStrongLow, model.EventWeakLow:
			low, lowKind = e.Price, e.Kind
			found++
		}
	}
	if found == 2 {
		return high, low, highKind, lowKind
	}
	high, low, _ = calculator.WindowRange(bars, 0, len(bars))
	return high, low, "", ""
}

// swingTrend reads the trend back from the label pair: a strong high means the
// swing trend is bearish.
func swingTrend(highKind model.EventKind) model.Bias {
	if highKind == model.EventStrongHigh {
		return model.Bear
	}
	return model.Bull
}

func zoneOf(pos float64) string {
	switch {
	case pos >= 0.95:
		return "premium"
	case pos <= 0.05:
		return "discount"
	case pos >= 0.475 && pos <= 0.525:
		return "equilibrium"
	case pos > 0.5:
		return "upper half"
	default:
		return "lower half"
	}
}

func isTerminal(k model.EventKind) bool {
	switch k {
	case model.EventStrongHigh, model.EventWeakHigh, model.EventStrongLow, model.EventWeakLow:
		return true
	}
	return false
}
