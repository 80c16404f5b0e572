package smc

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidOptions is returned when an Options value cannot drive the engine.
var ErrInvalidOptions = errors.New("invalid smc options")

// Style selects the palette applied to produced areas. It has no effect on detection.
type Style int

const (
	StyleColored Style = iota
	StyleMonochrome
)

// Mode is carried through for downstream renderers and never read by the engine.
type Mode int

const (
	ModeHistorical Mode = iota
	ModePresent
)

// OrderBlockFilter selects the volatility series used to reclassify noise bars.
type OrderBlockFilter int

const (
	FilterATR OrderBlockFilter = iota
	FilterCMR
)

// OrderBlockMitigation selects the price tested against order block bounds.
type OrderBlockMitigation int

const (
	MitigationHighLow OrderBlockMitigation = iota
	MitigationClose
)

const (
	atrPeriod         = 200
	orderBlockCap     = 100
	fairValueGapCap   = 200
	minLengthPadding  = 10
	equalLevelEpsilon = 1e-6
)

// Options configures a single Analyze call.
type Options struct {
	Mode  Mode
	Style Style

	ShowInternalStructure    bool
	InternalSize             int
	InternalFilterConfluence bool
	ShowSwingStructure       bool
	SwingSize                int

	ShowHighLowSwings bool

	ShowInternalOrderBlocks bool
	InternalOrderBlocksSize int
	ShowSwingOrderBlocks    bool
	SwingOrderBlocksSize    int
	OrderBlockFilter        OrderBlockFilter
	OrderBlockMitigation    OrderBlockMitigation

	ShowEqualHighsLows      bool
	EqualHighsLowsLength    int
	EqualHighsLowsThreshold float64

	ShowFairValueGaps          bool
	FairValueGapsAutoThreshold bool
	FairValueGapsExtend        int

	ShowPremiumDiscountZones bool
}

// DefaultOptions returns the stock indicator settings.
func DefaultOptions() Options {
	return Options{
		Mode:                       ModeHistorical,
		Style:                      StyleColored,
		ShowInternalStructure:      true,
		InternalSize:               5,
		ShowSwingStructure:         true,
		SwingSize:                  50,
		ShowHighLowSwings:          true,
		ShowInternalOrderBlocks:    true,
		InternalOrderBlocksSize:    5,
		SwingOrderBlocksSize:       5,
		OrderBlockFilter:           FilterATR,
		OrderBlockMitigation:       MitigationHighLow,
		ShowEqualHighsLows:         true,
		EqualHighsLowsLength:       3,
		EqualHighsLowsThreshold:    0.1,
		FairValueGapsAutoThreshold: true,
		FairValueGapsExtend:        1,
	}
}

// Validate reports option values that would make the pass meaningless.
func (o Options) Validate() error {
	switch {
	case o.InternalSize <= 0:
		return fmt.Errorf("%w: internal_size must be positive", ErrInvalidOptions)
	case o.SwingSize <= 0:
		return fmt.Errorf("%w: swing_size must be positive", ErrInvalidOptions)
	case o.EqualHighsLowsLength <= 0:
		return fmt.Errorf("%w: equal_highs_lows_length must be positive", ErrInvalidOptions)
	case o.InternalOrderBlocksSize < 0 || o.SwingOrderBlocksSize < 0:
		return fmt.Errorf("%w: order block sizes must not be negative", ErrInvalidOptions)
	}
	return nil
}

// MinBars is the shortest input that produces a non-empty result.
func (o Options) MinBars() int {
	return max(o.SwingSize, o.InternalSize) + minLengthPadding
}

// needInternalPivots and needSwingPivots decide which pivot trackers run.
func (o Options) needInternalPivots() bool {
	return o.ShowInternalStructure || o.ShowInternalOrderBlocks
}

func (o Options) needSwingPivots() bool {
	return o.ShowSwingStructure ||
		o.ShowSwingOrderBlocks ||
		o.ShowEqualHighsLows ||
		o.ShowPremiumDiscountZones ||
		o.ShowHighLowSwings
}

// ParseStyle reads a style name; empty means colored.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "colored":
		return StyleColored, nil
	case "monochrome":
		return StyleMonochrome, nil
	}
	return 0, fmt.Errorf("%w: unknown style %q", ErrInvalidOptions, s)
}

// ParseMode reads a mode name; empty means historical.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "historical":
		return ModeHistorical, nil
	case "present":
		return ModePresent, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidOptions, s)
}

// ParseOrderBlockFilter reads "atr" or "cmr"; empty means atr.
func ParseOrderBlockFilter(s string) (OrderBlockFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "atr":
		return FilterATR, nil
	case "cmr":
		return FilterCMR, nil
	}
	return 0, fmt.Errorf("%w: unknown order_block_filter %q", ErrInvalidOptions, s)
}

// ParseOrderBlockMitigation reads "highlow" or "close"; empty means highlow.
func ParseOrderBlockMitigation(s string) (OrderBlockMitigation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "highlow":
		return MitigationHighLow, nil
	case "close":
		return MitigationClose, nil
	}
	return 0, fmt.Errorf("%w: unknown order_block_mitigation %q", ErrInvalidOptions, s)
}

// String returns the name ParseStyle accepts.
func (s Style) String() string {
	if s == StyleMonochrome {
		return "monochrome"
	}
	return "colored"
}

// String returns the name ParseMode accepts.
func (m Mode) String() string {
	if m == ModePresent {
		return "present"
	}
	return "historical"
}

// String returns the name ParseOrderBlockFilter accepts.
func (f OrderBlockFilter) String() string {
	if f == FilterCMR {
		return "cmr"
	}
	return "atr"
}

// String returns the name ParseOrderBlockMitigation accepts.
func (m OrderBlockMitigation) String() string {
	if m == MitigationClose {
		return "close"
	}
	return "highlow"
}
