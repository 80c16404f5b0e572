package model

import "time"

// Bias is the direction of a structure, region or event.
type Bias string

const (
	Bull Bias = "bull"
	Bear Bias = "bear"
)

// Scope tells which structural scale produced an event.
type Scope string

const (
	ScopeInternal Scope = "internal"
	ScopeSwing    Scope = "swing"
	ScopeOther    Scope = "other"
)

// EventKind enumerates the structural markers the engine emits.
type EventKind string

const (
	EventBOS        EventKind = "BOS"
	EventCHoCH      EventKind = "CHoCH"
	EventEQH        EventKind = "EQH"
	EventEQL        EventKind = "EQL"
	EventStrongHigh EventKind = "StrongHigh"
	EventWeakHigh   EventKind = "WeakHigh"
	EventStrongLow  EventKind = "StrongLow"
	EventWeakLow    EventKind = "WeakLow"
)

// Event is a point marker: a structure break, an equal high/low or a terminal swing label.
type Event struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
	Kind  EventKind `json:"kind"`
	Bias  Bias      `json:"bias"`
	Text  string    `json:"text"`
	Scope Scope     `json:"scope"`
}

// Area is a rectangular price/time region (order block, FVG or zone).
type Area struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Top    float64   `json:"top"`
	Bottom float64   `json:"bottom"`
	Name   string    `json:"name"`
	Kind   string    `json:"kind"`
	Fill   string    `json:"fill"`
	Border string    `json:"border"`
}

// Result is the engine output for one bar sequence.
type Result struct {
	Areas  []Area  `json:"areas"`
	Events []Event `json:"events"`
}

// EmptyResult returns a result with non-nil, empty slices.
func EmptyResult() *Result {
	return &Result{Areas: []Area{}, Events: []Event{}}
}
