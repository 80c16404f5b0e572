package store

import "time"

// ScanRecord is the operational summary of one symbol's pass within a scan
// run. Engine output itself is not stored.
type ScanRecord struct {
	RunID     string
	Symbol    string
	Interval  string
	Source    string
	StartedAt time.Time
	Duration  time.Duration
	Bars      int
	Err       string // empty on success
}

// Recorder persists scan history for later analysis.
type Recorder interface {
	RecordScan(rec *ScanRecord) error
	Close() error
}

// NoopRecorder is used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordScan(_ *ScanRecord) error { return nil }
func (n *NoopRecorder) Close() error                   { return nil }
