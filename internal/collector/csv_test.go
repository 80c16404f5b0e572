package collector

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReadCSV(t *testing.T) {
	in := `Date,Open,High,Low,Close,Volume
2024-03-04,100,101,99,100.5,1200
2024-03-05 15:30,100.5,102,100,101.5,
1709683200,101.5,103,101,102,900
`
	bars, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	if !bars[0].Time.Equal(day(0)) || bars[0].Close != 100.5 || bars[0].Volume != 1200 {
		t.Errorf("unexpected first bar: %+v", bars[0])
	}
	if want := time.Date(2024, 3, 5, 15, 30, 0, 0, time.UTC); !bars[1].Time.Equal(want) || bars[1].Volume != 0 {
		t.Errorf("unexpected second bar: %+v", bars[1])
	}
	if !bars[2].Time.Equal(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unix seconds not parsed: %v", bars[2].Time)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"missing close", "time,open,high,low\n2024-03-04,1,2,0\n"},
		{"bad number", "time,open,high,low,close\n2024-03-04,1,x,0,1\n"},
		{"bad time", "time,open,high,low,close\nyesterday,1,2,0,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"1709510400", day(0)},
		{"1709510400000", day(0)},
		{"2024-03-04T00:00:00Z", day(0)},
		{"2024-03-04T08:00:00+08:00", day(0)},
		{"2024-03-04 00:00:00", day(0)},
		{"2024-03-04", day(0)},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.in)
		if err != nil {
			t.Errorf("ParseTime(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCSVFetcher(t *testing.T) {
	dir := t.TempDir()
	var b strings.Builder
	b.WriteString("timestamp,open,high,low,close,volume\n")
	for i := 0; i < 5; i++ {
		b.WriteString(day(i).Format("2006-01-02") + ",1,2,0.5,1.5,10\n")
	}
	if err := os.WriteFile(filepath.Join(dir, "QQQ.csv"), []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	f := NewCSVFetcher(dir)
	bars, err := f.FetchBars(context.Background(), "QQQ", "1d", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 || !bars[1].Time.Equal(day(4)) {
		t.Errorf("expected the last two bars, got %+v", bars)
	}
	if _, err := f.FetchBars(context.Background(), "NOPE", "1d", 0); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestCSVFetcherNewestFirst(t *testing.T) {
	dir := t.TempDir()
	var b strings.Builder
	b.WriteString("date,open,high,low,close\n")
	for i := 4; i >= 0; i-- {
		b.WriteString(day(i).Format("2006-01-02") + ",1,2,0.5,1.5\n")
	}
	if err := os.WriteFile(filepath.Join(dir, "SPY.csv"), []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	bars, err := NewCSVFetcher(dir).FetchBars(context.Background(), "SPY", "1d", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 || !bars[0].Time.Equal(day(3)) || !bars[1].Time.Equal(day(4)) {
		t.Errorf("expected the two newest bars ascending, got %+v", bars)
	}

	series, err := NewCollector(NewCSVFetcher(dir), "1d", 2).Collect(context.Background(), "SPY")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(series.Bars) != 2 || !series.Bars[0].Time.Equal(day(3)) || !series.Bars[1].Time.Equal(day(4)) {
		t.Errorf("collector kept stale bars: %+v", series.Bars)
	}
}
