package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"SMCSentinel/internal/model"
)

// CSVFetcher reads bars from <Dir>/<symbol>.csv. The interval is whatever the
// file holds; it is not resampled.
type CSVFetcher struct {
	Dir string
}

func NewCSVFetcher(dir string) *CSVFetcher {
	return &CSVFetcher{Dir: dir}
}

func (f *CSVFetcher) Name() string { return "csv" }

func (f *CSVFetcher) FetchBars(ctx context.Context, symbol, _ string, limit int) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(f.Dir, symbol+".csv")
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	bars, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return latestBars(bars, limit), nil
}

var csvColumns = map[string][]string{
	"time":   {"time", "timestamp", "date", "datetime", "dt"},
	"open":   {"open", "o"},
	"high":   {"high", "h"},
	"low":    {"low", "l"},
	"close":  {"close", "c"},
	"volume": {"volume", "vol", "v"},
}

// ReadCSV parses a headed OHLCV table. Column names are matched case-insensitively;
// volume is optional.
func ReadCSV(r io.Reader) ([]model.OHLCV, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty csv")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := csvIndex(header)
	if err != nil {
		return nil, err
	}

	var bars []model.OHLCV
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		b, err := parseCSVRecord(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func csvIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int)
	for col, names := range csvColumns {
		for i, h := range header {
			h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
			for _, n := range names {
				if h == n {
					idx[col] = i
				}
			}
		}
	}
	for _, col := range []string{"time", "open", "high", "low", "close"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing %q column in header %v", col, header)
		}
	}
	return idx, nil
}

func parseCSVRecord(rec []string, idx map[string]int) (model.OHLCV, error) {
	field := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var b model.OHLCV
	t, err := ParseTime(field("time"))
	if err != nil {
		return b, err
	}
	b.Time = t

	for _, p := range []struct {
		col string
		dst *float64
	}{
		{"open", &b.Open}, {"high", &b.High}, {"low", &b.Low}, {"close", &b.Close},
	} {
		v, err := strconv.ParseFloat(field(p.col), 64)
		if err != nil {
			return b, fmt.Errorf("%s: %w", p.col, err)
		}
		*p.dst = v
	}
	if s := field("volume"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return b, fmt.Errorf("volume: %w", err)
		}
		b.Volume = v
	}
	return b, nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime accepts unix seconds, unix milliseconds or a calendar timestamp.
// Calendar values without a zone are read as UTC.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > 1e11 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
