package collector

import (
	"context"

	"SMCSentinel/internal/model"
)

// Fetcher defines the interface for fetching bar history.
// Interval uses Yahoo-style names ("1h", "1d", "1wk"); limit is the number of
// most recent bars wanted, 0 meaning everything available.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol, interval string, limit int) ([]model.OHLCV, error)
	Name() string
}

// SymbolLister is implemented by fetchers that know which symbols they hold.
type SymbolLister interface {
	Symbols(ctx context.Context, interval string) ([]string, error)
}
