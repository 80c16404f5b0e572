package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"SMCSentinel/internal/collector"
	"SMCSentinel/internal/config"
	"SMCSentinel/internal/logger"
	"SMCSentinel/internal/model"
	"SMCSentinel/internal/report"
	"SMCSentinel/internal/scanner"
	"SMCSentinel/internal/store"
)

func main() {
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	cfgPath := flag.String("config", defaultConfig, "path to the YAML config")
	symbols := flag.String("symbols", "", "comma-separated symbols, overrides the config")
	asJSON := flag.Bool("json", false, "print results as JSON instead of the text report")
	importPath := flag.String("import", "", "load a .csv or .parquet bar file into the SQLite store and exit")
	exportPath := flag.String("export", "", "write the stored bars of -symbol to a .parquet file and exit")
	symbol := flag.String("symbol", "", "symbol for -import/-export")
	flag.Parse()

	log := logger.Get().WithComponent("cli")

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if *symbols != "" {
		cfg.DataSource.Symbols = splitSymbols(*symbols)
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("config validation")
	}
	if err := logger.Get().Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAgeDays); err != nil {
		log.WithError(err).Fatal("configure logging")
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		log.WithError(err).Fatal("engine options")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *importPath != "" || *exportPath != "" {
		if *symbol == "" {
			log.Fatal("-symbol is required with -import and -export")
		}
		db, err := store.OpenSQLite(cfg.Database.SQLitePath)
		if err != nil {
			log.WithError(err).Fatal("open sqlite store")
		}
		defer db.Close()

		if *importPath != "" {
			err = importBars(ctx, db, *importPath, *symbol, cfg.DataSource.Interval)
		} else {
			err = exportBars(ctx, db, *exportPath, *symbol, cfg.DataSource.Interval)
		}
		if err != nil {
			log.WithError(err).Error("bar transfer failed")
			db.Close()
			os.Exit(1)
		}
		return
	}

	// Recorder and, for the sqlite source, the bar store.
	var rec store.Recorder = store.NewNoopRecorder()
	var db *store.SQLiteStore
	if cfg.Database.SQLitePath != "" {
		db, err = store.OpenSQLite(cfg.Database.SQLitePath)
		if err != nil {
			if cfg.DataSource.Source == "sqlite" {
				log.WithError(err).Fatal("open sqlite store")
			}
			log.WithError(err).Warn("sqlite store unavailable, scans will not be recorded")
		} else {
			rec = db
			defer db.Close()
		}
	}

	fetcher := newFetcher(cfg, db)
	col := collector.NewCollector(fetcher, cfg.DataSource.Interval, cfg.DataSource.BarLimit)
	if len(cfg.DataSource.Symbols) == 0 {
		syms, err := col.Symbols(ctx)
		if err != nil {
			log.WithError(err).Fatal("no symbols configured")
		}
		cfg.DataSource.Symbols = syms
	}
	log.WithFields(logger.Fields{
		"source":   fetcher.Name(),
		"interval": cfg.DataSource.Interval,
		"symbols":  strings.Join(cfg.DataSource.Symbols, ","),
	}).Info("SMCSentinel starting")

	sc := scanner.NewScanner(col, rec, opts, cfg.Scan.Concurrency, cfg.Scan.RequestsPerSecond)

	run, err := sc.RunOnce(ctx, cfg.DataSource.Symbols)
	if err != nil {
		log.WithError(err).Error("scan interrupted")
		if run == nil {
			os.Exit(1)
		}
	}

	if *asJSON {
		if err := writeJSON(os.Stdout, run); err != nil {
			log.WithError(err).Error("encode results")
		}
	} else {
		fmt.Print(report.FormatRun(run, cfg.Scan.RecentEvents))
	}

	if err := run.Check(); err != nil {
		log.WithError(err).Error("scan failed")
		if db != nil {
			db.Close()
		}
		os.Exit(1)
	}
}

func newFetcher(cfg *config.Config, db *store.SQLiteStore) collector.Fetcher {
	ds := cfg.DataSource
	switch ds.Source {
	case "vstrader":
		return collector.NewVsTraderFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy)
	case "csv":
		return collector.NewCSVFetcher(ds.Dir)
	case "parquet":
		return collector.NewParquetFetcher(ds.Dir)
	case "sqlite":
		return db
	case "mock":
		return &collector.MockFetcher{Price: 100}
	default:
		return collector.NewYahooFetcher(cfg.Proxy)
	}
}

func splitSymbols(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func importBars(ctx context.Context, db *store.SQLiteStore, path, symbol, interval string) error {
	var bars []model.OHLCV
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		b, err := collector.ReadParquet(path)
		if err != nil {
			return err
		}
		bars = b
	default:
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		b, err := collector.ReadCSV(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		bars = b
	}

	n, err := db.SaveBars(ctx, symbol, interval, bars)
	if err != nil {
		return err
	}
	logger.Get().WithComponent("cli").WithFields(logger.Fields{
		"file":     path,
		"symbol":   symbol,
		"interval": interval,
		"rows":     n,
	}).Info("bars imported")
	return nil
}

func exportBars(ctx context.Context, db *store.SQLiteStore, path, symbol, interval string) error {
	bars, err := db.FetchBars(ctx, symbol, interval, 0)
	if err != nil {
		return err
	}
	if err := collector.WriteParquet(path, bars); err != nil {
		return err
	}
	logger.Get().WithComponent("cli").WithFields(logger.Fields{
		"file":   path,
		"symbol": symbol,
		"rows":   len(bars),
	}).Info("bars exported")
	return nil
}

type jsonSymbol struct {
	Symbol string        `json:"symbol"`
	Bars   int           `json:"bars"`
	Error  string        `json:"error,omitempty"`
	Result *model.Result `json:"result,omitempty"`
}

func writeJSON(w *os.File, run *scanner.Run) error {
	out := struct {
		RunID   string       `json:"run_id"`
		Symbols []jsonSymbol `json:"symbols"`
	}{RunID: run.ID}
	for _, res := range run.Results {
		js := jsonSymbol{Symbol: res.Symbol, Result: res.Result}
		if res.Series != nil {
			js.Bars = len(res.Series.Bars)
		}
		if res.Err != nil {
			js.Error = res.Err.Error()
		}
		out.Symbols = append(out.Symbols, js)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
