package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"SMCSentinel/internal/logger"
	"SMCSentinel/internal/model"
)

// SQLiteStore keeps bar history and scan run history in a SQLite database. It
// is both a bar source for the collector and a Recorder for the scanner.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logger.Entry
}

// OpenSQLite opens (or creates) the database at path and runs migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets readers run while a scan is writing.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:  db,
		log: logger.Get().WithComponent("store").WithFields(logger.Fields{"path": path}),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.log.Info("sqlite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bars (
			symbol   TEXT    NOT NULL,
			interval TEXT    NOT NULL,
			ts       INTEGER NOT NULL,
			open     REAL    NOT NULL,
			high     REAL    NOT NULL,
			low      REAL    NOT NULL,
			close    REAL    NOT NULL,
			volume   REAL    NOT NULL DEFAULT 0,
			PRIMARY KEY (symbol, interval, ts)
		)`,

		`CREATE TABLE IF NOT EXISTS scan_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT    NOT NULL,
			symbol      TEXT    NOT NULL,
			interval    TEXT,
			source      TEXT,
			started_at  INTEGER NOT NULL,
			duration_ms REAL,
			bars        INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_runs_run ON scan_runs(run_id)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

// SaveBars upserts bars for symbol/interval in one transaction and returns the row count written.
func (s *SQLiteStore) SaveBars(ctx context.Context, symbol, interval string, bars []model.OHLCV) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO bars
		(symbol, interval, ts, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, interval, b.Time.UnixMilli(),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return 0, fmt.Errorf("insert bar %s: %w", b.Time.Format(time.RFC3339), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	s.log.WithFields(logger.Fields{"symbol": symbol, "interval": interval, "rows": len(bars)}).Debug("bars saved")
	return len(bars), nil
}

// FetchBars returns the most recent limit bars ascending by time; limit 0 returns all.
func (s *SQLiteStore) FetchBars(ctx context.Context, symbol, interval string, limit int) ([]model.OHLCV, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT ts, open, high, low, close, volume FROM (
			SELECT ts, open, high, low, close, volume FROM bars
			WHERE symbol = ? AND interval = ?
			ORDER BY ts DESC LIMIT ?
		) ORDER BY ts ASC`, symbol, interval, limit)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.OHLCV
	for rows.Next() {
		var ts int64
		var b model.OHLCV
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Time = time.UnixMilli(ts).UTC()
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no %s bars stored for %s", interval, symbol)
	}
	return bars, nil
}

// Symbols lists the symbols with stored bars for interval.
func (s *SQLiteStore) Symbols(ctx context.Context, interval string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT symbol FROM bars WHERE interval = ? ORDER BY symbol`, interval)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// RecordScan appends one row to the scan history.
func (s *SQLiteStore) RecordScan(rec *ScanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO scan_runs
		(run_id, symbol, interval, source, started_at, duration_ms, bars, error)
		VALUES (?,?,?,?,?,?,?,?)`,
		rec.RunID, rec.Symbol, rec.Interval, rec.Source, rec.StartedAt.Unix(),
		float64(rec.Duration.Nanoseconds())/1e6, rec.Bars, rec.Err,
	)
	if err != nil {
		return fmt.Errorf("insert scan run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	s.log.Info("closing sqlite store")
	return s.db.Close()
}
