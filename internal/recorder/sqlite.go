package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockDashboard/internal/model"
)

// SQLiteRecorder persists analysis history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the API read history while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			trigger_type   TEXT NOT NULL,
			symbol         TEXT NOT NULL,
			start_date     TEXT NOT NULL,
			end_date       TEXT NOT NULL,
			fast_span      INTEGER,
			slow_span      INTEGER,
			signal_span    INTEGER,
			indicators     TEXT,
			bars           INTEGER,
			last_close     REAL,
			mean           REAL,
			std            REAL,
			min            REAL,
			p25            REAL,
			p50            REAL,
			p75            REAL,
			max            REAL,
			last_macd      REAL,
			last_signal    REAL,
			last_vwap      REAL,
			trend          TEXT,
			crossover      TEXT,
			vwap_deviation REAL,
			warning        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol_ts ON analysis_runs(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS indicator_points (
			run_id INTEGER NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
			name   TEXT NOT NULL,
			date   TEXT NOT NULL,
			value  REAL,
			PRIMARY KEY (run_id, name, date)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordAnalysis stores the run headline and every indicator point in one transaction.
// Undefined values are stored as NULL.
func (r *SQLiteRecorder) RecordAnalysis(run *AnalysisRun) (int64, error) {
	if run == nil || run.Analysis == nil || run.Analysis.Series == nil {
		return 0, errors.New("record analysis: nothing to record")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	a := run.Analysis
	req := a.Request
	s := a.Summary
	last, _ := a.Series.Last()

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO analysis_runs
		(timestamp, trigger_type, symbol, start_date, end_date,
		 fast_span, slow_span, signal_span, indicators,
		 bars, last_close, mean, std, min, p25, p50, p75, max,
		 last_macd, last_signal, last_vwap,
		 trend, crossover, vwap_deviation, warning)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), string(run.Trigger), a.Series.Symbol,
		req.Start.Format("2006-01-02"), req.End.Format("2006-01-02"),
		req.Config.FastSpan, req.Config.SlowSpan, req.Config.SignalSpan,
		strings.Join(req.Active.Names(), ","),
		s.Count, last.Close, s.Mean, nullStat(s.Std), s.Min, s.P25, s.P50, s.P75, s.Max,
		lastValue(a.MACD), lastValue(a.Signal), lastValue(a.VWAP),
		string(a.Reading.Trend), string(a.Reading.Crossover),
		nullStat(a.Reading.VWAPDeviation), a.Reading.WarningMsg,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO indicator_points (run_id, name, date, value) VALUES (?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare points: %w", err)
	}
	defer stmt.Close()
	for _, line := range []*model.IndicatorSeries{a.MACD, a.Signal, a.VWAP} {
		if line == nil {
			continue
		}
		for _, p := range line.Points {
			if _, err := stmt.Exec(id, line.Name, p.Time.Format("2006-01-02"), nullPoint(p)); err != nil {
				return 0, fmt.Errorf("insert %s point: %w", line.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// RecentRuns returns the latest runs, newest first. An empty symbol matches all symbols.
func (r *SQLiteRecorder) RecentRuns(symbol string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT id, timestamp, trigger_type, symbol, start_date, end_date,
			bars, last_close, trend, crossover, vwap_deviation
		FROM analysis_runs
		WHERE ? = '' OR symbol = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, symbol, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			rs  RunSummary
			ts  int64
			dev sql.NullFloat64
		)
		if err := rows.Scan(&rs.ID, &ts, &rs.Trigger, &rs.Symbol, &rs.Start, &rs.End,
			&rs.Bars, &rs.LastClose, &rs.Trend, &rs.Crossover, &dev); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rs.RecordedAt = time.Unix(ts, 0).UTC()
		rs.VWAPDeviation = model.Stat{Value: dev.Float64, Valid: dev.Valid}
		out = append(out, rs)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func nullStat(s model.Stat) sql.NullFloat64 {
	return sql.NullFloat64{Float64: s.Value, Valid: s.Valid}
}

func nullPoint(p model.Point) sql.NullFloat64 {
	return sql.NullFloat64{Float64: p.Value, Valid: p.Valid}
}

func lastValue(s *model.IndicatorSeries) sql.NullFloat64 {
	if s == nil {
		return sql.NullFloat64{}
	}
	p, ok := s.Last()
	if !ok {
		return sql.NullFloat64{}
	}
	return nullPoint(p)
}
