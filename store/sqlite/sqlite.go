/*
Package sqlite provides a SQLite-backed implementation of the worklog
storage interfaces.

APPEND-ONLY ENFORCEMENT:
  The work_logs table is append-only: no UPDATE or DELETE statements
  exist. Corrections enter as new entries with negative hours, written by
  the reconciliation engine's backfill path.

KEY TABLES:
  work_logs:  immutable log entries (tracked and synthesized)
  jobs:       ordered job list with the two hourly rates
  settings:   single-row user settings (currency symbol, default tax rate)

WAL MODE:
  Opened with WAL so readers don't block during an append.

USAGE:
  store, err := sqlite.New("./paylevel.db")
  if err != nil { ... }
  defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/alphaalpha-app/paylevel-up-v4/worklog"
)

// Store implements worklog.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Work logs (append-only)
	CREATE TABLE IF NOT EXISTS work_logs (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL,
		log_date TEXT NOT NULL,
		start_marker TEXT NOT NULL DEFAULT '',
		end_marker TEXT NOT NULL DEFAULT '',
		hours TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_work_logs_job_date ON work_logs(job_id, log_date);

	-- Jobs (ordered by position)
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		weekday_rate TEXT NOT NULL,
		weekend_rate TEXT NOT NULL,
		position INTEGER NOT NULL
	);

	-- Single-row settings
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		currency_symbol TEXT NOT NULL,
		default_tax_rate TEXT NOT NULL
	);
	INSERT OR IGNORE INTO settings (id, currency_symbol, default_tax_rate)
		VALUES (1, '$', '0');
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LOG STORE
// =============================================================================

// AddLog appends a single entry. The only write on work_logs.
func (s *Store) AddLog(ctx context.Context, entry worklog.WorkLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO work_logs (id, job_id, log_date, start_marker, end_marker, hours, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.JobID,
		entry.Date.String(),
		entry.Start,
		entry.End,
		entry.Hours.String(),
		entry.Note,
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return worklog.ErrDuplicateLog
		}
		return fmt.Errorf("insert work log: %w", err)
	}
	return nil
}

func (s *Store) Logs(ctx context.Context) ([]worklog.WorkLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, job_id, log_date, start_marker, end_marker, hours, note, created_at
		FROM work_logs ORDER BY log_date, created_at`)
	if err != nil {
		return nil, fmt.Errorf("query work logs: %w", err)
	}
	defer rows.Close()
	return scanLogs(rows)
}

func (s *Store) LogsInRange(ctx context.Context, jobID string, from, to worklog.Date) ([]worklog.WorkLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, job_id, log_date, start_marker, end_marker, hours, note, created_at
		FROM work_logs
		WHERE job_id = ? AND log_date >= ? AND log_date <= ?
		ORDER BY log_date, created_at`,
		jobID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("query work logs: %w", err)
	}
	defer rows.Close()
	return scanLogs(rows)
}

// Revision counts entries. Valid as a monotonic cache key because the
// table is append-only.
func (s *Store) Revision(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n uint64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM work_logs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count work logs: %w", err)
	}
	return n, nil
}

func scanLogs(rows *sql.Rows) ([]worklog.WorkLog, error) {
	var logs []worklog.WorkLog
	for rows.Next() {
		var (
			entry             worklog.WorkLog
			dateStr, hoursStr string
			createdStr        string
		)
		if err := rows.Scan(&entry.ID, &entry.JobID, &dateStr, &entry.Start, &entry.End, &hoursStr, &entry.Note, &createdStr); err != nil {
			return nil, fmt.Errorf("scan work log: %w", err)
		}

		date, err := worklog.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse log date %q: %w", dateStr, err)
		}
		entry.Date = date

		hours, err := decimal.NewFromString(hoursStr)
		if err != nil {
			return nil, fmt.Errorf("parse log hours %q: %w", hoursStr, err)
		}
		entry.Hours = hours

		if created, err := time.Parse(time.RFC3339Nano, createdStr); err == nil {
			entry.CreatedAt = created
		}

		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

// =============================================================================
// JOB STORE
// =============================================================================

func (s *Store) SaveJob(ctx context.Context, job worklog.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, name, weekday_rate, weekend_rate, position)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM jobs))`,
		job.ID, job.Name, job.WeekdayRate.String(), job.WeekendRate.String())
	if err != nil {
		if isUniqueViolation(err) {
			return worklog.ErrDuplicateJob
		}
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *Store) Jobs(ctx context.Context) ([]worklog.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, weekday_rate, weekend_rate FROM jobs ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []worklog.Job
	for rows.Next() {
		var (
			job              worklog.Job
			wkdStr, wkndStr  string
		)
		if err := rows.Scan(&job.ID, &job.Name, &wkdStr, &wkndStr); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		if job.WeekdayRate, err = decimal.NewFromString(wkdStr); err != nil {
			return nil, fmt.Errorf("parse weekday rate %q: %w", wkdStr, err)
		}
		if job.WeekendRate, err = decimal.NewFromString(wkndStr); err != nil {
			return nil, fmt.Errorf("parse weekend rate %q: %w", wkndStr, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// =============================================================================
// SETTINGS STORE
// =============================================================================

func (s *Store) Settings(ctx context.Context) (worklog.UserSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		cfg     worklog.UserSettings
		taxStr  string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT currency_symbol, default_tax_rate FROM settings WHERE id = 1`).
		Scan(&cfg.CurrencySymbol, &taxStr)
	if err != nil {
		return worklog.UserSettings{}, fmt.Errorf("query settings: %w", err)
	}
	if cfg.DefaultTaxRate, err = decimal.NewFromString(taxStr); err != nil {
		return worklog.UserSettings{}, fmt.Errorf("parse default tax rate %q: %w", taxStr, err)
	}
	return cfg, nil
}

func (s *Store) SaveSettings(ctx context.Context, cfg worklog.UserSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		UPDATE settings SET currency_symbol = ?, default_tax_rate = ? WHERE id = 1`,
		cfg.CurrencySymbol, cfg.DefaultTaxRate.String())
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	// mattn/go-sqlite3 reports constraint violations in the error text;
	// matching on it avoids importing the driver's cgo types here.
	return err != nil &&
		(strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "PRIMARY KEY must be unique"))
}

// Compile-time check that Store implements the full store surface.
var _ worklog.Store = (*Store)(nil)
