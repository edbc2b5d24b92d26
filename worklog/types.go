/*
Package worklog defines the externally-owned records the reconciliation
engine reads and writes: logged time entries, job configuration, and user
settings.

These records are owned by their stores, not by the engine. The engine
treats them as read-only snapshots during a reconciliation session; the
single write path is appending a synthesized WorkLog through a LogStore.

PRECISION:
  All hours and rates use decimal.Decimal. User input arrives as decimal
  strings and is parsed leniently by the engine (malformed input means
  "no value yet", never an error).
*/
package worklog

import (
	"time"

	"github.com/shopspring/decimal"
)

// JobAll is the sentinel job selection meaning "all jobs". The engine
// resolves it to the first configured job before any calculation.
const JobAll = "all"

// WorkLog is a single tracked time entry. Immutable once stored.
//
// Hours is normally >= 0. Synthesized correction entries may carry
// negative hours to reduce previously over-counted totals.
type WorkLog struct {
	ID    string
	JobID string
	Date  Date

	// Start and End are opaque display markers. Entries synthesized by
	// the backfill path carry placeholder markers rather than clock times.
	Start string
	End   string

	Hours     decimal.Decimal
	Note      string
	CreatedAt time.Time
}

// Job is a configured job with its two hourly rates. Rates are >= 0.
type Job struct {
	ID          string
	Name        string
	WeekdayRate decimal.Decimal
	WeekendRate decimal.Decimal
}

// UserSettings carries display and default values consumed by the engine.
type UserSettings struct {
	// CurrencySymbol is an opaque display string (e.g. "$", "NT$").
	CurrencySymbol string

	// DefaultTaxRate seeds the payslip tax-rate input, as a percentage.
	DefaultTaxRate decimal.Decimal
}
