package worklog

import (
	"context"
	"errors"
)

// =============================================================================
// STORE INTERFACES
// =============================================================================

var (
	// ErrDuplicateLog is returned when appending a log whose ID already exists.
	ErrDuplicateLog = errors.New("work log already exists")

	// ErrDuplicateJob is returned when saving a job whose ID already exists.
	ErrDuplicateJob = errors.New("job already exists")
)

// LogStore persists work logs. The log collection is append-only: entries
// are never updated or deleted, corrections are appended as new entries
// with negative hours.
type LogStore interface {
	// AddLog appends a single entry. This is the only write operation.
	AddLog(ctx context.Context, entry WorkLog) error

	// Logs returns every entry, ordered by date then creation time.
	Logs(ctx context.Context) ([]WorkLog, error)

	// LogsInRange returns entries for a job with dates in [from, to].
	LogsInRange(ctx context.Context, jobID string, from, to Date) ([]WorkLog, error)

	// Revision returns a counter that increases on every append. Used to
	// key memoized aggregations so cached hour totals are invalidated the
	// moment the collection changes.
	Revision(ctx context.Context) (uint64, error)
}

// JobStore provides the ordered job list.
type JobStore interface {
	Jobs(ctx context.Context) ([]Job, error)
	SaveJob(ctx context.Context, job Job) error
}

// SettingsStore provides user settings.
type SettingsStore interface {
	Settings(ctx context.Context) (UserSettings, error)
	SaveSettings(ctx context.Context, s UserSettings) error
}

// Store combines all storage interfaces. Concrete implementations:
// worklog/store (in-memory) and store/sqlite.
type Store interface {
	LogStore
	JobStore
	SettingsStore
}
