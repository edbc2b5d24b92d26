package reconcile

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoJob is returned when a session is opened with no configured jobs.
	// The whole reconciliation view degrades to an "add a job first" state.
	ErrNoJob = errors.New("no job configured")

	// ErrItemNotFound is returned when an adjustment item ID does not exist.
	ErrItemNotFound = errors.New("adjustment item not found")

	// ErrInvalidHours is returned when committing an adjustment whose hours
	// field is zero, empty, or not numeric.
	ErrInvalidHours = errors.New("adjustment hours must be a number greater than zero")

	// ErrUnknownBucket is returned for a backfill request on a bucket that
	// is neither weekday nor weekend.
	ErrUnknownBucket = errors.New("unknown hour bucket")
)

// InvalidHoursError carries the offending hours value for a rejected
// adjustment commit. No log entry is created when this is returned.
type InvalidHoursError struct {
	Value string
}

func (e *InvalidHoursError) Error() string {
	return fmt.Sprintf("adjustment hours %q must be a number greater than zero", e.Value)
}

func (e *InvalidHoursError) Unwrap() error { return ErrInvalidHours }
