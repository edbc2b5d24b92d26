package reconcile

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alphaalpha-app/paylevel-up-v4/worklog"
)

// =============================================================================
// BACKFILL GENERATOR - Synthesizing correction log entries
// =============================================================================

// syntheticMarker replaces clock times on generated entries. The markers
// are opaque to every consumer; bucketing only ever reads the date.
const syntheticMarker = "--:--"

// BackfillFromDiff converts an hour diff into a log entry dated at the
// period's end that closes the gap. Returns nil when the diff is exactly
// zero (not the 0.1 display tolerance - tiny gaps remain correctable).
//
// The duration keeps the diff's sign: a negative entry is a correction
// reducing previously over-counted hours.
func BackfillFromDiff(d HourDiff, jobID string, periodEnd worklog.Date) *worklog.WorkLog {
	if d.Diff.IsZero() {
		return nil
	}

	hours := d.Diff.Round(2)
	note := "Backfill"
	if hours.IsNegative() {
		note = "Correction"
	}

	return &worklog.WorkLog{
		ID:        uuid.NewString(),
		JobID:     jobID,
		Date:      periodEnd,
		Start:     syntheticMarker,
		End:       syntheticMarker,
		Hours:     hours,
		Note:      fmt.Sprintf("%s (%s)", note, d.Bucket),
		CreatedAt: time.Now().UTC(),
	}
}

// BackfillFromAdjustment promotes an adjustment item's hours to a log
// entry dated at the period's end.
//
// Precondition: the item's hours field must parse as a number > 0;
// otherwise InvalidHoursError is returned and nothing is written. The
// entry carries hours only - the monetary amount never reaches the log,
// so only app-side hour totals are affected, not pay.
func BackfillFromAdjustment(item *AdjustmentItem, jobID string, periodEnd worklog.Date) (*worklog.WorkLog, error) {
	hours, ok := strictDecimal(item.Hours)
	if !ok || !hours.IsPositive() {
		return nil, &InvalidHoursError{Value: item.Hours}
	}

	return &worklog.WorkLog{
		ID:        uuid.NewString(),
		JobID:     jobID,
		Date:      periodEnd,
		Start:     syntheticMarker,
		End:       syntheticMarker,
		Hours:     hours,
		Note:      fmt.Sprintf("[%s] %s", item.Category.Label(), item.Name),
		CreatedAt: time.Now().UTC(),
	}, nil
}
