package reconcile

import "github.com/alphaalpha-app/paylevel-up-v4/worklog"

// =============================================================================
// PERIOD - The reconciliation window
// =============================================================================

// Supported period lengths, matching common pay cycles.
const (
	PeriodFortnight = 14
	PeriodMonth     = 30
)

// Period is the inclusive date range being reconciled.
type Period struct {
	Start worklog.Date
	End   worklog.Date
}

// Window derives the period from its end date and length in days.
// The window is end-inclusive and spans exactly `length` calendar days:
// Start = end - (length - 1) days.
func Window(end worklog.Date, length int) Period {
	if length < 1 {
		length = 1
	}
	return Period{
		Start: end.AddDays(-(length - 1)),
		End:   end,
	}
}

// Contains returns true if the date is within [Start, End].
func (p Period) Contains(d worklog.Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns all calendar days in the period.
func (p Period) Days() []worklog.Date {
	var days []worklog.Date
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
