package reconcile

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alphaalpha-app/paylevel-up-v4/worklog"
)

// =============================================================================
// LOG AGGREGATION - Weekday/weekend hour buckets
// =============================================================================

// HourBuckets holds tracked hours split by whether the entry's date falls
// on a weekend. Both totals default to zero when no entries match.
type HourBuckets struct {
	Weekday decimal.Decimal
	Weekend decimal.Decimal
}

func (b HourBuckets) Total() decimal.Decimal {
	return b.Weekday.Add(b.Weekend)
}

// AggregateHours filters entries to the given job and period and splits
// their durations into weekday/weekend buckets. Bucketing uses only the
// entry's calendar date, never its start/end markers.
//
// Partition property: Weekday + Weekend equals the sum of durations of all
// matching entries - no entry counted twice, none dropped.
func AggregateHours(logs []worklog.WorkLog, jobID string, p Period) HourBuckets {
	b := HourBuckets{Weekday: decimal.Zero, Weekend: decimal.Zero}
	for _, entry := range logs {
		if entry.JobID != jobID {
			continue
		}
		if !p.Contains(entry.Date) {
			continue
		}
		if entry.Date.IsWeekend() {
			b.Weekend = b.Weekend.Add(entry.Hours)
		} else {
			b.Weekday = b.Weekday.Add(entry.Hours)
		}
	}
	return b
}

// Aggregator memoizes the latest aggregation against its full input tuple:
// job, period, and the log store revision. Any append to the store bumps
// the revision and invalidates the cache, so backfilled entries show up on
// the next recomputation without explicit cache management.
type Aggregator struct {
	store  worklog.LogStore
	key    aggKey
	cached HourBuckets
	valid  bool
}

type aggKey struct {
	jobID    string
	start    worklog.Date
	end      worklog.Date
	revision uint64
}

func NewAggregator(store worklog.LogStore) *Aggregator {
	return &Aggregator{store: store}
}

// Hours returns the bucketed totals for the job over the period, reusing
// the cached result when nothing relevant has changed.
func (a *Aggregator) Hours(ctx context.Context, jobID string, p Period) (HourBuckets, error) {
	rev, err := a.store.Revision(ctx)
	if err != nil {
		return HourBuckets{}, fmt.Errorf("read log revision: %w", err)
	}

	k := aggKey{jobID: jobID, start: p.Start, end: p.End, revision: rev}
	if a.valid && a.key == k {
		return a.cached, nil
	}

	logs, err := a.store.LogsInRange(ctx, jobID, p.Start, p.End)
	if err != nil {
		return HourBuckets{}, fmt.Errorf("load logs: %w", err)
	}

	a.cached = AggregateHours(logs, jobID, p)
	a.key = k
	a.valid = true
	return a.cached, nil
}
