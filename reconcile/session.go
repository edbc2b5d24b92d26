/*
Package reconcile compares two independently recorded views of a worker's
pay for a fixed period: hours and pay derived from the personal time log
vs. hours and pay printed on the employer's payslip.

DATA FLOW (one-way, converging in the diff engine):

  Period -> Aggregator -> Base Pay ----\
                                        >-> Diffs
  Adjustment Ledger -> Payslip Pay ----/

The backfill generator is the only component that writes back: it appends
a single synthesized entry to the external log store to close a detected
gap.

EVERYTHING RECOMPUTES:
  Results are pure re-derivations from an explicit input snapshot. There
  is no hidden mutable computed state; the only cache is the aggregator's
  memo, keyed on the full input tuple including the store revision.

ERROR POLICY:
  Numeric parse failures coerce to zero and never surface. Precondition
  violations (committing an adjustment with invalid hours) reject with a
  typed error and no state mutation. A missing job fails session creation
  with ErrNoJob.
*/
package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alphaalpha-app/paylevel-up-v4/worklog"
)

// =============================================================================
// INPUT / RESULT
// =============================================================================

// Input is the live reconciliation input snapshot.
type Input struct {
	EndDate      worklog.Date
	PeriodLength int
	Payslip      PayslipInput
}

// Result is the derived reconciliation outcome. Never stored.
type Result struct {
	Period Period

	// App side
	AppHours         HourBuckets
	EstimatedBasePay decimal.Decimal
	App              PayFigures

	// Payslip side
	Payslip PayFigures

	// Diffs
	WeekdayDiff     HourDiff
	WeekendDiff     HourDiff
	TotalPayDiff    decimal.Decimal
	AdjustmentTotal decimal.Decimal
}

// =============================================================================
// SESSION
// =============================================================================

// Session is one reconciliation run against a single job. It holds the
// resolved job, a settings snapshot, the live inputs, and the session's
// adjustment ledger. Single-threaded, synchronous.
type Session struct {
	ID string

	job      worklog.Job
	settings worklog.UserSettings
	logs     worklog.LogStore
	ledger   *AdjustmentLedger
	agg      *Aggregator
	input    Input
}

// NewSession opens a session against the job selected by selectedJobID.
// The sentinel selection (empty or worklog.JobAll) resolves to the first
// configured job, so the core always computes against a concrete job.
// Returns ErrNoJob when no jobs exist.
func NewSession(ctx context.Context, jobs worklog.JobStore, selectedJobID string, settings worklog.SettingsStore, logs worklog.LogStore) (*Session, error) {
	all, err := jobs.Jobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}
	if len(all) == 0 {
		return nil, ErrNoJob
	}

	cfg, err := settings.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	s := &Session{
		ID:       uuid.NewString(),
		job:      resolveJob(all, selectedJobID),
		settings: cfg,
		logs:     logs,
		ledger:   NewAdjustmentLedger(),
		agg:      NewAggregator(logs),
	}
	s.input = Input{
		EndDate:      worklog.Today(),
		PeriodLength: PeriodFortnight,
		Payslip: PayslipInput{
			// The default tax rate seeds the payslip input; the user can
			// overwrite it per session.
			TaxRate: cfg.DefaultTaxRate.String(),
		},
	}
	return s, nil
}

// resolveJob maps the job selection to a concrete job. Unknown or
// sentinel selections fall back to the first job in the ordered list.
func resolveJob(jobs []worklog.Job, selected string) worklog.Job {
	if selected == "" || selected == worklog.JobAll {
		return jobs[0]
	}
	for _, j := range jobs {
		if j.ID == selected {
			return j
		}
	}
	return jobs[0]
}

func (s *Session) Job() worklog.Job                { return s.job }
func (s *Session) Settings() worklog.UserSettings  { return s.settings }
func (s *Session) Ledger() *AdjustmentLedger       { return s.ledger }
func (s *Session) Input() Input                    { return s.input }

// SetEndDate moves the reconciliation window's end date.
func (s *Session) SetEndDate(d worklog.Date) { s.input.EndDate = d }

// SetPeriodLength sets the window length in days (14 or 30).
func (s *Session) SetPeriodLength(n int) { s.input.PeriodLength = n }

// SetPayslip replaces the payslip-entered figures.
func (s *Session) SetPayslip(in PayslipInput) { s.input.Payslip = in }

// Compute re-derives the full reconciliation result from the current
// inputs. Safe to call on every input change.
func (s *Session) Compute(ctx context.Context) (Result, error) {
	p := Window(s.input.EndDate, s.input.PeriodLength)

	buckets, err := s.agg.Hours(ctx, s.job.ID, p)
	if err != nil {
		return Result{}, err
	}

	basePay := BasePay(buckets, s.job)
	adjTotal := s.ledger.Total()
	app := AppPay(basePay, s.input.Payslip)
	slip := PayslipPay(s.input.Payslip, s.job, adjTotal)

	return Result{
		Period:           p,
		AppHours:         buckets,
		EstimatedBasePay: basePay,
		App:              app,
		Payslip:          slip,
		WeekdayDiff:      CompareHours(BucketWeekday, buckets.Weekday, lenientDecimal(s.input.Payslip.WeekdayHours)),
		WeekendDiff:      CompareHours(BucketWeekend, buckets.Weekend, lenientDecimal(s.input.Payslip.WeekendHours)),
		TotalPayDiff:     TotalPayDiff(slip.Gross, app.Gross),
		AdjustmentTotal:  adjTotal,
	}, nil
}

// BackfillBucket closes the hour gap for one bucket by appending a
// synthesized entry to the log store. Returns (nil, nil) when the diff is
// exactly zero. The ledger and the current result are not touched; the
// diff changes only once aggregation recomputes against the updated logs.
//
// Callers must obtain explicit user confirmation before invoking this.
func (s *Session) BackfillBucket(ctx context.Context, bucket Bucket) (*worklog.WorkLog, error) {
	result, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}

	var d HourDiff
	switch bucket {
	case BucketWeekday:
		d = result.WeekdayDiff
	case BucketWeekend:
		d = result.WeekendDiff
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBucket, bucket)
	}

	entry := BackfillFromDiff(d, s.job.ID, result.Period.End)
	if entry == nil {
		return nil, nil
	}
	if err := s.logs.AddLog(ctx, *entry); err != nil {
		return nil, fmt.Errorf("append backfill entry: %w", err)
	}
	return entry, nil
}

// CommitAdjustment promotes an adjustment item's hours to the log store.
// Rejects with InvalidHoursError when the hours field is not a number
// greater than zero; no entry is written in that case.
//
// Callers must obtain explicit user confirmation before invoking this.
func (s *Session) CommitAdjustment(ctx context.Context, itemID string) (*worklog.WorkLog, error) {
	item, ok := s.ledger.Item(itemID)
	if !ok {
		return nil, ErrItemNotFound
	}

	p := Window(s.input.EndDate, s.input.PeriodLength)
	entry, err := BackfillFromAdjustment(item, s.job.ID, p.End)
	if err != nil {
		return nil, err
	}
	if err := s.logs.AddLog(ctx, *entry); err != nil {
		return nil, fmt.Errorf("append adjustment entry: %w", err)
	}
	return entry, nil
}
