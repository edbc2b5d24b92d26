package reconcile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphaalpha-app/paylevel-up-v4/reconcile"
	"github.com/alphaalpha-app/paylevel-up-v4/worklog"
	"github.com/alphaalpha-app/paylevel-up-v4/worklog/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T, jobs ...worklog.Job) *store.Memory {
	t.Helper()
	mem := store.NewMemory()
	ctx := context.Background()
	for _, j := range jobs {
		require.NoError(t, mem.SaveJob(ctx, j))
	}
	return mem
}

func newTestSession(t *testing.T, mem *store.Memory, jobID string) *reconcile.Session {
	t.Helper()
	s, err := reconcile.NewSession(context.Background(), mem, jobID, mem, mem)
	require.NoError(t, err)
	return s
}

// =============================================================================
// JOB RESOLUTION TESTS
// =============================================================================

func TestNewSession_NoJobs_ErrNoJob(t *testing.T) {
	mem := store.NewMemory()

	_, err := reconcile.NewSession(context.Background(), mem, "", mem, mem)
	assert.ErrorIs(t, err, reconcile.ErrNoJob)
}

func TestNewSession_SentinelSelection_ResolvesToFirstJob(t *testing.T) {
	// GIVEN: Two configured jobs
	// WHEN: Opening sessions with "", "all", and an unknown ID
	// THEN: All resolve to the first job

	first := testJob
	second := worklog.Job{ID: "job-2", Name: "Bar", WeekdayRate: dec("22"), WeekendRate: dec("28")}
	mem := newTestStore(t, first, second)

	for _, selected := range []string{"", worklog.JobAll, "no-such-job"} {
		s := newTestSession(t, mem, selected)
		assert.Equal(t, first.ID, s.Job().ID, "selection %q", selected)
	}

	s := newTestSession(t, mem, "job-2")
	assert.Equal(t, second.ID, s.Job().ID)
}

func TestNewSession_Defaults(t *testing.T) {
	mem := newTestStore(t, testJob)
	require.NoError(t, mem.SaveSettings(context.Background(), worklog.UserSettings{
		CurrencySymbol: "$",
		DefaultTaxRate: dec("17.5"),
	}))

	s := newTestSession(t, mem, "")
	in := s.Input()

	assert.Equal(t, reconcile.PeriodFortnight, in.PeriodLength)
	assert.True(t, in.EndDate.Equal(worklog.Today()))
	assert.Equal(t, "17.5", in.Payslip.TaxRate, "default tax rate seeds the payslip input")
}

// =============================================================================
// END-TO-END COMPUTE TESTS
// =============================================================================

func TestSession_Compute_FullDerivation(t *testing.T) {
	// GIVEN: 8h on a Monday and 4h on a Saturday inside the window, and a
	//        payslip claiming 10 weekday / 4 weekend hours
	// WHEN: Computing
	// THEN: Hours, pay figures, and diffs all line up

	ctx := context.Background()
	mem := newTestStore(t, testJob)
	require.NoError(t, mem.AddLog(ctx, entry(testJob.ID, worklog.NewDate(2025, 6, 23), "8")))
	require.NoError(t, mem.AddLog(ctx, entry(testJob.ID, worklog.NewDate(2025, 6, 28), "4")))

	s := newTestSession(t, mem, testJob.ID)
	s.SetEndDate(worklog.NewDate(2025, 6, 30))
	s.SetPayslip(reconcile.PayslipInput{
		WeekdayHours: "10",
		WeekendHours: "4",
		TaxRate:      "10",
	})

	result, err := s.Compute(ctx)
	require.NoError(t, err)

	// App side: 8 weekday + 4 weekend, base = 8*20 + 4*25 = 260.
	assert.True(t, result.AppHours.Weekday.Equal(dec("8")))
	assert.True(t, result.AppHours.Weekend.Equal(dec("4")))
	assert.True(t, result.EstimatedBasePay.Equal(dec("260")))
	assert.True(t, result.App.Net.Equal(dec("234")))

	// Payslip side: 10*20 + 4*25 = 300 gross.
	assert.True(t, result.Payslip.Gross.Equal(dec("300")))

	// Weekday is under-recorded by 2h; weekend matches.
	assert.Equal(t, reconcile.StatusUnderRecorded, result.WeekdayDiff.Status)
	assert.True(t, result.WeekdayDiff.Diff.Equal(dec("2")))
	assert.Equal(t, reconcile.StatusMatching, result.WeekendDiff.Status)

	// Pay diff is gross-based: 300 - 260 = 40.
	assert.True(t, result.TotalPayDiff.Equal(dec("40")))
}

func TestSession_Compute_LedgerTotalFlowsIntoPayslip(t *testing.T) {
	ctx := context.Background()
	mem := newTestStore(t, testJob)
	s := newTestSession(t, mem, testJob.ID)

	item := s.Ledger().Add(reconcile.CategoryOvertime1, "OT First 2 Hrs")
	require.NoError(t, s.Ledger().Update(item.ID, reconcile.FieldHours, "2"))
	require.NoError(t, s.Ledger().Update(item.ID, reconcile.FieldRate, "30"))

	result, err := s.Compute(ctx)
	require.NoError(t, err)

	assert.True(t, result.AdjustmentTotal.Equal(dec("60")), "total = %s", result.AdjustmentTotal)
	assert.True(t, result.Payslip.Gross.Equal(dec("60")))
}

// =============================================================================
// BACKFILL ROUND-TRIP TESTS
// =============================================================================

func TestSession_BackfillBucket_ClosesGapOnRecompute(t *testing.T) {
	// GIVEN: A 2h weekday under-recording
	// WHEN: Backfilling the weekday bucket and recomputing
	// THEN: The synthesized entry closes the diff to zero

	ctx := context.Background()
	mem := newTestStore(t, testJob)
	require.NoError(t, mem.AddLog(ctx, entry(testJob.ID, worklog.NewDate(2025, 6, 23), "8")))

	s := newTestSession(t, mem, testJob.ID)
	s.SetEndDate(worklog.NewDate(2025, 6, 30))
	s.SetPayslip(reconcile.PayslipInput{WeekdayHours: "10"})

	created, err := s.BackfillBucket(ctx, reconcile.BucketWeekday)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, created.Hours.Equal(dec("2")))

	result, err := s.Compute(ctx)
	require.NoError(t, err)
	assert.True(t, result.WeekdayDiff.Diff.IsZero(), "diff = %s", result.WeekdayDiff.Diff)
	assert.Equal(t, reconcile.StatusMatching, result.WeekdayDiff.Status)

	// A second backfill is a no-op now.
	created, err = s.BackfillBucket(ctx, reconcile.BucketWeekday)
	require.NoError(t, err)
	assert.Nil(t, created)
}

func TestSession_BackfillBucket_UnknownBucket(t *testing.T) {
	mem := newTestStore(t, testJob)
	s := newTestSession(t, mem, testJob.ID)

	_, err := s.BackfillBucket(context.Background(), reconcile.Bucket("daily"))
	assert.ErrorIs(t, err, reconcile.ErrUnknownBucket)
}

func TestSession_CommitAdjustment_WritesHoursOnly(t *testing.T) {
	ctx := context.Background()
	mem := newTestStore(t, testJob)
	s := newTestSession(t, mem, testJob.ID)
	s.SetEndDate(worklog.NewDate(2025, 6, 30))

	item := s.Ledger().Add(reconcile.CategoryMealBreak, "Meal Break")
	require.NoError(t, s.Ledger().Update(item.ID, reconcile.FieldHours, "0.5"))
	require.NoError(t, s.Ledger().Update(item.ID, reconcile.FieldRate, "20"))

	created, err := s.CommitAdjustment(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, created.Hours.Equal(dec("0.5")))
	assert.Equal(t, "[Meal Break] Meal Break", created.Note)

	logs, err := mem.Logs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
}

func TestSession_CommitAdjustment_InvalidHours_NothingWritten(t *testing.T) {
	ctx := context.Background()
	mem := newTestStore(t, testJob)
	s := newTestSession(t, mem, testJob.ID)

	item := s.Ledger().Add(reconcile.CategoryAllowance, "Allowance")
	require.NoError(t, s.Ledger().Update(item.ID, reconcile.FieldAmount, "100"))

	_, err := s.CommitAdjustment(ctx, item.ID)
	assert.ErrorIs(t, err, reconcile.ErrInvalidHours)

	logs, err := mem.Logs(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestSession_CommitAdjustment_UnknownItem(t *testing.T) {
	mem := newTestStore(t, testJob)
	s := newTestSession(t, mem, testJob.ID)

	_, err := s.CommitAdjustment(context.Background(), "missing")
	assert.ErrorIs(t, err, reconcile.ErrItemNotFound)
}
