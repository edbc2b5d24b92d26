package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/alphaalpha-app/paylevel-up-v4/worklog"
	"github.com/alphaalpha-app/paylevel-up-v4/worklog/store"
)

func logEntry(id, jobID string, date worklog.Date, hours string) worklog.WorkLog {
	return worklog.WorkLog{
		ID:    id,
		JobID: jobID,
		Date:  date,
		Hours: decimal.RequireFromString(hours),
	}
}

func TestMemory_AddLog_KeepsDateOrder(t *testing.T) {
	// GIVEN: Entries appended out of date order
	// WHEN: Listing
	// THEN: Entries come back sorted by date

	ctx := context.Background()
	m := store.NewMemory()

	dates := []worklog.Date{
		worklog.NewDate(2025, 6, 20),
		worklog.NewDate(2025, 6, 10),
		worklog.NewDate(2025, 6, 15),
	}
	for i, d := range dates {
		if err := m.AddLog(ctx, logEntry(string(rune('a'+i)), "job-1", d, "1")); err != nil {
			t.Fatalf("AddLog: %v", err)
		}
	}

	logs, err := m.Logs(ctx)
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	for i := 1; i < len(logs); i++ {
		if logs[i].Date.Before(logs[i-1].Date) {
			t.Errorf("logs out of order at %d: %s before %s", i, logs[i].Date, logs[i-1].Date)
		}
	}
}

func TestMemory_AddLog_DuplicateID_Rejected(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	e := logEntry("log-1", "job-1", worklog.NewDate(2025, 6, 10), "8")
	if err := m.AddLog(ctx, e); err != nil {
		t.Fatalf("AddLog: %v", err)
	}
	if err := m.AddLog(ctx, e); !errors.Is(err, worklog.ErrDuplicateLog) {
		t.Errorf("error = %v, want ErrDuplicateLog", err)
	}
}

func TestMemory_Revision_BumpsOnEveryAppend(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	rev0, _ := m.Revision(ctx)
	m.AddLog(ctx, logEntry("a", "job-1", worklog.NewDate(2025, 6, 10), "8"))
	rev1, _ := m.Revision(ctx)
	m.AddLog(ctx, logEntry("b", "job-1", worklog.NewDate(2025, 6, 11), "8"))
	rev2, _ := m.Revision(ctx)

	if rev1 <= rev0 || rev2 <= rev1 {
		t.Errorf("revision not monotonic: %d, %d, %d", rev0, rev1, rev2)
	}
}

func TestMemory_LogsInRange_FiltersJobAndDates(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	m.AddLog(ctx, logEntry("a", "job-1", worklog.NewDate(2025, 6, 10), "8"))
	m.AddLog(ctx, logEntry("b", "job-2", worklog.NewDate(2025, 6, 10), "4"))
	m.AddLog(ctx, logEntry("c", "job-1", worklog.NewDate(2025, 6, 25), "6"))

	logs, err := m.LogsInRange(ctx, "job-1", worklog.NewDate(2025, 6, 1), worklog.NewDate(2025, 6, 15))
	if err != nil {
		t.Fatalf("LogsInRange: %v", err)
	}
	if len(logs) != 1 || logs[0].ID != "a" {
		t.Errorf("expected only entry a, got %+v", logs)
	}
}

func TestMemory_Jobs_PreserveInsertionOrder(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	m.SaveJob(ctx, worklog.Job{ID: "job-1", Name: "First"})
	m.SaveJob(ctx, worklog.Job{ID: "job-2", Name: "Second"})

	if err := m.SaveJob(ctx, worklog.Job{ID: "job-1", Name: "Dup"}); !errors.Is(err, worklog.ErrDuplicateJob) {
		t.Errorf("error = %v, want ErrDuplicateJob", err)
	}

	jobs, err := m.Jobs(ctx)
	if err != nil {
		t.Fatalf("Jobs: %v", err)
	}
	if len(jobs) != 2 || jobs[0].ID != "job-1" || jobs[1].ID != "job-2" {
		t.Errorf("unexpected job order: %+v", jobs)
	}
}

func TestMemory_Settings_DefaultAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	cfg, err := m.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if cfg.CurrencySymbol != "$" || !cfg.DefaultTaxRate.IsZero() {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	want := worklog.UserSettings{CurrencySymbol: "£", DefaultTaxRate: decimal.RequireFromString("20")}
	if err := m.SaveSettings(ctx, want); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	cfg, _ = m.Settings(ctx)
	if cfg.CurrencySymbol != "£" || !cfg.DefaultTaxRate.Equal(want.DefaultTaxRate) {
		t.Errorf("round trip mismatch: %+v", cfg)
	}
}
