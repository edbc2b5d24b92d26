// Package store provides worklog store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/alphaalpha-app/paylevel-up-v4/worklog"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	logs     []worklog.WorkLog
	logIDs   map[string]bool
	jobs     []worklog.Job
	jobIDs   map[string]bool
	settings worklog.UserSettings
	revision uint64
}

func NewMemory() *Memory {
	return &Memory{
		logIDs: make(map[string]bool),
		jobIDs: make(map[string]bool),
		settings: worklog.UserSettings{
			CurrencySymbol: "$",
			DefaultTaxRate: decimal.Zero,
		},
	}
}

// AddLog appends a single entry, keeping the collection sorted by date.
func (m *Memory) AddLog(_ context.Context, entry worklog.WorkLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID != "" && m.logIDs[entry.ID] {
		return worklog.ErrDuplicateLog
	}

	// Binary search for the insertion point to keep date order.
	i := sort.Search(len(m.logs), func(i int) bool {
		return m.logs[i].Date.After(entry.Date)
	})
	m.logs = append(m.logs, worklog.WorkLog{})
	copy(m.logs[i+1:], m.logs[i:])
	m.logs[i] = entry

	if entry.ID != "" {
		m.logIDs[entry.ID] = true
	}
	m.revision++
	return nil
}

func (m *Memory) Logs(_ context.Context) ([]worklog.WorkLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]worklog.WorkLog, len(m.logs))
	copy(result, m.logs)
	return result, nil
}

func (m *Memory) LogsInRange(_ context.Context, jobID string, from, to worklog.Date) ([]worklog.WorkLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []worklog.WorkLog
	for _, entry := range m.logs {
		if entry.JobID != jobID {
			continue
		}
		if from.BeforeOrEqual(entry.Date) && entry.Date.BeforeOrEqual(to) {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (m *Memory) Revision(_ context.Context) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revision, nil
}

// SaveJob appends a job to the ordered job list.
func (m *Memory) SaveJob(_ context.Context, job worklog.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.jobIDs[job.ID] {
		return worklog.ErrDuplicateJob
	}
	m.jobs = append(m.jobs, job)
	m.jobIDs[job.ID] = true
	return nil
}

func (m *Memory) Jobs(_ context.Context) ([]worklog.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]worklog.Job, len(m.jobs))
	copy(result, m.jobs)
	return result, nil
}

func (m *Memory) Settings(_ context.Context) (worklog.UserSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings, nil
}

func (m *Memory) SaveSettings(_ context.Context, s worklog.UserSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	return nil
}

// Compile-time check that Memory implements the full store surface.
var _ worklog.Store = (*Memory)(nil)
