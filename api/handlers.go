/*
handlers.go - HTTP handlers for the pay reconciliation API

ENDPOINTS:
  Jobs:
    GET    /api/jobs                   List jobs
    POST   /api/jobs                   Create job

  Logs:
    GET    /api/logs                   List log entries (optional job/range filter)
    POST   /api/logs                   Record a log entry

  Settings:
    GET    /api/settings               Get user settings
    PUT    /api/settings               Update user settings

  Sessions:
    POST   /api/sessions                                   Open a reconciliation session
    GET    /api/sessions/{id}                              Describe a session
    PUT    /api/sessions/{id}/payslip                      Set payslip figures
    GET    /api/sessions/{id}/result                       Compute the result
    GET    /api/sessions/{id}/adjustments                  List ledger items
    POST   /api/sessions/{id}/adjustments                  Add a ledger item
    PATCH  /api/sessions/{id}/adjustments/{itemID}         Edit one field
    DELETE /api/sessions/{id}/adjustments/{itemID}         Remove an item
    POST   /api/sessions/{id}/backfill                     Close an hour gap (confirmed)
    POST   /api/sessions/{id}/adjustments/{itemID}/commit  Promote hours to the log (confirmed)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, missing confirmation, invalid input
  - 404: Unknown session/item
  - 409: No job configured, duplicate records
  - 500: Internal errors

CONFIRMATION:
  Backfill and commit are the only writes to the log store. Both require
  an explicit "confirm": true in the request body; without it the action
  is rejected and nothing is written.
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/alphaalpha-app/paylevel-up-v4/reconcile"
	"github.com/alphaalpha-app/paylevel-up-v4/worklog"
)

// =============================================================================
// HANDLER
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store worklog.Store

	mu       sync.RWMutex
	sessions map[string]*reconcile.Session
}

// NewHandler creates a handler backed by the given store.
func NewHandler(store worklog.Store) *Handler {
	return &Handler{
		Store:    store,
		sessions: make(map[string]*reconcile.Session),
	}
}

func (h *Handler) session(id string) (*reconcile.Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

// =============================================================================
// JOB HANDLERS
// =============================================================================

// ListJobs returns the ordered job list.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Store.Jobs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list jobs", err)
		return
	}

	dtos := make([]JobDTO, len(jobs))
	for i, j := range jobs {
		dtos[i] = toJobDTO(j)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateJob creates a job. Rates parse leniently (blank means 0) but may
// not be negative.
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Job name is required", nil)
		return
	}

	job := worklog.Job{
		ID:          uuid.NewString(),
		Name:        req.Name,
		WeekdayRate: reconcile.ParseAmount(req.WeekdayRate),
		WeekendRate: reconcile.ParseAmount(req.WeekendRate),
	}
	if job.WeekdayRate.IsNegative() || job.WeekendRate.IsNegative() {
		writeError(w, http.StatusBadRequest, "Hourly rates must not be negative", nil)
		return
	}

	if err := h.Store.SaveJob(r.Context(), job); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create job", err)
		return
	}
	writeJSON(w, http.StatusCreated, toJobDTO(job))
}

// =============================================================================
// LOG HANDLERS
// =============================================================================

// ListLogs returns log entries, optionally filtered by job and range.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := r.URL.Query().Get("job_id")
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")

	var (
		logs []worklog.WorkLog
		err  error
	)
	if jobID != "" && fromStr != "" && toStr != "" {
		from, errFrom := worklog.ParseDate(fromStr)
		to, errTo := worklog.ParseDate(toStr)
		if errFrom != nil || errTo != nil {
			writeError(w, http.StatusBadRequest, "Invalid date range (use YYYY-MM-DD)", nil)
			return
		}
		logs, err = h.Store.LogsInRange(ctx, jobID, from, to)
	} else {
		logs, err = h.Store.Logs(ctx)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list logs", err)
		return
	}

	dtos := make([]WorkLogDTO, len(logs))
	for i, entry := range logs {
		dtos[i] = toWorkLogDTO(entry)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateLog records a tracked entry. Tracked durations must be >= 0;
// negative entries only enter through the backfill path.
func (h *Handler) CreateLog(w http.ResponseWriter, r *http.Request) {
	var req CreateLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := worklog.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	hours := reconcile.ParseAmount(req.Hours)
	if hours.IsNegative() {
		writeError(w, http.StatusBadRequest, "Hours must not be negative", nil)
		return
	}

	entry := worklog.WorkLog{
		ID:        uuid.NewString(),
		JobID:     req.JobID,
		Date:      date,
		Start:     req.Start,
		End:       req.End,
		Hours:     hours,
		Note:      req.Note,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.AddLog(r.Context(), entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record log", err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkLogDTO(entry))
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns user settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Store.Settings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsDTO{
		CurrencySymbol: cfg.CurrencySymbol,
		DefaultTaxRate: cfg.DefaultTaxRate.String(),
	})
}

// UpdateSettings replaces user settings.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cfg := worklog.UserSettings{
		CurrencySymbol: req.CurrencySymbol,
		DefaultTaxRate: reconcile.ParseAmount(req.DefaultTaxRate),
	}
	if err := h.Store.SaveSettings(r.Context(), cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

// CreateSession opens a reconciliation session against the selected job.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, err := reconcile.NewSession(r.Context(), h.Store, req.JobID, h.Store, h.Store)
	if err != nil {
		if errors.Is(err, reconcile.ErrNoJob) {
			writeErrorCode(w, http.StatusConflict, "Add a job first", "no_job", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to open session", err)
		return
	}

	if req.EndDate != "" {
		end, err := worklog.ParseDate(req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
			return
		}
		s.SetEndDate(end)
	}
	if req.PeriodLength != 0 {
		s.SetPeriodLength(req.PeriodLength)
	}

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, h.toSessionDTO(s))
}

// GetSession describes an open session.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, h.toSessionDTO(s))
}

func (h *Handler) toSessionDTO(s *reconcile.Session) SessionDTO {
	in := s.Input()
	return SessionDTO{
		ID:           s.ID,
		JobID:        s.Job().ID,
		JobName:      s.Job().Name,
		Currency:     s.Settings().CurrencySymbol,
		EndDate:      in.EndDate.String(),
		PeriodLength: in.PeriodLength,
	}
}

// UpdatePayslip sets the payslip-entered figures of a session.
func (h *Handler) UpdatePayslip(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found", nil)
		return
	}

	var req PayslipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.EndDate != "" {
		end, err := worklog.ParseDate(req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
			return
		}
		s.SetEndDate(end)
	}
	if req.PeriodLength != 0 {
		s.SetPeriodLength(req.PeriodLength)
	}
	s.SetPayslip(reconcile.PayslipInput{
		WeekdayHours: req.WeekdayHours,
		WeekendHours: req.WeekendHours,
		Allowances:   req.Allowances,
		TaxRate:      req.TaxRate,
	})

	h.computeResult(w, r, s)
}

// GetResult computes and returns the reconciliation result.
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found", nil)
		return
	}
	h.computeResult(w, r, s)
}

func (h *Handler) computeResult(w http.ResponseWriter, r *http.Request, s *reconcile.Session) {
	result, err := s.Compute(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute result", err)
		return
	}
	writeJSON(w, http.StatusOK, toResultDTO(result))
}

// =============================================================================
// ADJUSTMENT HANDLERS
// =============================================================================

// ListAdjustments returns the session's ledger items.
func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found", nil)
		return
	}

	items := s.Ledger().Items()
	dtos := make([]AdjustmentItemDTO, len(items))
	for i, item := range items {
		dtos[i] = toAdjustmentItemDTO(item)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddAdjustment appends a ledger item, from a quick-add preset or custom
// category/name.
func (h *Handler) AddAdjustment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found", nil)
		return
	}

	var req AddAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	category := reconcile.ParseCategory(req.Category)
	name := req.Name
	if req.Preset != "" {
		preset, found := findPreset(req.Preset)
		if !found {
			writeError(w, http.StatusBadRequest, "Unknown quick-add preset", nil)
			return
		}
		category, name = preset.Category, preset.Name
	}

	item := s.Ledger().Add(category, name)
	writeJSON(w, http.StatusCreated, toAdjustmentItemDTO(item))
}

func findPreset(key string) (reconcile.Preset, bool) {
	for _, p := range reconcile.QuickAddPresets {
		if string(p.Category) == key {
			return p, true
		}
	}
	return reconcile.Preset{}, false
}

// UpdateAdjustment edits one field of one ledger item.
func (h *Handler) UpdateAdjustment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found", nil)
		return
	}

	var req UpdateAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	itemID := chi.URLParam(r, "itemID")
	if err := s.Ledger().Update(itemID, reconcile.Field(req.Field), req.Value); err != nil {
		if errors.Is(err, reconcile.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, "Adjustment item not found", nil)
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid field", err)
		return
	}

	item, _ := s.Ledger().Item(itemID)
	writeJSON(w, http.StatusOK, toAdjustmentItemDTO(item))
}

// RemoveAdjustment deletes a ledger item.
func (h *Handler) RemoveAdjustment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found", nil)
		return
	}

	if !s.Ledger().Remove(chi.URLParam(r, "itemID")) {
		writeError(w, http.StatusNotFound, "Adjustment item not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// BACKFILL HANDLERS
// =============================================================================

// Backfill closes the hour gap for one bucket. Requires confirm=true.
func (h *Handler) Backfill(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found", nil)
		return
	}

	var req BackfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !req.Confirm {
		writeErrorCode(w, http.StatusBadRequest, "Backfill requires explicit confirmation", "confirmation_required", nil)
		return
	}

	entry, err := s.BackfillBucket(r.Context(), reconcile.Bucket(req.Bucket))
	if err != nil {
		if errors.Is(err, reconcile.ErrUnknownBucket) {
			writeError(w, http.StatusBadRequest, "Unknown hour bucket", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to backfill", err)
		return
	}
	if entry == nil {
		writeJSON(w, http.StatusOK, BackfillResponse{Created: false})
		return
	}

	dto := toWorkLogDTO(*entry)
	writeJSON(w, http.StatusCreated, BackfillResponse{Created: true, Entry: &dto})
}

// CommitAdjustment promotes an adjustment's hours to the log store.
// Requires confirm=true; rejects items without valid positive hours.
func (h *Handler) CommitAdjustment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found", nil)
		return
	}

	var req CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !req.Confirm {
		writeErrorCode(w, http.StatusBadRequest, "Committing an adjustment requires explicit confirmation", "confirmation_required", nil)
		return
	}

	entry, err := s.CommitAdjustment(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrItemNotFound):
			writeError(w, http.StatusNotFound, "Adjustment item not found", nil)
		case errors.Is(err, reconcile.ErrInvalidHours):
			writeErrorCode(w, http.StatusBadRequest, "Adjustment hours must be a number greater than zero", "invalid_hours", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to commit adjustment", err)
		}
		return
	}

	dto := toWorkLogDTO(*entry)
	writeJSON(w, http.StatusCreated, BackfillResponse{Created: true, Entry: &dto})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeErrorCode(w http.ResponseWriter, status int, message, code string, details any) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code, Details: details})
}
