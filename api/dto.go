/*
dto.go - Data Transfer Objects for API requests and responses

Decouples the internal domain model from the external API contract.
Decimal values cross the wire as strings in both directions: requests
carry them exactly as the user typed them (the engine parses leniently),
responses format them for display.

Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
*/
package api

import (
	"time"

	"github.com/alphaalpha-app/paylevel-up-v4/reconcile"
	"github.com/alphaalpha-app/paylevel-up-v4/worklog"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// JobDTO represents a job in API responses.
type JobDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WeekdayRate string `json:"weekday_rate"`
	WeekendRate string `json:"weekend_rate"`
}

// CreateJobRequest is the request to create a job.
type CreateJobRequest struct {
	Name        string `json:"name"`
	WeekdayRate string `json:"weekday_rate"`
	WeekendRate string `json:"weekend_rate"`
}

// WorkLogDTO represents a work log entry.
type WorkLogDTO struct {
	ID        string `json:"id"`
	JobID     string `json:"job_id"`
	Date      string `json:"date"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
	Hours     string `json:"hours"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateLogRequest is the request to record a log entry.
type CreateLogRequest struct {
	JobID string `json:"job_id"`
	Date  string `json:"date"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	Hours string `json:"hours"`
	Note  string `json:"note,omitempty"`
}

// SettingsDTO represents user settings.
type SettingsDTO struct {
	CurrencySymbol string `json:"currency_symbol"`
	DefaultTaxRate string `json:"default_tax_rate"`
}

// CreateSessionRequest opens a reconciliation session.
// JobID may be empty or "all"; the engine resolves it to the first job.
type CreateSessionRequest struct {
	JobID        string `json:"job_id,omitempty"`
	EndDate      string `json:"end_date,omitempty"`      // ISO date, defaults to today
	PeriodLength int    `json:"period_length,omitempty"` // 14 or 30, defaults to 14
}

// SessionDTO describes an open session.
type SessionDTO struct {
	ID           string `json:"id"`
	JobID        string `json:"job_id"`
	JobName      string `json:"job_name"`
	Currency     string `json:"currency"`
	EndDate      string `json:"end_date"`
	PeriodLength int    `json:"period_length"`
}

// PayslipRequest replaces the payslip-entered figures of a session.
type PayslipRequest struct {
	EndDate      string `json:"end_date,omitempty"`
	PeriodLength int    `json:"period_length,omitempty"`
	WeekdayHours string `json:"weekday_hours"`
	WeekendHours string `json:"weekend_hours"`
	Allowances   string `json:"allowances"`
	TaxRate      string `json:"tax_rate"`
}

// AddAdjustmentRequest appends a ledger item. When Preset is set it seeds
// category and name from the quick-add templates; otherwise Category and
// Name are used directly.
type AddAdjustmentRequest struct {
	Preset   string `json:"preset,omitempty"`
	Category string `json:"category,omitempty"`
	Name     string `json:"name,omitempty"`
}

// UpdateAdjustmentRequest edits one field of one ledger item.
type UpdateAdjustmentRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// AdjustmentItemDTO represents a ledger item.
type AdjustmentItemDTO struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Hours    string `json:"hours"`
	Rate     string `json:"rate"`
	Amount   string `json:"amount"`
}

// HourDiffDTO represents one bucket's comparison.
type HourDiffDTO struct {
	Bucket       string `json:"bucket"`
	AppHours     string `json:"app_hours"`
	PayslipHours string `json:"payslip_hours"`
	Diff         string `json:"diff"`
	Status       string `json:"status"`
}

// ResultDTO is the derived reconciliation result.
type ResultDTO struct {
	PeriodStart      string `json:"period_start"`
	PeriodEnd        string `json:"period_end"`
	AppWeekdayHours  string `json:"app_weekday_hours"`
	AppWeekendHours  string `json:"app_weekend_hours"`
	EstimatedBasePay string `json:"estimated_base_pay"`
	AppGross         string `json:"app_gross"`
	AppNet           string `json:"app_net"`
	PayslipGross     string `json:"payslip_gross"`
	PayslipNet       string `json:"payslip_net"`

	WeekdayDiff     HourDiffDTO `json:"weekday_diff"`
	WeekendDiff     HourDiffDTO `json:"weekend_diff"`
	TotalPayDiff    string      `json:"total_pay_diff"`
	AdjustmentTotal string      `json:"adjustment_total"`
}

// BackfillRequest asks to close one bucket's hour gap. Confirm must be
// true; the write is a destructive user action.
type BackfillRequest struct {
	Bucket  string `json:"bucket"`
	Confirm bool   `json:"confirm"`
}

// CommitRequest asks to promote an adjustment's hours to the log.
type CommitRequest struct {
	Confirm bool `json:"confirm"`
}

// BackfillResponse reports the synthesized entry, if any.
type BackfillResponse struct {
	Created bool        `json:"created"`
	Entry   *WorkLogDTO `json:"entry,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toJobDTO(j worklog.Job) JobDTO {
	return JobDTO{
		ID:          j.ID,
		Name:        j.Name,
		WeekdayRate: j.WeekdayRate.String(),
		WeekendRate: j.WeekendRate.String(),
	}
}

func toWorkLogDTO(entry worklog.WorkLog) WorkLogDTO {
	dto := WorkLogDTO{
		ID:    entry.ID,
		JobID: entry.JobID,
		Date:  entry.Date.String(),
		Start: entry.Start,
		End:   entry.End,
		Hours: entry.Hours.String(),
		Note:  entry.Note,
	}
	if !entry.CreatedAt.IsZero() {
		dto.CreatedAt = entry.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toAdjustmentItemDTO(item *reconcile.AdjustmentItem) AdjustmentItemDTO {
	return AdjustmentItemDTO{
		ID:       item.ID,
		Category: string(item.Category),
		Name:     item.Name,
		Hours:    item.Hours,
		Rate:     item.Rate,
		Amount:   item.Amount,
	}
}

func toHourDiffDTO(d reconcile.HourDiff) HourDiffDTO {
	return HourDiffDTO{
		Bucket:       string(d.Bucket),
		AppHours:     d.AppHours.StringFixed(2),
		PayslipHours: d.PayslipHours.StringFixed(2),
		Diff:         d.Diff.StringFixed(2),
		Status:       string(d.Status),
	}
}

func toResultDTO(r reconcile.Result) ResultDTO {
	return ResultDTO{
		PeriodStart:      r.Period.Start.String(),
		PeriodEnd:        r.Period.End.String(),
		AppWeekdayHours:  r.AppHours.Weekday.StringFixed(2),
		AppWeekendHours:  r.AppHours.Weekend.StringFixed(2),
		EstimatedBasePay: r.EstimatedBasePay.StringFixed(2),
		AppGross:         r.App.Gross.StringFixed(2),
		AppNet:           r.App.Net.StringFixed(2),
		PayslipGross:     r.Payslip.Gross.StringFixed(2),
		PayslipNet:       r.Payslip.Net.StringFixed(2),
		WeekdayDiff:      toHourDiffDTO(r.WeekdayDiff),
		WeekendDiff:      toHourDiffDTO(r.WeekendDiff),
		TotalPayDiff:     r.TotalPayDiff.StringFixed(2),
		AdjustmentTotal:  r.AdjustmentTotal.StringFixed(2),
	}
}
