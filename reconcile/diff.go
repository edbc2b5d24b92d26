package reconcile

import "github.com/shopspring/decimal"

// =============================================================================
// DIFF ENGINE - Payslip vs. app comparison
// =============================================================================

// Bucket identifies which hour category a diff refers to.
type Bucket string

const (
	BucketWeekday Bucket = "weekday"
	BucketWeekend Bucket = "weekend"
)

// DiffStatus classifies an hour diff against the display tolerance.
type DiffStatus string

const (
	// StatusMatching means |diff| is within the 0.1h tolerance.
	StatusMatching DiffStatus = "matching"

	// StatusUnderRecorded means the app log is missing hours the payslip
	// paid for (diff > 0.1).
	StatusUnderRecorded DiffStatus = "under_recorded"

	// StatusOverRecorded means the app log has more hours than the
	// payslip paid for (diff < -0.1).
	StatusOverRecorded DiffStatus = "over_recorded"
)

// hourTolerance is the display tolerance for hour diffs. Backfill uses an
// exact zero check instead, so near-matching diffs remain correctable.
var hourTolerance = decimal.RequireFromString("0.1")

// HourDiff compares one bucket's payslip hours against app-tracked hours.
// Diff = payslip - app.
type HourDiff struct {
	Bucket       Bucket
	AppHours     decimal.Decimal
	PayslipHours decimal.Decimal
	Diff         decimal.Decimal
	Status       DiffStatus
}

// CompareHours computes and classifies the diff for one bucket.
func CompareHours(bucket Bucket, appHours, payslipHours decimal.Decimal) HourDiff {
	diff := payslipHours.Sub(appHours)

	status := StatusMatching
	switch {
	case diff.GreaterThan(hourTolerance):
		status = StatusUnderRecorded
	case diff.LessThan(hourTolerance.Neg()):
		status = StatusOverRecorded
	}

	return HourDiff{
		Bucket:       bucket,
		AppHours:     appHours,
		PayslipHours: payslipHours,
		Diff:         diff,
		Status:       status,
	}
}

// TotalPayDiff compares gross figures: payslipGross - appGross.
//
// Sign convention: positive means the app under-estimated earnings
// relative to the payslip, negative means it over-estimated. The
// comparison is deliberately gross-based even though net figures are
// displayed alongside it.
func TotalPayDiff(payslipGross, appGross decimal.Decimal) decimal.Decimal {
	return payslipGross.Sub(appGross)
}
