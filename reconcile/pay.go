package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/alphaalpha-app/paylevel-up-v4/worklog"
)

// =============================================================================
// PAY CALCULATION - Base pay, app pay, payslip pay
// =============================================================================

var hundred = decimal.NewFromInt(100)

// PayslipInput carries the payslip-entered figures as the user typed them.
// Every field is a decimal string parsed leniently: empty or malformed
// values contribute zero.
type PayslipInput struct {
	WeekdayHours string
	WeekendHours string
	Allowances   string
	TaxRate      string // percentage
}

// PayFigures is a gross/net pair. No rounding is applied until display.
type PayFigures struct {
	Gross decimal.Decimal
	Net   decimal.Decimal
}

// BasePay converts bucketed hours into gross pay using the job's two
// hourly rates. Pure function.
func BasePay(b HourBuckets, job worklog.Job) decimal.Decimal {
	return b.Weekday.Mul(job.WeekdayRate).Add(b.Weekend.Mul(job.WeekendRate))
}

// AppPay computes the app-side gross/net from the estimated base pay.
// Adjustments are a payslip-only concept, so only allowances are added.
func AppPay(basePay decimal.Decimal, in PayslipInput) PayFigures {
	gross := basePay.Add(lenientDecimal(in.Allowances))
	return PayFigures{Gross: gross, Net: applyFlatTax(gross, lenientDecimal(in.TaxRate))}
}

// PayslipPay computes gross/net from the payslip-entered hours, the job's
// rates, allowances, and the adjustment ledger total.
func PayslipPay(in PayslipInput, job worklog.Job, adjustmentTotal decimal.Decimal) PayFigures {
	gross := lenientDecimal(in.WeekdayHours).Mul(job.WeekdayRate).
		Add(lenientDecimal(in.WeekendHours).Mul(job.WeekendRate)).
		Add(lenientDecimal(in.Allowances)).
		Add(adjustmentTotal)
	return PayFigures{Gross: gross, Net: applyFlatTax(gross, lenientDecimal(in.TaxRate))}
}

// applyFlatTax applies the flat rate once to the full gross figure:
// net = gross * (1 - rate/100). Allowances and adjustments are taxed
// identically to base wages. Rates outside [0, 100] are not validated
// and simply scale the result.
func applyFlatTax(gross, ratePct decimal.Decimal) decimal.Decimal {
	return gross.Mul(decimal.NewFromInt(1).Sub(ratePct.Div(hundred)))
}
