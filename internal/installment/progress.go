// Package installment computes progress and term figures for installment plans.
//
// Every function in this package is pure: callers pass the plan snapshot and the
// current time, and receive raw numbers back. Formatting for display lives in
// FormatCurrency and HumanReadableTerm so each consumer can render independently.
package installment

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DaysPerPeriod is the length of one installment period. Periods are synthetic
// 30-day months, not calendar months.
const DaysPerPeriod = 30

// DaysPerYear is used only to decompose day counts for display.
const DaysPerYear = 365

var ErrInvalidPlanParameters = errors.New("invalid plan parameters")

var hundred = decimal.NewFromInt(100)

// percentPrecision keeps tiny payments against huge prices above zero.
const percentPrecision = 40

// Plan is a snapshot of an installment plan. Amounts are in major currency units.
type Plan struct {
	UnlockPrice    decimal.Decimal
	MinimumPayment decimal.Decimal
	TotalPaid      decimal.Decimal
	DueDate        time.Time // zero when the plan has no due date
}

// Report is the derived view of a Plan. It is recomputed on every read.
type Report struct {
	ProgressPercent       float64
	OutstandingBalance    decimal.Decimal
	Overpayment           decimal.Decimal
	PaidInstallments      int
	RemainingInstallments int
	TotalInstallments     int
	RemainingTermDays     int
	HumanReadableTerm     string
	DaysUntilDue          *int
}

// IsComplete reports whether nothing is left to pay.
func (r Report) IsComplete() bool {
	return r.OutstandingBalance.IsZero()
}

// HasOverpayment reports whether more than the unlock price was paid.
func (r Report) HasOverpayment() bool {
	return r.Overpayment.IsPositive()
}

// Validate checks the plan parameters the calculator divides by.
func (p Plan) Validate() error {
	if !p.UnlockPrice.IsPositive() {
		return fmt.Errorf("%w: unlock price must be positive, got %s", ErrInvalidPlanParameters, p.UnlockPrice)
	}
	if !p.MinimumPayment.IsPositive() {
		return fmt.Errorf("%w: minimum payment must be positive, got %s", ErrInvalidPlanParameters, p.MinimumPayment)
	}
	if p.TotalPaid.IsNegative() {
		return fmt.Errorf("%w: total paid must not be negative, got %s", ErrInvalidPlanParameters, p.TotalPaid)
	}
	return nil
}

// Compute builds the progress report for p as of today.
//
// A total paid above the unlock price is not an error: progress is clamped to
// 100, the balance to 0, and the excess is returned in Report.Overpayment.
func Compute(p Plan, today time.Time) (Report, error) {
	if err := p.Validate(); err != nil {
		return Report{}, err
	}

	outstanding := p.UnlockPrice.Sub(p.TotalPaid)
	overpayment := decimal.Zero
	if outstanding.IsNegative() {
		overpayment = outstanding.Neg()
		outstanding = decimal.Zero
	}

	remaining := ceilQuo(outstanding, p.MinimumPayment)

	report := Report{
		ProgressPercent:       progressPercent(p.TotalPaid, p.UnlockPrice),
		OutstandingBalance:    outstanding,
		Overpayment:           overpayment,
		PaidInstallments:      floorQuo(p.TotalPaid, p.MinimumPayment),
		RemainingInstallments: remaining,
		TotalInstallments:     ceilQuo(p.UnlockPrice, p.MinimumPayment),
		RemainingTermDays:     remaining * DaysPerPeriod,
	}
	report.HumanReadableTerm = HumanReadableTerm(report.RemainingTermDays)

	if !p.DueDate.IsZero() {
		days := DaysUntilDue(today, p.DueDate)
		report.DaysUntilDue = &days
	}

	return report, nil
}

func progressPercent(paid, unlockPrice decimal.Decimal) float64 {
	switch {
	case paid.IsZero():
		return 0
	case paid.GreaterThanOrEqual(unlockPrice):
		return 100
	}

	pct := paid.Mul(hundred).DivRound(unlockPrice, percentPrecision).InexactFloat64()
	// a partial payment never reads as complete or as nothing after rounding
	switch {
	case pct >= 100:
		pct = math.Nextafter(100, 0)
	case pct <= 0:
		pct = math.SmallestNonzeroFloat64
	}
	return pct
}

// FormatPercent renders pct with places decimals, truncating rather than
// rounding so a partial payment never displays as 100.
func FormatPercent(pct float64, places int32) string {
	return decimal.NewFromFloat(pct).Truncate(places).StringFixed(places) + "%"
}

// floorQuo returns floor(a / b) for a >= 0, b > 0.
func floorQuo(a, b decimal.Decimal) int {
	q, _ := a.QuoRem(b, 0)
	return int(q.IntPart())
}

// ceilQuo returns ceil(a / b) for a >= 0, b > 0.
func ceilQuo(a, b decimal.Decimal) int {
	q, r := a.QuoRem(b, 0)
	n := int(q.IntPart())
	if r.IsPositive() {
		n++
	}
	return n
}
