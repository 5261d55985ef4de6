package installment

import (
	"fmt"
	"strings"
	"time"
)

const millisPerDay = 86_400_000

// HumanReadableTerm renders a day count as "1 year, 1 month, 25 days".
// Zero components are left out; a zero or negative count renders "0 days".
func HumanReadableTerm(days int) string {
	if days < 0 {
		days = 0
	}

	years := days / DaysPerYear
	rest := days % DaysPerYear
	months := rest / DaysPerPeriod
	rest %= DaysPerPeriod

	parts := make([]string, 0, 3)
	if years > 0 {
		parts = append(parts, pluralize(years, "year"))
	}
	if months > 0 {
		parts = append(parts, pluralize(months, "month"))
	}
	if rest > 0 {
		parts = append(parts, pluralize(rest, "day"))
	}

	if len(parts) == 0 {
		return "0 days"
	}
	return strings.Join(parts, ", ")
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// DaysUntilDue returns the whole days from today to due, rounded up.
// The result is negative when the due date has passed.
func DaysUntilDue(today, due time.Time) int {
	ms := due.Sub(today).Milliseconds()
	days := ms / millisPerDay
	if ms%millisPerDay > 0 {
		days++
	}
	return int(days)
}

// NextDueDate is the due date following paidInstallments whole installments
// counted from activation.
func NextDueDate(activation time.Time, paidInstallments int) time.Time {
	if paidInstallments < 0 {
		paidInstallments = 0
	}
	return activation.AddDate(0, 0, (paidInstallments+1)*DaysPerPeriod)
}
