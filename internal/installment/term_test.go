package installment

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanReadableTerm(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{0, "0 days"},
		{-10, "0 days"},
		{1, "1 day"},
		{29, "29 days"},
		{30, "1 month"},
		{31, "1 month, 1 day"},
		{60, "2 months"},
		{364, "12 months, 4 days"},
		{365, "1 year"},
		{366, "1 year, 1 day"},
		{395, "1 year, 1 month"},
		{420, "1 year, 1 month, 25 days"},
		{730, "2 years"},
		{1800, "4 years, 11 months, 10 days"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanReadableTerm(tt.days))
		})
	}
}

// parseTerm reads a rendered term back into days.
func parseTerm(t *testing.T, term string) int {
	t.Helper()

	unitDays := map[string]int{
		"year": DaysPerYear, "years": DaysPerYear,
		"month": DaysPerPeriod, "months": DaysPerPeriod,
		"day": 1, "days": 1,
	}

	total := 0
	for _, part := range strings.Split(term, ", ") {
		fields := strings.Fields(part)
		require.Len(t, fields, 2, "component %q of %q", part, term)

		n, err := strconv.Atoi(fields[0])
		require.NoError(t, err, term)

		size, ok := unitDays[fields[1]]
		require.True(t, ok, "unknown unit in %q", term)
		assert.Equal(t, n == 1, !strings.HasSuffix(fields[1], "s"), "plural mismatch in %q", term)
		if fields[1] == "day" || fields[1] == "days" {
			assert.Less(t, n, DaysPerPeriod, term)
		}

		total += n * size
	}
	return total
}

func TestHumanReadableTerm_ComponentsAddUp(t *testing.T) {
	for days := 0; days < 3*DaysPerYear; days++ {
		term := HumanReadableTerm(days)
		assert.Equal(t, days, parseTerm(t, term), "%d rendered as %q", days, term)
	}
}

func TestDaysUntilDue_IgnoresSubMillisecondDrift(t *testing.T) {
	today := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysUntilDue(today, today.Add(500*time.Microsecond)))
	assert.Equal(t, 1, DaysUntilDue(today, today.Add(time.Millisecond)))
}

func TestNextDueDate(t *testing.T) {
	activation := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC), NextDueDate(activation, 0))
	assert.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), NextDueDate(activation, 1))
	assert.Equal(t, NextDueDate(activation, 0), NextDueDate(activation, -3))
}
