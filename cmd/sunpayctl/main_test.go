package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunpay/installment-service/internal/installment"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestProgressCommand(t *testing.T) {
	out, err := execute(t, "progress",
		"--unlock", "1500000", "--minimum", "25000", "--paid", "600000",
		"--due", "2026-10-28", "--today", "2026-10-18")

	require.NoError(t, err)
	assert.Contains(t, out, "₦1,500,000")
	assert.Contains(t, out, "₦900,000")
	assert.Contains(t, out, "40.00%")
	assert.Contains(t, out, "24 of 60")
	assert.Contains(t, out, "2 years, 11 months, 20 days (1080 days)")
	assert.Contains(t, out, "in 10 days")
	assert.NotContains(t, out, "Overpayment")
}

func TestProgressCommand_Overpaid(t *testing.T) {
	out, err := execute(t, "progress", "--unlock", "153000", "--minimum", "2400", "--paid", "160000")

	require.NoError(t, err)
	assert.Contains(t, out, "Overpayment")
	assert.Contains(t, out, "₦7,000")
	assert.Contains(t, out, "100.00%")
	assert.Contains(t, out, "Plan fully paid")
}

func TestProgressCommand_NearlyPaidShowsBelowComplete(t *testing.T) {
	out, err := execute(t, "progress", "--unlock", "100000", "--minimum", "2500", "--paid", "99997")

	require.NoError(t, err)
	assert.Contains(t, out, "99.99%")
	assert.NotContains(t, out, "100.00%")
}

func TestProgressCommand_Rejections(t *testing.T) {
	_, err := execute(t, "progress", "--unlock", "153000", "--minimum", "0")
	assert.ErrorIs(t, err, installment.ErrInvalidPlanParameters)

	_, err = execute(t, "progress", "--unlock", "abc", "--minimum", "2400")
	assert.ErrorContains(t, err, "invalid --unlock")

	_, err = execute(t, "progress", "--unlock", "153000", "--minimum", "2400", "--currency", "NAIRA")
	assert.ErrorIs(t, err, installment.ErrUnknownCurrency)

	_, err = execute(t, "progress", "--minimum", "2400")
	assert.Error(t, err)
}

func TestTermCommand(t *testing.T) {
	out, err := execute(t, "term", "420")
	require.NoError(t, err)
	assert.Equal(t, "1 year, 1 month, 25 days\n", out)

	_, err = execute(t, "term", "many")
	assert.ErrorContains(t, err, "days must be an integer")
}

func TestDescribeDue(t *testing.T) {
	assert.Equal(t, "today", describeDue(0))
	assert.Equal(t, "in 1 day", describeDue(1))
	assert.Equal(t, "in 3 days", describeDue(3))
	assert.Equal(t, "1 day overdue", describeDue(-1))
	assert.Equal(t, "4 days overdue", describeDue(-4))
}
