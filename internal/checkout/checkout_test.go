package checkout

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource struct {
	values []int64
	calls  int
}

func (f *fixedSource) Int63n(n int64) int64 {
	v := f.values[f.calls%len(f.values)]
	f.calls++
	return v % n
}

func TestInstructions_Deterministic(t *testing.T) {
	// Arrange
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	gen := NewGenerator("Wema Bank", "945", 24*time.Hour, &fixedSource{values: []int64{234_567_890}})

	// Act
	ins, err := gen.Instructions("SP0001", decimal.NewFromInt(25000), now)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "SP0001", ins.PlanID)
	assert.Equal(t, "1234567890", ins.VirtualAccount)
	assert.Equal(t, "Wema Bank", ins.BankName)
	assert.Equal(t, "*945*000*1234567890*25000#", ins.USSDCode)
	assert.True(t, ins.Amount.Equal(decimal.NewFromInt(25000)))
	assert.Equal(t, now.Add(24*time.Hour), ins.ExpiresAt)
	_, err = uuid.Parse(ins.Reference)
	assert.NoError(t, err)
}

func TestInstructions_FractionalAmountRoundsUpInUSSD(t *testing.T) {
	gen := NewGenerator("Wema Bank", "945", time.Hour, &fixedSource{values: []int64{0}})

	ins, err := gen.Instructions("SP0001", decimal.RequireFromString("2400.50"), time.Now())

	require.NoError(t, err)
	assert.Equal(t, "1000000000", ins.VirtualAccount)
	assert.Equal(t, "*945*000*1000000000*2401#", ins.USSDCode)
	assert.Equal(t, "2400.5", ins.Amount.String())
}

func TestInstructions_RejectsNonPositiveAmount(t *testing.T) {
	gen := NewGenerator("Wema Bank", "945", time.Hour, &fixedSource{values: []int64{1}})

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-100)} {
		ins, err := gen.Instructions("SP0001", amount, time.Now())
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Nil(t, ins)
	}
}

func TestInstructions_ReferencesAreUnique(t *testing.T) {
	gen := NewGenerator("Wema Bank", "945", time.Hour, &fixedSource{values: []int64{5}})

	a, err := gen.Instructions("SP0001", decimal.NewFromInt(100), time.Now())
	require.NoError(t, err)
	b, err := gen.Instructions("SP0001", decimal.NewFromInt(100), time.Now())
	require.NoError(t, err)

	assert.NotEqual(t, a.Reference, b.Reference)
}

func TestCryptoSource_ProducesTenDigitAccounts(t *testing.T) {
	gen := NewGenerator("Wema Bank", "945", time.Hour, nil)
	tenDigits := regexp.MustCompile(`^[1-9][0-9]{9}$`)

	for i := 0; i < 50; i++ {
		ins, err := gen.Instructions("SP0001", decimal.NewFromInt(1), time.Now())
		require.NoError(t, err)
		assert.Regexp(t, tenDigits, ins.VirtualAccount)
	}
}
