package installment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		code   string
		want   string
	}{
		{"naira millions", "1500000", "NGN", "₦1,500,000"},
		{"minor units dropped", "25000.40", "NGN", "₦25,000"},
		{"minor units round half up", "2399.50", "NGN", "₦2,400"},
		{"zero", "0", "NGN", "₦0"},
		{"negative", "-12500", "NGN", "-₦12,500"},
		{"lower case code", "900000", "ngn", "₦900,000"},
		{"dollars", "1234.56", "USD", "$1,235"},
		{"code without symbol", "1000", "JPY", "JPY 1,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatCurrency(decimal.RequireFromString(tt.amount), tt.code)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCurrency_UnknownCode(t *testing.T) {
	for _, code := range []string{"", "NAIRA", "N"} {
		got, err := FormatCurrency(decimal.NewFromInt(100), code)

		assert.ErrorIs(t, err, ErrUnknownCurrency)
		assert.Empty(t, got)
	}
}

func TestLocaleFormatter_ImplementsCurrencyFormatter(t *testing.T) {
	var f CurrencyFormatter = NewLocaleFormatter(language.English)

	got, err := f.Format(decimal.NewFromInt(144000), "NGN")

	require.NoError(t, err)
	assert.Equal(t, "₦144,000", got)
}
