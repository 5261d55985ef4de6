package installment

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrUnknownCurrency = errors.New("unknown currency code")

// CurrencyFormatter renders an amount for display.
type CurrencyFormatter interface {
	Format(amount decimal.Decimal, currencyCode string) (string, error)
}

// symbols keeps the narrow symbols for the markets we bill in. Other ISO codes
// fall back to "<CODE> ".
var symbols = map[string]string{
	"NGN": "₦",
	"GHS": "GH₵",
	"KES": "KSh",
	"ZAR": "R",
	"USD": "$",
	"GBP": "£",
	"EUR": "€",
}

// LocaleFormatter formats whole currency amounts with the digit grouping of a locale.
type LocaleFormatter struct {
	printer *message.Printer
}

func NewLocaleFormatter(tag language.Tag) *LocaleFormatter {
	return &LocaleFormatter{printer: message.NewPrinter(tag)}
}

// Format rounds amount to whole units and renders it with the currency symbol,
// e.g. "₦1,500,000".
func (f *LocaleFormatter) Format(amount decimal.Decimal, currencyCode string) (string, error) {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, currencyCode)
	}

	symbol, ok := symbols[unit.String()]
	if !ok {
		symbol = unit.String() + " "
	}

	whole := amount.Round(0).IntPart()
	if whole < 0 {
		return "-" + symbol + f.printer.Sprintf("%d", -whole), nil
	}
	return symbol + f.printer.Sprintf("%d", whole), nil
}

var defaultFormatter = NewLocaleFormatter(language.English)

// FormatCurrency formats amount with English digit grouping and no minor units.
func FormatCurrency(amount decimal.Decimal, currencyCode string) (string, error) {
	return defaultFormatter.Format(amount, currencyCode)
}
