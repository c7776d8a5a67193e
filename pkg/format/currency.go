// Package format renders amounts and rates for reports and tables.
package format

import (
	"github.com/iwvelando/hypothekenrechner/pkg/constants"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency returns a currency string with the CHF code and thousands separators (e.g., "CHF -1,234.56").
func Currency(amount decimal.Decimal) string {
	return constants.CurrencyCode + " " + NumericCurrency(amount)
}

// NumericCurrency returns a currency string without a currency code but with separators (e.g., "-1,234.56").
func NumericCurrency(amount decimal.Decimal) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%.2f", amount.Round(constants.CurrencyPlaces).InexactFloat64())
}

// Percent renders an annual rate given in percent (e.g., "1.25%").
func Percent(rate decimal.Decimal) string {
	return rate.StringFixed(2) + "%"
}

// Fraction renders a plain fraction as a percentage (e.g., 0.8 -> "80.00%").
func Fraction(value decimal.Decimal) string {
	return Percent(value.Mul(decimal.NewFromInt(constants.PercentageMultiplier)))
}
