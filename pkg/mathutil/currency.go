// Package mathutil provides common mathematical utility functions on decimal amounts.
package mathutil

import (
	"github.com/iwvelando/hypothekenrechner/pkg/constants"
	"github.com/shopspring/decimal"
)

var (
	hundred        = decimal.NewFromInt(constants.PercentageMultiplier)
	currencyFactor = decimal.New(1, -constants.CurrencyPlaces)
)

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.CurrencyPlaces)
}

// IsZero checks if a value is effectively zero (within one cent)
func IsZero(val decimal.Decimal) bool {
	return val.Abs().LessThanOrEqual(currencyFactor)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance decimal.Decimal) bool {
	return val1.Sub(val2).Abs().LessThanOrEqual(tolerance)
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percent decimal.Decimal) decimal.Decimal {
	return value.Mul(percent).Div(hundred)
}

// Ratio returns value/total, or zero when total is zero.
func Ratio(value, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return value.Div(total)
}

// MinDecimal returns the smaller of two values.
func MinDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
