package rates

import (
	"context"
	"fmt"

	"github.com/iwvelando/hypothekenrechner/pkg/constants"
	"github.com/shopspring/decimal"
)

// Table maps products to annual rates in percent (1.25 = 1.25 %/yr).
type Table map[Product]decimal.Decimal

// DefaultTable returns the built-in static rates.
func DefaultTable() Table {
	return Table{
		Variable:   decimal.RequireFromString(constants.DefaultVariableRate),
		FixedShort: decimal.RequireFromString(constants.DefaultFixedShortRate),
		FixedLong:  decimal.RequireFromString(constants.DefaultFixedLongRate),
	}
}

// ResolveRate implements Provider for a static table.
func (t Table) ResolveRate(_ context.Context, product Product) (decimal.Decimal, error) {
	rate, ok := t[product]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrRateNotFound, product)
	}
	return rate, nil
}

// Validate checks that every rate is non-negative and every product known.
func (t Table) Validate() error {
	for product, rate := range t {
		if !product.Valid() {
			return fmt.Errorf("unknown rate product %q", product)
		}
		if rate.IsNegative() {
			return fmt.Errorf("rate for %s must not be negative, got %s", product, rate)
		}
	}
	return nil
}
