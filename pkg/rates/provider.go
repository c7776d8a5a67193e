package rates

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrRateNotFound is returned when no rate is known for a product.
var ErrRateNotFound = errors.New("rate not found")

// Provider resolves the current annual rate (in percent) for a product.
type Provider interface {
	ResolveRate(ctx context.Context, product Product) (decimal.Decimal, error)
}

// Snapshot resolves the given products, or all known products when none are
// given, into a read-only table.
func Snapshot(ctx context.Context, provider Provider, products ...Product) (Table, error) {
	if provider == nil {
		return nil, errors.New("no rate provider configured")
	}
	if len(products) == 0 {
		products = Products
	}

	table := make(Table, len(products))
	for _, product := range products {
		rate, err := provider.ResolveRate(ctx, product)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve rate for %s: %w", product, err)
		}
		table[product] = rate
	}
	return table, nil
}
