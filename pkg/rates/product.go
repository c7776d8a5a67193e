// Package rates defines the mortgage rate products and the providers that
// resolve an annual interest rate for them.
package rates

import (
	"fmt"
	"strings"
)

// Product identifies a mortgage interest-rate product.
type Product string

const (
	// Variable is the SARON-based floating rate mortgage.
	Variable Product = "VARIABLE"
	// FixedShort is the 5-year fixed rate mortgage.
	FixedShort Product = "FIXED_SHORT"
	// FixedLong is the 10-year fixed rate mortgage.
	FixedLong Product = "FIXED_LONG"
)

// Products lists every known product in display order.
var Products = []Product{Variable, FixedShort, FixedLong}

var productAliases = map[string]Product{
	"variable":    Variable,
	"saron":       Variable,
	"fixed_short": FixedShort,
	"fest5":       FixedShort,
	"fixed_long":  FixedLong,
	"fest10":      FixedLong,
}

var productLabels = map[Product]string{
	Variable:   "SARON",
	FixedShort: "5 Jahre Festhypothek",
	FixedLong:  "10 Jahre Festhypothek",
}

// ParseProduct accepts the canonical product names as well as the short
// form identifiers (saron, fest5, fest10), case-insensitively.
func ParseProduct(value string) (Product, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	if product, ok := productAliases[key]; ok {
		return product, nil
	}
	return "", fmt.Errorf("%w: unknown rate product %q", ErrRateNotFound, value)
}

// Valid reports whether p is one of the known products.
func (p Product) Valid() bool {
	_, ok := productLabels[p]
	return ok
}

// Label returns the display name of the product.
func (p Product) Label() string {
	if label, ok := productLabels[p]; ok {
		return label
	}
	return string(p)
}

// UnmarshalText lets JSON and YAML documents use any accepted product alias.
func (p *Product) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*p = ""
		return nil
	}
	parsed, err := ParseProduct(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
