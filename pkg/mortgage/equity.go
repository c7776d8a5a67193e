package mortgage

import (
	"github.com/iwvelando/hypothekenrechner/pkg/validation"
	"github.com/shopspring/decimal"
)

// AggregateEquity sums the declared capital sources. Absent amounts count as
// zero; a negative amount is rejected.
func AggregateEquity(components []EquityComponent) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, component := range components {
		if !component.Amount.Valid {
			continue
		}
		if component.Amount.Decimal.IsNegative() {
			return decimal.Zero, validation.Errorf("equity."+component.Name,
				"must not be negative, got %s", component.Amount.Decimal)
		}
		total = total.Add(component.Amount.Decimal)
	}
	return total, nil
}

// Amount wraps a present equity amount.
func Amount(value decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: value, Valid: true}
}
