package mortgage

import (
	"github.com/iwvelando/hypothekenrechner/pkg/validation"
	"github.com/shopspring/decimal"
)

// Affordability is the debt-service-to-income verdict.
type Affordability struct {
	Threshold    decimal.Decimal
	Margin       decimal.Decimal
	IsAffordable bool
}

// EvaluateAffordability compares the yearly carrying cost with
// grossAnnualIncome * thresholdFraction. A cost exactly at the threshold is
// affordable. Margin is the remaining capacity and is negative when the cost
// exceeds the threshold.
func EvaluateAffordability(totalAnnualCost, grossAnnualIncome, thresholdFraction decimal.Decimal) (Affordability, error) {
	if grossAnnualIncome.IsNegative() {
		return Affordability{}, validation.Errorf("grossAnnualIncome", "must not be negative, got %s", grossAnnualIncome)
	}
	if !thresholdFraction.IsPositive() || thresholdFraction.GreaterThan(decimal.NewFromInt(1)) {
		return Affordability{}, validation.Errorf("thresholdFraction", "must be in (0, 1], got %s", thresholdFraction)
	}

	threshold := grossAnnualIncome.Mul(thresholdFraction)
	return Affordability{
		Threshold:    threshold,
		Margin:       threshold.Sub(totalAnnualCost),
		IsAffordable: totalAnnualCost.LessThanOrEqual(threshold),
	}, nil
}
