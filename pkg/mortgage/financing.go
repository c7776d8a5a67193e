package mortgage

import (
	"github.com/iwvelando/hypothekenrechner/pkg/constants"
	"github.com/iwvelando/hypothekenrechner/pkg/mathutil"
	"github.com/iwvelando/hypothekenrechner/pkg/rates"
	"github.com/iwvelando/hypothekenrechner/pkg/validation"
	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(constants.MonthsPerYear)

// ComputeFinancing derives the loan, its tiers and the yearly carrying costs.
// Affordability fields are left zero; see Evaluate for the full pipeline.
//
// When equity covers the purchase price the result has the
// OutcomeEquityCoversPrice outcome, no tiers and zero financing costs.
func ComputeFinancing(purchasePrice, totalEquity decimal.Decimal, table rates.Table, product rates.Product,
	amortizationYears int, policy Policy) (FinancingResult, error) {
	if !purchasePrice.IsPositive() {
		return FinancingResult{}, validation.Errorf("purchasePrice", "must be positive, got %s", purchasePrice)
	}
	if totalEquity.IsNegative() {
		return FinancingResult{}, validation.Errorf("totalEquity", "must not be negative, got %s", totalEquity)
	}
	if amortizationYears <= 0 {
		return FinancingResult{}, validation.Errorf("amortizationYears", "must be positive, got %d", amortizationYears)
	}
	if err := policy.Validate(); err != nil {
		return FinancingResult{}, &validation.ValidationError{Field: "policy", Reason: err.Error()}
	}

	loanAmount := purchasePrice.Sub(totalEquity)
	if !loanAmount.IsPositive() {
		return FinancingResult{
			Outcome:       OutcomeEquityCoversPrice,
			PurchasePrice: purchasePrice,
			TotalEquity:   totalEquity,
		}, nil
	}

	firstPrincipal, secondPrincipal := splitTiers(purchasePrice, loanAmount, policy)
	firstRate, secondRate, err := resolveTierRates(table, product, policy)
	if err != nil {
		return FinancingResult{}, err
	}

	var tiers []LoanTier
	if firstPrincipal.IsPositive() {
		tiers = append(tiers, LoanTier{
			Name:              TierFirst,
			Principal:         firstPrincipal,
			AnnualRatePercent: firstRate,
		})
	}
	if secondPrincipal.IsPositive() {
		years := amortizationYears
		tiers = append(tiers, LoanTier{
			Name:              TierSecond,
			Principal:         secondPrincipal,
			AnnualRatePercent: secondRate,
			AmortizationYears: &years,
		})
	}

	interest := decimal.Zero
	for _, tier := range tiers {
		interest = interest.Add(tier.AnnualInterest())
	}
	amortization := secondPrincipal.Div(decimal.NewFromInt(int64(amortizationYears)))
	ancillary := purchasePrice.Mul(policy.AncillaryCostFraction)
	total := interest.Add(amortization).Add(ancillary)
	loanToValue := mathutil.Ratio(loanAmount, purchasePrice)

	return FinancingResult{
		Outcome:                OutcomeFinanced,
		PurchasePrice:          purchasePrice,
		TotalEquity:            totalEquity,
		LoanAmount:             loanAmount,
		LoanToValue:            loanToValue,
		Tiers:                  tiers,
		UnallocatedPrincipal:   loanAmount.Sub(firstPrincipal).Sub(secondPrincipal),
		AnnualInterestCost:     interest,
		AnnualAmortizationCost: amortization,
		AnnualAncillaryCost:    ancillary,
		TotalAnnualCost:        total,
		MonthlyCost:            mathutil.Round(total.Div(monthsPerYear)),
		ExceedsLoanToValueCap:  loanToValue.GreaterThan(policy.LoanToValueCap()),
		LoanAfterFirstYear:     loanAmount.Sub(amortization),
	}, nil
}

// splitTiers returns the first and second mortgage principals.
func splitTiers(purchasePrice, loanAmount decimal.Decimal, policy Policy) (decimal.Decimal, decimal.Decimal) {
	if policy.TierBasis == TierBasisLTV {
		first := mathutil.MinDecimal(loanAmount, purchasePrice.Mul(policy.Tier1Fraction))
		return first, loanAmount.Sub(first)
	}
	return loanAmount.Mul(policy.Tier1Fraction), loanAmount.Mul(policy.Tier2Fraction)
}

// resolveTierRates picks the annual percentage for each tier.
func resolveTierRates(table rates.Table, product rates.Product, policy Policy) (decimal.Decimal, decimal.Decimal, error) {
	base := decimal.Zero
	if policy.NeedsTableRate() {
		if product == "" {
			return base, base, validation.Errorf("product", "is required")
		}
		rate, ok := table[product]
		if !ok {
			return base, base, validation.Errorf("product", "has no rate in the rate table: %s", product)
		}
		if rate.IsNegative() {
			return base, base, validation.Errorf("product", "rate must not be negative, got %s", rate)
		}
		base = rate
	}

	if policy.RateMode == RateModeSingle {
		if policy.SingleRate.Valid {
			return policy.SingleRate.Decimal, policy.SingleRate.Decimal, nil
		}
		return base, base, nil
	}

	first := base
	if policy.Tier1Rate.Valid {
		first = policy.Tier1Rate.Decimal
	}
	second := base.Add(policy.Tier2Premium)
	if policy.Tier2Rate.Valid {
		second = policy.Tier2Rate.Decimal
	}
	return first, second, nil
}
