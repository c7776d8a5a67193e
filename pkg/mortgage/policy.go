package mortgage

import (
	"fmt"

	"github.com/iwvelando/hypothekenrechner/pkg/constants"
	"github.com/shopspring/decimal"
)

// RateMode selects how tier rates are derived.
type RateMode string

const (
	// RateModeSingle applies one shared rate to every tier.
	RateModeSingle RateMode = constants.RateModeSingle
	// RateModeTiered prices the second mortgage separately from the first.
	RateModeTiered RateMode = constants.RateModeTiered
)

// TierBasis selects what the tier fractions are applied to.
type TierBasis string

const (
	// TierBasisLoan applies the tier fractions to the loan amount.
	TierBasisLoan TierBasis = constants.TierBasisLoan
	// TierBasisLTV treats the tier fractions as loan-to-value bands of the
	// purchase price; the second tier takes the rest of the loan.
	TierBasisLTV TierBasis = constants.TierBasisLTV
)

// Policy holds every tunable constant of the financing calculation.
//
// In SINGLE mode both tiers use SingleRate when it is set and the product's
// table rate otherwise. In TIERED mode the first tier uses Tier1Rate or the
// product's table rate, the second tier uses Tier2Rate or the first-tier
// base rate plus Tier2Premium. All rates are annual percentages.
type Policy struct {
	RateMode  RateMode  `json:"rateMode"`
	TierBasis TierBasis `json:"tierBasis"`

	Tier1Fraction decimal.Decimal `json:"tier1Fraction"`
	Tier2Fraction decimal.Decimal `json:"tier2Fraction"`

	SingleRate   decimal.NullDecimal `json:"singleRate"`
	Tier1Rate    decimal.NullDecimal `json:"tier1Rate"`
	Tier2Rate    decimal.NullDecimal `json:"tier2Rate"`
	Tier2Premium decimal.Decimal     `json:"tier2Premium"`

	AncillaryCostFraction          decimal.Decimal `json:"ancillaryCostFraction"`
	AffordabilityThresholdFraction decimal.Decimal `json:"affordabilityThresholdFraction"`
}

// DefaultPolicy returns the conventional Swiss structuring: 66 % interest-only
// first mortgage, 14 % amortizing second mortgage priced one point above the
// product rate, 1 % ancillary costs and the one-third-of-income rule.
func DefaultPolicy() Policy {
	return Policy{
		RateMode:                       RateModeTiered,
		TierBasis:                      TierBasisLoan,
		Tier1Fraction:                  decimal.RequireFromString(constants.DefaultTier1Fraction),
		Tier2Fraction:                  decimal.RequireFromString(constants.DefaultTier2Fraction),
		Tier2Premium:                   decimal.RequireFromString(constants.DefaultTier2Premium),
		AncillaryCostFraction:          decimal.RequireFromString(constants.DefaultAncillaryCostFraction),
		AffordabilityThresholdFraction: decimal.RequireFromString(constants.DefaultAffordabilityThresholdFraction),
	}
}

// LoanToValueCap is the highest loan-to-value ratio covered by the two tiers.
func (p Policy) LoanToValueCap() decimal.Decimal {
	return p.Tier1Fraction.Add(p.Tier2Fraction)
}

// NeedsTableRate reports whether the product rate must be looked up.
func (p Policy) NeedsTableRate() bool {
	if p.RateMode == RateModeSingle {
		return !p.SingleRate.Valid
	}
	return !p.Tier1Rate.Valid || !p.Tier2Rate.Valid
}

// Validate checks the policy for internally consistent values.
func (p Policy) Validate() error {
	switch p.RateMode {
	case RateModeSingle, RateModeTiered:
	default:
		return fmt.Errorf("unknown rate mode %q", p.RateMode)
	}
	switch p.TierBasis {
	case TierBasisLoan, TierBasisLTV:
	default:
		return fmt.Errorf("unknown tier basis %q", p.TierBasis)
	}

	one := decimal.NewFromInt(1)
	if p.Tier1Fraction.IsNegative() || p.Tier2Fraction.IsNegative() {
		return fmt.Errorf("tier fractions must not be negative")
	}
	if p.LoanToValueCap().GreaterThan(one) {
		return fmt.Errorf("tier fractions must not exceed 1 in total, got %s", p.LoanToValueCap())
	}
	if p.AncillaryCostFraction.IsNegative() {
		return fmt.Errorf("ancillary cost fraction must not be negative")
	}
	if !p.AffordabilityThresholdFraction.IsPositive() || p.AffordabilityThresholdFraction.GreaterThan(one) {
		return fmt.Errorf("affordability threshold fraction must be in (0, 1], got %s", p.AffordabilityThresholdFraction)
	}
	if p.Tier2Premium.IsNegative() {
		return fmt.Errorf("tier 2 premium must not be negative")
	}
	for _, rate := range []struct {
		name  string
		value decimal.NullDecimal
	}{
		{"single rate", p.SingleRate},
		{"tier 1 rate", p.Tier1Rate},
		{"tier 2 rate", p.Tier2Rate},
	} {
		if rate.value.Valid && rate.value.Decimal.IsNegative() {
			return fmt.Errorf("%s must not be negative, got %s", rate.name, rate.value.Decimal)
		}
	}
	return nil
}
