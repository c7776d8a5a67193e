// Package mortgage computes Swiss residential mortgage financing figures:
// total equity, the loan and its split into an interest-only first mortgage
// and an amortizing second mortgage, the yearly carrying costs and the
// affordability verdict against gross income.
package mortgage

import (
	"strconv"
	"strings"

	"github.com/iwvelando/hypothekenrechner/pkg/format"
	"github.com/iwvelando/hypothekenrechner/pkg/mathutil"
	"github.com/iwvelando/hypothekenrechner/pkg/rates"
	"github.com/shopspring/decimal"
)

// Common equity component names.
const (
	EquityOwnFunds = "eigenkapital"
	EquityCash     = "cash"
	EquityPillar2  = "saule2"
	EquityPillar3  = "saule3"
)

// EquityComponent is one declared source of capital. An absent amount counts as zero.
type EquityComponent struct {
	Name   string              `json:"name"`
	Amount decimal.NullDecimal `json:"amount"`
}

// FinancingInputs are the buyer's figures for one calculation.
type FinancingInputs struct {
	PurchasePrice     decimal.Decimal   `json:"purchasePrice"`
	Equity            []EquityComponent `json:"equity"`
	GrossAnnualIncome decimal.Decimal   `json:"grossAnnualIncome"`
	AmortizationYears int               `json:"amortizationYears"`
	Product           rates.Product     `json:"product"`
}

// Outcome distinguishes a financed purchase from one fully covered by equity.
type Outcome string

const (
	OutcomeFinanced          Outcome = "FINANCED"
	OutcomeEquityCoversPrice Outcome = "EQUITY_COVERS_PRICE"
)

// Tier names.
const (
	TierFirst  = "FIRST"
	TierSecond = "SECOND"
)

// LoanTier is one mortgage tranche. AmortizationYears is nil for the
// interest-only first mortgage.
type LoanTier struct {
	Name              string          `json:"name"`
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent"`
	AmortizationYears *int            `json:"amortizationYears"`
}

// AnnualInterest is the yearly interest charged on the tier.
func (t LoanTier) AnnualInterest() decimal.Decimal {
	return mathutil.ApplyPercentage(t.Principal, t.AnnualRatePercent)
}

// FinancingResult is the complete output of one calculation.
type FinancingResult struct {
	Outcome              Outcome         `json:"outcome"`
	PurchasePrice        decimal.Decimal `json:"purchasePrice"`
	TotalEquity          decimal.Decimal `json:"totalEquity"`
	LoanAmount           decimal.Decimal `json:"loanAmount"`
	LoanToValue          decimal.Decimal `json:"loanToValue"`
	Tiers                []LoanTier      `json:"tiers"`
	UnallocatedPrincipal decimal.Decimal `json:"unallocatedPrincipal"`

	AnnualInterestCost     decimal.Decimal `json:"annualInterestCost"`
	AnnualAmortizationCost decimal.Decimal `json:"annualAmortizationCost"`
	AnnualAncillaryCost    decimal.Decimal `json:"annualAncillaryCost"`
	TotalAnnualCost        decimal.Decimal `json:"totalAnnualCost"`
	MonthlyCost            decimal.Decimal `json:"monthlyCost"`

	AffordabilityThreshold decimal.Decimal `json:"affordabilityThreshold"`
	AffordabilityMargin    decimal.Decimal `json:"affordabilityMargin"`
	IsAffordable           bool            `json:"isAffordable"`

	ExceedsLoanToValueCap bool            `json:"exceedsLoanToValueCap"`
	LoanAfterFirstYear    decimal.Decimal `json:"loanAfterFirstYear"`
}

// Tier returns the tier with the given name, if present.
func (r FinancingResult) Tier(name string) (LoanTier, bool) {
	for _, tier := range r.Tiers {
		if tier.Name == name {
			return tier, true
		}
	}
	return LoanTier{}, false
}

// Field is one rendered key/value pair of a result.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Fields renders the result as ordered plain key/value pairs.
func (r FinancingResult) Fields() []Field {
	fields := []Field{
		{"outcome", string(r.Outcome)},
		{"totalEquity", format.Currency(r.TotalEquity)},
		{"loanAmount", format.Currency(r.LoanAmount)},
		{"loanToValue", format.Fraction(r.LoanToValue)},
	}
	for _, tier := range r.Tiers {
		prefix := tierFieldPrefix(tier.Name)
		fields = append(fields,
			Field{prefix + "principal", format.Currency(tier.Principal)},
			Field{prefix + "rate", format.Percent(tier.AnnualRatePercent)},
		)
		if tier.AmortizationYears != nil {
			fields = append(fields, Field{prefix + "amortizationYears", strconv.Itoa(*tier.AmortizationYears)})
		}
	}
	if !mathutil.IsZero(r.UnallocatedPrincipal) {
		fields = append(fields, Field{"unallocatedPrincipal", format.Currency(r.UnallocatedPrincipal)})
	}
	return append(fields,
		Field{"annualInterestCost", format.Currency(r.AnnualInterestCost)},
		Field{"annualAmortizationCost", format.Currency(r.AnnualAmortizationCost)},
		Field{"annualAncillaryCost", format.Currency(r.AnnualAncillaryCost)},
		Field{"totalAnnualCost", format.Currency(r.TotalAnnualCost)},
		Field{"monthlyCost", format.Currency(r.MonthlyCost)},
		Field{"affordabilityThreshold", format.Currency(r.AffordabilityThreshold)},
		Field{"affordabilityMargin", format.Currency(r.AffordabilityMargin)},
		Field{"isAffordable", strconv.FormatBool(r.IsAffordable)},
		Field{"exceedsLoanToValueCap", strconv.FormatBool(r.ExceedsLoanToValueCap)},
		Field{"loanAfterFirstYear", format.Currency(r.LoanAfterFirstYear)},
	)
}

// tierFieldPrefix keys tier fields by tier name so a missing first tier does
// not shift the second mortgage into the tier1 slot.
func tierFieldPrefix(name string) string {
	switch name {
	case TierFirst:
		return "tier1."
	case TierSecond:
		return "tier2."
	default:
		return strings.ToLower(name) + "."
	}
}
