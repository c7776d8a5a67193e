package mortgage

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwvelando/hypothekenrechner/pkg/rates"
	"github.com/iwvelando/hypothekenrechner/pkg/validation"
	"go.uber.org/zap"
)

// Validate checks the inputs and reports the first violated precondition.
func (in FinancingInputs) Validate() error {
	if !in.PurchasePrice.IsPositive() {
		return validation.Errorf("purchasePrice", "must be positive, got %s", in.PurchasePrice)
	}
	for _, component := range in.Equity {
		if component.Amount.Valid && component.Amount.Decimal.IsNegative() {
			return validation.Errorf("equity."+component.Name, "must not be negative, got %s", component.Amount.Decimal)
		}
	}
	if in.GrossAnnualIncome.IsNegative() {
		return validation.Errorf("grossAnnualIncome", "must not be negative, got %s", in.GrossAnnualIncome)
	}
	if in.AmortizationYears <= 0 {
		return validation.Errorf("amortizationYears", "must be positive, got %d", in.AmortizationYears)
	}
	if in.Product == "" {
		return validation.Errorf("product", "is required")
	}
	if !in.Product.Valid() {
		return validation.Errorf("product", "is unknown: %s", in.Product)
	}
	return nil
}

// Evaluate runs equity aggregation, financing and affordability against a
// rate table snapshot. It is a pure function of its arguments.
func Evaluate(inputs FinancingInputs, table rates.Table, policy Policy) (FinancingResult, error) {
	if err := inputs.Validate(); err != nil {
		return FinancingResult{}, err
	}

	totalEquity, err := AggregateEquity(inputs.Equity)
	if err != nil {
		return FinancingResult{}, err
	}

	result, err := ComputeFinancing(inputs.PurchasePrice, totalEquity, table, inputs.Product, inputs.AmortizationYears, policy)
	if err != nil {
		return FinancingResult{}, err
	}

	affordability, err := EvaluateAffordability(result.TotalAnnualCost, inputs.GrossAnnualIncome, policy.AffordabilityThresholdFraction)
	if err != nil {
		return FinancingResult{}, err
	}
	result.AffordabilityThreshold = affordability.Threshold
	result.AffordabilityMargin = affordability.Margin
	result.IsAffordable = affordability.IsAffordable

	return result, nil
}

// Calculator binds a policy and a rate provider. It holds no per-request
// state and is safe for concurrent use.
type Calculator struct {
	logger   *zap.Logger
	provider rates.Provider
	policy   Policy
}

// NewCalculator creates a calculator after validating the policy.
func NewCalculator(logger *zap.Logger, provider rates.Provider, policy Policy) (*Calculator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if provider == nil && policy.NeedsTableRate() {
		return nil, errors.New("a rate provider is required unless the policy fixes every rate")
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	return &Calculator{logger: logger, provider: provider, policy: policy}, nil
}

// Policy returns the calculator's policy.
func (c *Calculator) Policy() Policy {
	return c.policy
}

// Calculate resolves the product rate through the provider and evaluates
// the inputs. Validation failures are returned as *validation.ValidationError.
func (c *Calculator) Calculate(ctx context.Context, inputs FinancingInputs) (FinancingResult, error) {
	if err := inputs.Validate(); err != nil {
		c.logger.Debug("rejected financing inputs",
			zap.String("op", "mortgage.Calculate"),
			zap.Error(err),
		)
		return FinancingResult{}, err
	}

	table := rates.Table{}
	if c.policy.NeedsTableRate() {
		rate, err := c.provider.ResolveRate(ctx, inputs.Product)
		if err != nil {
			return FinancingResult{}, fmt.Errorf("failed to resolve rate for %s: %w", inputs.Product, err)
		}
		table[inputs.Product] = rate
	}

	result, err := Evaluate(inputs, table, c.policy)
	if err != nil {
		return FinancingResult{}, err
	}

	c.logger.Debug(fmt.Sprintf("calculated financing for purchase price %s", inputs.PurchasePrice.StringFixed(2)),
		zap.String("op", "mortgage.Calculate"),
		zap.String("outcome", string(result.Outcome)),
		zap.String("product", string(inputs.Product)),
		zap.String("loanAmount", result.LoanAmount.StringFixed(2)),
		zap.String("totalAnnualCost", result.TotalAnnualCost.StringFixed(2)),
		zap.Bool("affordable", result.IsAffordable),
	)
	if result.ExceedsLoanToValueCap {
		c.logger.Warn("loan exceeds the loan-to-value cap",
			zap.String("op", "mortgage.Calculate"),
			zap.String("loanToValue", result.LoanToValue.StringFixed(4)),
			zap.String("cap", c.policy.LoanToValueCap().String()),
		)
	}

	return result, nil
}
