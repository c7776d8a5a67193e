package mortgage

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/iwvelando/hypothekenrechner/pkg/mathutil"
	"github.com/iwvelando/hypothekenrechner/pkg/rates"
	"github.com/iwvelando/hypothekenrechner/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var tolerance = decimal.RequireFromString("0.000001")

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, mathutil.WithinTolerance(actual, d(expected), tolerance),
		append([]interface{}{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}

func equity(amounts ...string) []EquityComponent {
	names := []string{EquityOwnFunds, EquityCash, EquityPillar2, EquityPillar3}
	components := make([]EquityComponent, 0, len(amounts))
	for i, amount := range amounts {
		name := "other"
		if i < len(names) {
			name = names[i]
		}
		components = append(components, EquityComponent{Name: name, Amount: Amount(d(amount))})
	}
	return components
}

// scenarioPolicy prices the first tier at the product rate and the second
// tier at a fixed 6 %.
func scenarioPolicy() Policy {
	policy := DefaultPolicy()
	policy.RateMode = RateModeTiered
	policy.TierBasis = TierBasisLoan
	policy.Tier2Rate = Amount(d("6"))
	return policy
}

func TestAggregateEquity(t *testing.T) {
	tests := []struct {
		name       string
		components []EquityComponent
		expected   string
		wantErr    bool
	}{
		{
			name:       "All sources",
			components: equity("100000", "20000", "50000", "30000"),
			expected:   "200000",
		},
		{
			name:       "No components",
			components: nil,
			expected:   "0",
		},
		{
			name: "Absent components count as zero",
			components: []EquityComponent{
				{Name: EquityOwnFunds, Amount: Amount(d("100000"))},
				{Name: EquityCash},
				{Name: EquityPillar2},
			},
			expected: "100000",
		},
		{
			name:       "Negative component is rejected",
			components: equity("100000", "-1"),
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := AggregateEquity(tt.components)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, validation.IsValidationError(err))
				assert.Contains(t, err.Error(), "equity.cash")
				return
			}
			require.NoError(t, err)
			assertDecimal(t, tt.expected, total)
		})
	}
}

func TestAggregateEquityOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		components := make([]EquityComponent, 1+rng.Intn(6))
		for j := range components {
			components[j] = EquityComponent{
				Name:   "source",
				Amount: Amount(decimal.New(rng.Int63n(50000000), -2)),
			}
		}

		expected, err := AggregateEquity(components)
		require.NoError(t, err)

		shuffled := append([]EquityComponent(nil), components...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, err := AggregateEquity(shuffled)
		require.NoError(t, err)
		assert.True(t, expected.Equal(got), "sum changed with order: %s vs %s", expected, got)

		// Grouping the first half separately gives the same total.
		half := len(components) / 2
		left, err := AggregateEquity(components[:half])
		require.NoError(t, err)
		right, err := AggregateEquity(components[half:])
		require.NoError(t, err)
		assert.True(t, expected.Equal(left.Add(right)))
	}
}

func TestComputeFinancingScenarioTwoTierFixedSecondRate(t *testing.T) {
	result, err := ComputeFinancing(d("500000"), d("100000"), rates.DefaultTable(), rates.Variable, 20, scenarioPolicy())
	require.NoError(t, err)

	assert.Equal(t, OutcomeFinanced, result.Outcome)
	assertDecimal(t, "400000", result.LoanAmount)
	assertDecimal(t, "0.8", result.LoanToValue)
	require.Len(t, result.Tiers, 2)

	first, ok := result.Tier(TierFirst)
	require.True(t, ok)
	assertDecimal(t, "264000", first.Principal)
	assertDecimal(t, "1.25", first.AnnualRatePercent)
	assert.Nil(t, first.AmortizationYears)

	second, ok := result.Tier(TierSecond)
	require.True(t, ok)
	assertDecimal(t, "56000", second.Principal)
	assertDecimal(t, "6", second.AnnualRatePercent)
	require.NotNil(t, second.AmortizationYears)
	assert.Equal(t, 20, *second.AmortizationYears)

	assertDecimal(t, "6660", result.AnnualInterestCost)
	assertDecimal(t, "2800", result.AnnualAmortizationCost)
	assertDecimal(t, "5000", result.AnnualAncillaryCost)
	assertDecimal(t, "14460", result.TotalAnnualCost)
	assertDecimal(t, "1205", result.MonthlyCost)
	assertDecimal(t, "80000", result.UnallocatedPrincipal)
	assertDecimal(t, "397200", result.LoanAfterFirstYear)
	assert.False(t, result.ExceedsLoanToValueCap)
}

func TestComputeFinancingRateModes(t *testing.T) {
	tests := []struct {
		name             string
		policy           func() Policy
		expectedInterest string
		expectedRates    []string
	}{
		{
			name: "Single mode uses the product rate for both tiers",
			policy: func() Policy {
				p := DefaultPolicy()
				p.RateMode = RateModeSingle
				return p
			},
			expectedInterest: "4000", // 320000 * 1.25 %
			expectedRates:    []string{"1.25", "1.25"},
		},
		{
			name: "Single mode with an explicit shared rate",
			policy: func() Policy {
				p := DefaultPolicy()
				p.RateMode = RateModeSingle
				p.SingleRate = Amount(d("2"))
				return p
			},
			expectedInterest: "6400", // 320000 * 2 %
			expectedRates:    []string{"2", "2"},
		},
		{
			name:             "Tiered mode defaults to product rate plus premium",
			policy:           DefaultPolicy,
			expectedInterest: "4560", // 264000 * 1.25 % + 56000 * 2.25 %
			expectedRates:    []string{"1.25", "2.25"},
		},
		{
			name: "Tiered mode with fixed 5 % / 6 % rates",
			policy: func() Policy {
				p := DefaultPolicy()
				p.Tier1Rate = Amount(d("5"))
				p.Tier2Rate = Amount(d("6"))
				return p
			},
			expectedInterest: "16560", // 264000 * 5 % + 56000 * 6 %
			expectedRates:    []string{"5", "6"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputeFinancing(d("500000"), d("100000"), rates.DefaultTable(), rates.Variable, 20, tt.policy())
			require.NoError(t, err)
			assertDecimal(t, tt.expectedInterest, result.AnnualInterestCost)
			require.Len(t, result.Tiers, len(tt.expectedRates))
			for i, rate := range tt.expectedRates {
				assertDecimal(t, rate, result.Tiers[i].AnnualRatePercent)
			}
		})
	}
}

func TestComputeFinancingLTVBasis(t *testing.T) {
	policy := DefaultPolicy()
	policy.TierBasis = TierBasisLTV

	result, err := ComputeFinancing(d("500000"), d("100000"), rates.DefaultTable(), rates.FixedShort, 20, policy)
	require.NoError(t, err)
	require.Len(t, result.Tiers, 2)
	assertDecimal(t, "330000", result.Tiers[0].Principal)
	assertDecimal(t, "70000", result.Tiers[1].Principal)
	assertDecimal(t, "3500", result.AnnualAmortizationCost)
	assertDecimal(t, "0", result.UnallocatedPrincipal)

	// A loan inside the first band is a single interest-only tier.
	result, err = ComputeFinancing(d("500000"), d("300000"), rates.DefaultTable(), rates.FixedShort, 20, policy)
	require.NoError(t, err)
	require.Len(t, result.Tiers, 1)
	assert.Equal(t, TierFirst, result.Tiers[0].Name)
	assertDecimal(t, "200000", result.Tiers[0].Principal)
	assertDecimal(t, "0", result.AnnualAmortizationCost)
	assertDecimal(t, "3600", result.AnnualInterestCost) // 200000 * 1.8 %
}

func TestComputeFinancingAboveLoanToValueCap(t *testing.T) {
	policy := DefaultPolicy()
	policy.TierBasis = TierBasisLTV

	result, err := ComputeFinancing(d("500000"), d("50000"), rates.DefaultTable(), rates.Variable, 15, policy)
	require.NoError(t, err)
	assert.True(t, result.ExceedsLoanToValueCap)
	assertDecimal(t, "0.9", result.LoanToValue)
	require.Len(t, result.Tiers, 2)
	assertDecimal(t, "120000", result.Tiers[1].Principal)
	assertDecimal(t, "8000", result.AnnualAmortizationCost)
}

func TestComputeFinancingEquityCoversPrice(t *testing.T) {
	for _, equityAmount := range []string{"350000", "300000"} {
		t.Run(equityAmount, func(t *testing.T) {
			result, err := ComputeFinancing(d("300000"), d(equityAmount), rates.DefaultTable(), rates.Variable, 20, DefaultPolicy())
			require.NoError(t, err)
			assert.Equal(t, OutcomeEquityCoversPrice, result.Outcome)
			assert.Empty(t, result.Tiers)
			assert.True(t, result.LoanAmount.IsZero())
			assert.False(t, result.LoanAmount.IsNegative())
			assert.True(t, result.TotalAnnualCost.IsZero())
			assertDecimal(t, equityAmount, result.TotalEquity)
		})
	}
}

func TestComputeFinancingValidation(t *testing.T) {
	tests := []struct {
		name    string
		price   string
		equity  string
		table   rates.Table
		product rates.Product
		years   int
		field   string
	}{
		{"Zero amortization years", "500000", "100000", rates.DefaultTable(), rates.Variable, 0, "amortizationYears"},
		{"Negative amortization years", "500000", "100000", rates.DefaultTable(), rates.Variable, -5, "amortizationYears"},
		{"Amortization years checked even when equity covers price", "300000", "350000", rates.DefaultTable(), rates.Variable, 0, "amortizationYears"},
		{"Zero purchase price", "0", "0", rates.DefaultTable(), rates.Variable, 20, "purchasePrice"},
		{"Negative equity", "500000", "-1", rates.DefaultTable(), rates.Variable, 20, "totalEquity"},
		{"Product missing from table", "500000", "100000", rates.Table{}, rates.FixedLong, 20, "product"},
		{"Product not given", "500000", "100000", rates.DefaultTable(), "", 20, "product"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputeFinancing(d(tt.price), d(tt.equity), tt.table, tt.product, tt.years, DefaultPolicy())
			require.Error(t, err)
			var validationErr *validation.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Equal(t, FinancingResult{}, result)
		})
	}
}

func TestComputeFinancingProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		price := decimal.NewFromInt(100000 + rng.Int63n(2900000))
		equityAmount := decimal.NewFromInt(rng.Int63n(price.IntPart()))
		years := 1 + rng.Intn(30)
		product := rates.Products[rng.Intn(len(rates.Products))]

		for _, basis := range []TierBasis{TierBasisLoan, TierBasisLTV} {
			policy := DefaultPolicy()
			policy.TierBasis = basis

			result, err := ComputeFinancing(price, equityAmount, rates.DefaultTable(), product, years, policy)
			require.NoError(t, err)
			require.Equal(t, OutcomeFinanced, result.Outcome)

			tierSum := decimal.Zero
			for _, tier := range result.Tiers {
				tierSum = tierSum.Add(tier.Principal)
			}
			if basis == TierBasisLTV {
				assert.True(t, mathutil.WithinTolerance(tierSum, result.LoanAmount, tolerance),
					"tiers %s do not sum to loan %s", tierSum, result.LoanAmount)
			}
			assert.True(t, mathutil.WithinTolerance(tierSum.Add(result.UnallocatedPrincipal), result.LoanAmount, tolerance))

			second, ok := result.Tier(TierSecond)
			if !ok {
				assert.True(t, result.AnnualAmortizationCost.IsZero())
				continue
			}
			recovered := result.AnnualAmortizationCost.Mul(decimal.NewFromInt(int64(years)))
			assert.True(t, mathutil.WithinTolerance(recovered, second.Principal, tolerance),
				"amortization %s * %d != %s", result.AnnualAmortizationCost, years, second.Principal)
		}
	}
}

func TestEvaluateAffordability(t *testing.T) {
	fraction := d("0.33")
	tests := []struct {
		name       string
		cost       string
		income     string
		threshold  string
		margin     string
		affordable bool
	}{
		{"Exactly at the threshold", "79200", "240000", "79200", "0", true},
		{"One cent above the threshold", "79200.01", "240000", "79200", "-0.01", false},
		{"Well below", "14460", "80000", "26400", "11940", true},
		{"Zero income, zero cost", "0", "0", "0", "0", true},
		{"Zero income, some cost", "1", "0", "0", "-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EvaluateAffordability(d(tt.cost), d(tt.income), fraction)
			require.NoError(t, err)
			assertDecimal(t, tt.threshold, result.Threshold)
			assertDecimal(t, tt.margin, result.Margin)
			assert.Equal(t, tt.affordable, result.IsAffordable)
		})
	}
}

func TestEvaluateAffordabilityValidation(t *testing.T) {
	_, err := EvaluateAffordability(d("1000"), d("-1"), d("0.33"))
	assert.True(t, validation.IsValidationError(err))

	_, err = EvaluateAffordability(d("1000"), d("100000"), d("0"))
	assert.True(t, validation.IsValidationError(err))

	_, err = EvaluateAffordability(d("1000"), d("100000"), d("1.5"))
	assert.True(t, validation.IsValidationError(err))
}

func TestEvaluateAffordabilityProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, fraction := range []decimal.Decimal{d("0.33"), d("0.25"), d("0.4")} {
		for i := 0; i < 100; i++ {
			income := decimal.New(rng.Int63n(50000000), -2)
			cost := decimal.New(rng.Int63n(20000000), -2)
			result, err := EvaluateAffordability(cost, income, fraction)
			require.NoError(t, err)
			assert.Equal(t, cost.LessThanOrEqual(income.Mul(fraction)), result.IsAffordable)
		}
	}
}

func TestEvaluate(t *testing.T) {
	inputs := FinancingInputs{
		PurchasePrice:     d("500000"),
		Equity:            equity("100000", "0", "0", "0"),
		GrossAnnualIncome: d("80000"),
		AmortizationYears: 20,
		Product:           rates.Variable,
	}

	result, err := Evaluate(inputs, rates.DefaultTable(), scenarioPolicy())
	require.NoError(t, err)
	assertDecimal(t, "100000", result.TotalEquity)
	assertDecimal(t, "14460", result.TotalAnnualCost)
	assertDecimal(t, "26400", result.AffordabilityThreshold)
	assertDecimal(t, "11940", result.AffordabilityMargin)
	assert.True(t, result.IsAffordable)

	inputs.GrossAnnualIncome = d("40000")
	result, err = Evaluate(inputs, rates.DefaultTable(), scenarioPolicy())
	require.NoError(t, err)
	assert.False(t, result.IsAffordable)
	assertDecimal(t, "-1260", result.AffordabilityMargin)
}

func TestEvaluateEquityCoversPrice(t *testing.T) {
	inputs := FinancingInputs{
		PurchasePrice:     d("300000"),
		Equity:            equity("200000", "50000", "50000", "50000"),
		GrossAnnualIncome: d("90000"),
		AmortizationYears: 15,
		Product:           rates.FixedLong,
	}

	result, err := Evaluate(inputs, rates.DefaultTable(), DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, OutcomeEquityCoversPrice, result.Outcome)
	assert.Empty(t, result.Tiers)
	assert.True(t, result.IsAffordable)
	assertDecimal(t, "350000", result.TotalEquity)
}

func TestFinancingInputsValidate(t *testing.T) {
	valid := FinancingInputs{
		PurchasePrice:     d("500000"),
		Equity:            equity("100000"),
		GrossAnnualIncome: d("80000"),
		AmortizationYears: 20,
		Product:           rates.Variable,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*FinancingInputs)
		field  string
	}{
		{"Missing purchase price", func(in *FinancingInputs) { in.PurchasePrice = decimal.Zero }, "purchasePrice"},
		{"Negative equity", func(in *FinancingInputs) { in.Equity = equity("100000", "-5") }, "equity.cash"},
		{"Negative income", func(in *FinancingInputs) { in.GrossAnnualIncome = d("-1") }, "grossAnnualIncome"},
		{"Zero amortization", func(in *FinancingInputs) { in.AmortizationYears = 0 }, "amortizationYears"},
		{"Missing product", func(in *FinancingInputs) { in.Product = "" }, "product"},
		{"Unknown product", func(in *FinancingInputs) { in.Product = "FIXED_20" }, "product"},
		{"First violation wins", func(in *FinancingInputs) {
			in.PurchasePrice = decimal.Zero
			in.AmortizationYears = 0
		}, "purchasePrice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs := valid
			inputs.Equity = append([]EquityComponent(nil), valid.Equity...)
			tt.mutate(&inputs)

			err := inputs.Validate()
			var validationErr *validation.ValidationError
			require.True(t, errors.As(err, &validationErr), "expected validation error, got %v", err)
			assert.Equal(t, tt.field, validationErr.Field)

			_, err = Evaluate(inputs, rates.DefaultTable(), DefaultPolicy())
			assert.True(t, validation.IsValidationError(err))
		})
	}
}

func TestPolicyValidate(t *testing.T) {
	require.NoError(t, DefaultPolicy().Validate())
	assertDecimal(t, "0.8", DefaultPolicy().LoanToValueCap())

	tests := []struct {
		name   string
		mutate func(*Policy)
	}{
		{"Unknown rate mode", func(p *Policy) { p.RateMode = "FLOATING" }},
		{"Unknown tier basis", func(p *Policy) { p.TierBasis = "PRICE" }},
		{"Negative fraction", func(p *Policy) { p.Tier2Fraction = d("-0.1") }},
		{"Fractions above one", func(p *Policy) { p.Tier1Fraction = d("0.9") }},
		{"Negative ancillary", func(p *Policy) { p.AncillaryCostFraction = d("-0.01") }},
		{"Zero threshold", func(p *Policy) { p.AffordabilityThresholdFraction = decimal.Zero }},
		{"Negative premium", func(p *Policy) { p.Tier2Premium = d("-1") }},
		{"Negative explicit rate", func(p *Policy) { p.Tier1Rate = Amount(d("-1")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := DefaultPolicy()
			tt.mutate(&policy)
			assert.Error(t, policy.Validate())
		})
	}
}

func TestPolicyNeedsTableRate(t *testing.T) {
	policy := DefaultPolicy()
	assert.True(t, policy.NeedsTableRate())

	policy.Tier1Rate = Amount(d("5"))
	assert.True(t, policy.NeedsTableRate())
	policy.Tier2Rate = Amount(d("6"))
	assert.False(t, policy.NeedsTableRate())

	policy.RateMode = RateModeSingle
	assert.True(t, policy.NeedsTableRate())
	policy.SingleRate = Amount(d("1.5"))
	assert.False(t, policy.NeedsTableRate())
}

type failingProvider struct{ err error }

func (f failingProvider) ResolveRate(context.Context, rates.Product) (decimal.Decimal, error) {
	return decimal.Zero, f.err
}

func TestCalculator(t *testing.T) {
	calculator, err := NewCalculator(zap.NewNop(), rates.DefaultTable(), scenarioPolicy())
	require.NoError(t, err)

	inputs := FinancingInputs{
		PurchasePrice:     d("500000"),
		Equity:            equity("100000", "0", "0", "0"),
		GrossAnnualIncome: d("80000"),
		AmortizationYears: 20,
		Product:           rates.Variable,
	}

	result, err := calculator.Calculate(context.Background(), inputs)
	require.NoError(t, err)
	assertDecimal(t, "6660", result.AnnualInterestCost)
	assertDecimal(t, "2800", result.AnnualAmortizationCost)

	inputs.AmortizationYears = 0
	_, err = calculator.Calculate(context.Background(), inputs)
	assert.True(t, validation.IsValidationError(err))
}

func TestCalculatorProviderFailure(t *testing.T) {
	lookupErr := errors.New("rate service unavailable")
	calculator, err := NewCalculator(nil, failingProvider{err: lookupErr}, DefaultPolicy())
	require.NoError(t, err)

	_, err = calculator.Calculate(context.Background(), FinancingInputs{
		PurchasePrice:     d("500000"),
		Equity:            equity("100000"),
		GrossAnnualIncome: d("80000"),
		AmortizationYears: 20,
		Product:           rates.FixedShort,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, lookupErr))
	assert.False(t, validation.IsValidationError(err))
}

func TestCalculatorWithoutProvider(t *testing.T) {
	_, err := NewCalculator(nil, nil, DefaultPolicy())
	assert.Error(t, err)

	policy := DefaultPolicy()
	policy.Tier1Rate = Amount(d("5"))
	policy.Tier2Rate = Amount(d("6"))
	calculator, err := NewCalculator(nil, nil, policy)
	require.NoError(t, err)

	result, err := calculator.Calculate(context.Background(), FinancingInputs{
		PurchasePrice:     d("500000"),
		Equity:            equity("100000"),
		GrossAnnualIncome: d("240000"),
		AmortizationYears: 20,
		Product:           rates.Variable,
	})
	require.NoError(t, err)
	assertDecimal(t, "16560", result.AnnualInterestCost)

	invalid := DefaultPolicy()
	invalid.RateMode = "OTHER"
	_, err = NewCalculator(nil, rates.DefaultTable(), invalid)
	assert.Error(t, err)
}

func TestFinancingResultFields(t *testing.T) {
	result, err := ComputeFinancing(d("500000"), d("100000"), rates.DefaultTable(), rates.Variable, 20, scenarioPolicy())
	require.NoError(t, err)

	values := make(map[string]string)
	for _, field := range result.Fields() {
		values[field.Key] = field.Value
	}

	assert.Equal(t, "CHF 400,000.00", values["loanAmount"])
	assert.Equal(t, "CHF 264,000.00", values["tier1.principal"])
	assert.Equal(t, "1.25%", values["tier1.rate"])
	assert.Equal(t, "6.00%", values["tier2.rate"])
	assert.Equal(t, "20", values["tier2.amortizationYears"])
	assert.Equal(t, "CHF 6,660.00", values["annualInterestCost"])
	assert.Equal(t, "CHF 1,205.00", values["monthlyCost"])
	assert.Equal(t, "80.00%", values["loanToValue"])
	assert.Contains(t, values, "isAffordable")
	assert.Contains(t, values, "affordabilityThreshold")
}

func TestFinancingResultFieldsSecondTierOnly(t *testing.T) {
	policy := scenarioPolicy()
	policy.Tier1Fraction = decimal.Zero

	result, err := ComputeFinancing(d("500000"), d("100000"), rates.DefaultTable(), rates.Variable, 20, policy)
	require.NoError(t, err)
	require.Len(t, result.Tiers, 1)

	values := make(map[string]string)
	for _, field := range result.Fields() {
		values[field.Key] = field.Value
	}

	assert.NotContains(t, values, "tier1.principal")
	assert.NotContains(t, values, "tier1.amortizationYears")
	assert.Equal(t, "CHF 56,000.00", values["tier2.principal"])
	assert.Equal(t, "6.00%", values["tier2.rate"])
	assert.Equal(t, "20", values["tier2.amortizationYears"])
	assert.Equal(t, "CHF 344,000.00", values["unallocatedPrincipal"])
}

func TestFinancingResultMonthlyCostRounded(t *testing.T) {
	inputs := FinancingInputs{
		PurchasePrice:     d("500000"),
		Equity:            equity("100000"),
		GrossAnnualIncome: d("80000"),
		AmortizationYears: 7,
		Product:           rates.Variable,
	}
	result, err := Evaluate(inputs, rates.DefaultTable(), scenarioPolicy())
	require.NoError(t, err)

	assert.LessOrEqual(t, -result.MonthlyCost.Exponent(), int32(2), "monthly cost %s", result.MonthlyCost)
	assert.True(t, mathutil.WithinTolerance(result.MonthlyCost.Mul(d("12")), result.TotalAnnualCost, d("0.06")))
}
