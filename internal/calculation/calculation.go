// Package calculation defines the data structures related to a financing
// calculation and includes functions for running the configured applications.
package calculation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/iwvelando/hypothekenrechner/internal/config"
	"github.com/iwvelando/hypothekenrechner/pkg/mortgage"
	"github.com/iwvelando/hypothekenrechner/pkg/validation"
	"go.uber.org/zap"
)

// Applicant identifies the buyer on reports.
type Applicant struct {
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	Age     int    `json:"age,omitempty" yaml:"age,omitempty"`
}

// Calculation holds all information related to one financing calculation.
type Calculation struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	Applicant Applicant                `json:"applicant"`
	Inputs    mortgage.FinancingInputs `json:"inputs"`
	Result    mortgage.FinancingResult `json:"result"`
	Warnings  []string                 `json:"warnings,omitempty"`
}

// Run evaluates one set of inputs and assigns the calculation a fresh id.
func Run(ctx context.Context, logger *zap.Logger, calculator *mortgage.Calculator, name string,
	applicant Applicant, inputs mortgage.FinancingInputs) (Calculation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	id := uuid.NewString()
	result, err := calculator.Calculate(ctx, inputs)
	if err != nil {
		logger.Debug(fmt.Sprintf("calculation %s failed", name),
			zap.String("op", "calculation.Run"),
			zap.String("id", id),
			zap.Error(err),
		)
		return Calculation{}, err
	}

	var warnings []string
	if result.ExceedsLoanToValueCap {
		warnings = append(warnings, validation.ValidateLoanToValue(name, result.PurchasePrice,
			result.TotalEquity, calculator.Policy().LoanToValueCap()))
	}
	if result.Outcome == mortgage.OutcomeEquityCoversPrice {
		warnings = append(warnings, fmt.Sprintf("Application '%s' is fully covered by equity - no mortgage required", name))
	}

	logger.Info(fmt.Sprintf("calculated %s", name),
		zap.String("op", "calculation.Run"),
		zap.String("id", id),
		zap.String("outcome", string(result.Outcome)),
		zap.Bool("affordable", result.IsAffordable),
	)

	return Calculation{
		ID:        id,
		Name:      name,
		Applicant: applicant,
		Inputs:    inputs,
		Result:    result,
		Warnings:  warnings,
	}, nil
}

// GetCalculations processes the calculations for all active applications.
func GetCalculations(ctx context.Context, logger *zap.Logger, conf config.Configuration,
	calculator *mortgage.Calculator) ([]Calculation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []Calculation
	for _, application := range conf.Applications {
		if !application.Active {
			logger.Debug(fmt.Sprintf("skipping application %s because it is inactive", application.Name),
				zap.String("op", "calculation.GetCalculations"),
			)
			continue
		}

		inputs, err := application.ToInputs()
		if err != nil {
			return results, fmt.Errorf("application %s: %w", application.Name, err)
		}

		applicant := Applicant{
			Name:    application.Name,
			Address: application.Address,
			Age:     application.Age,
		}
		result, err := Run(ctx, logger, calculator, application.Name, applicant, inputs)
		if err != nil {
			return results, fmt.Errorf("application %s: %w", application.Name, err)
		}
		results = append(results, result)
	}

	return results, nil
}
