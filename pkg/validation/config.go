package validation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ApplicationConfig is the subset of a configured financing application
// needed to produce configuration warnings.
type ApplicationConfig struct {
	Name          string
	Active        bool
	PurchasePrice decimal.Decimal
	TotalEquity   decimal.Decimal
	Product       string
	ProductKnown  bool
}

// ConfigValidator checks configured applications against the financing policy.
type ConfigValidator struct {
	LoanToValueCap decimal.Decimal
	Applications   []ApplicationConfig
}

// ValidateLoanToValue warns when the requested loan exceeds the loan-to-value
// cap. Such applications are still calculated.
func ValidateLoanToValue(name string, purchasePrice, totalEquity, limit decimal.Decimal) string {
	if !purchasePrice.IsPositive() || !limit.IsPositive() {
		return ""
	}
	loan := purchasePrice.Sub(totalEquity)
	ltv := loan.Div(purchasePrice)
	if ltv.GreaterThan(limit) {
		return fmt.Sprintf("Application '%s' exceeds the loan-to-value cap (%s%% > %s%%) - calculated without a third tier",
			name, ltv.Shift(2).StringFixed(2), limit.Shift(2).StringFixed(2))
	}
	return ""
}

// ValidateAll validates the configured applications and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	seen := make(map[string]struct{})
	activeCount := 0
	for _, app := range cv.Applications {
		if _, dup := seen[app.Name]; dup {
			warnings = append(warnings, fmt.Sprintf("Application name '%s' is used more than once", app.Name))
		}
		seen[app.Name] = struct{}{}

		if !app.Active {
			continue
		}
		activeCount++

		if !app.ProductKnown {
			warnings = append(warnings, fmt.Sprintf("Application '%s' uses unknown rate product '%s'", app.Name, app.Product))
		}
		if warning := ValidateLoanToValue(app.Name, app.PurchasePrice, app.TotalEquity, cv.LoanToValueCap); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	if len(cv.Applications) > 0 && activeCount == 0 {
		warnings = append(warnings, "No active applications configured")
	}

	return warnings
}
