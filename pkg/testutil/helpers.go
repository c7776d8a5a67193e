// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/hypothekenrechner/internal/calculation"
)

// FindCalculation finds a calculation by name in the results slice.
// Returns a pointer to the calculation if found, nil otherwise.
func FindCalculation(results []calculation.Calculation, name string) *calculation.Calculation {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// RequireCalculation is FindCalculation for tests that cannot continue
// without the named calculation. The failure lists the names that were
// calculated.
func RequireCalculation(tb testing.TB, results []calculation.Calculation, name string) *calculation.Calculation {
	tb.Helper()
	if found := FindCalculation(results, name); found != nil {
		return found
	}
	names := make([]string, 0, len(results))
	for _, result := range results {
		names = append(names, result.Name)
	}
	tb.Fatalf("calculation %q not found, have %q", name, names)
	return nil
}
