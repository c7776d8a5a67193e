// Package output provides utilities for formatting and displaying calculation results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/iwvelando/hypothekenrechner/internal/calculation"
	"github.com/iwvelando/hypothekenrechner/pkg/constants"
)

// keyWidth aligns the pretty table columns.
const keyWidth = 26

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(results []calculation.Calculation) {
	for i, result := range results {
		fmt.Printf("--- Results for application %s ---\n", result.Name)
		fmt.Printf("%-*s | Value\n", keyWidth, "Field")
		fmt.Printf("%-*s | _____\n", keyWidth, "_____")
		for _, field := range result.Result.Fields() {
			fmt.Printf("%-*s | %s\n", keyWidth, field.Key, field.Value)
		}
		for _, warning := range result.Warnings {
			fmt.Printf("WARNING: %s\n", warning)
		}
		if len(results) > 1 && i < len(results)-1 {
			fmt.Printf("\n")
		}
	}
}

// CsvFormat outputs in comma-separated value format, one row per result field.
func CsvFormat(results []calculation.Calculation) error {
	w := csv.NewWriter(os.Stdout)
	if err := w.Write([]string{"application", "id", "field", "value"}); err != nil {
		return err
	}
	for _, result := range results {
		for _, field := range result.Result.Fields() {
			if err := w.Write([]string{result.Name, result.ID, field.Key, field.Value}); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// JSONFormat outputs the full calculations as indented JSON.
func JSONFormat(results []calculation.Calculation) error {
	if results == nil {
		results = []calculation.Calculation{}
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

// Print writes results in the given format.
func Print(outputFormat string, results []calculation.Calculation) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return CsvFormat(results)
	case constants.OutputFormatJSON:
		return JSONFormat(results)
	default:
		PrettyFormat(results)
		return nil
	}
}
