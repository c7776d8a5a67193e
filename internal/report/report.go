// Package report renders a calculation as a Markdown document and as the
// HTML page offered for download.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/hypothekenrechner/internal/calculation"
	"github.com/iwvelando/hypothekenrechner/pkg/constants"
	"github.com/iwvelando/hypothekenrechner/pkg/format"
	"github.com/iwvelando/hypothekenrechner/pkg/mortgage"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Supported export formats.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

var (
	renderer     = goldmark.New(goldmark.WithExtensions(extension.Table))
	markdownMeta = strings.NewReplacer(`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`, "#", `\#`, "<", "&lt;", ">", "&gt;")
	unsafeChars  = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
)

// Markdown builds the report document for calc.
func Markdown(calc calculation.Calculation, generated time.Time) string {
	var b strings.Builder
	result := calc.Result

	b.WriteString("# Hypothekenrechner\n\n")
	fmt.Fprintf(&b, "Berechnung vom %s\n\n", generated.Format(constants.DateLayout))

	b.WriteString("## Angaben\n\n")
	fmt.Fprintf(&b, "- Name: %s\n", escape(calc.Applicant.Name))
	fmt.Fprintf(&b, "- Adresse: %s\n", escape(calc.Applicant.Address))
	if calc.Applicant.Age > 0 {
		fmt.Fprintf(&b, "- Alter: %d\n", calc.Applicant.Age)
	} else {
		b.WriteString("- Alter: \n")
	}
	fmt.Fprintf(&b, "- Kaufpreis: %s\n", format.Currency(result.PurchasePrice))
	fmt.Fprintf(&b, "- Hypothekentyp: %s\n", calc.Inputs.Product.Label())
	fmt.Fprintf(&b, "- Amortisation: %d Jahre\n", calc.Inputs.AmortizationYears)
	fmt.Fprintf(&b, "- Bruttoeinkommen: %s\n\n", format.Currency(calc.Inputs.GrossAnnualIncome))

	b.WriteString("## Finanzierung\n\n")
	b.WriteString("| Position | Betrag |\n| --- | ---: |\n")
	fmt.Fprintf(&b, "| Total Eigenkapital | %s |\n", format.Currency(result.TotalEquity))

	if result.Outcome == mortgage.OutcomeEquityCoversPrice {
		b.WriteString("\nDas Eigenkapital deckt den Kaufpreis, es ist keine Hypothek notwendig.\n\n")
	} else {
		fmt.Fprintf(&b, "| Hypothekarbetrag | %s |\n", format.Currency(result.LoanAmount))
		fmt.Fprintf(&b, "| Belehnung | %s |\n\n", format.Fraction(result.LoanToValue))

		b.WriteString("| Tranche | Betrag | Zinssatz | Amortisation |\n| --- | ---: | ---: | ---: |\n")
		for _, tier := range result.Tiers {
			amortization := "-"
			if tier.AmortizationYears != nil {
				amortization = strconv.Itoa(*tier.AmortizationYears) + " Jahre"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", tierLabel(tier.Name),
				format.Currency(tier.Principal), format.Percent(tier.AnnualRatePercent), amortization)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Kosten\n\n")
	b.WriteString("| Position | Pro Jahr |\n| --- | ---: |\n")
	fmt.Fprintf(&b, "| Zinskosten | %s |\n", format.Currency(result.AnnualInterestCost))
	fmt.Fprintf(&b, "| Amortisation | %s |\n", format.Currency(result.AnnualAmortizationCost))
	fmt.Fprintf(&b, "| Nebenkosten | %s |\n", format.Currency(result.AnnualAncillaryCost))
	fmt.Fprintf(&b, "| Total | %s |\n", format.Currency(result.TotalAnnualCost))
	fmt.Fprintf(&b, "| Pro Monat | %s |\n\n", format.Currency(result.MonthlyCost))

	b.WriteString("## Tragbarkeit\n\n")
	verdict := "nicht tragbar"
	if result.IsAffordable {
		verdict = "tragbar"
	}
	fmt.Fprintf(&b, "Die Finanzierung ist **%s**. Grenze: %s pro Jahr, Reserve: %s.\n",
		verdict, format.Currency(result.AffordabilityThreshold), format.Currency(result.AffordabilityMargin))

	if len(calc.Warnings) > 0 {
		b.WriteString("\n## Hinweise\n\n")
		for _, warning := range calc.Warnings {
			fmt.Fprintf(&b, "- %s\n", escape(warning))
		}
	}

	return b.String()
}

// HTML renders the report document as a standalone HTML page.
func HTML(calc calculation.Calculation, generated time.Time) ([]byte, error) {
	var body bytes.Buffer
	if err := renderer.Convert([]byte(Markdown(calc, generated)), &body); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html lang=\"de\">\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<title>Hypothekenrechner</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// FileName is the download name of an exported report.
func FileName(exportFormat string) string {
	if exportFormat == FormatMarkdown {
		return constants.ReportFileName + ".md"
	}
	return constants.ReportFileName + ".html"
}

// WriteHTML writes the HTML report for calc into dir and returns its path.
func WriteHTML(dir string, calc calculation.Calculation, generated time.Time) (string, error) {
	content, err := HTML(calc, generated)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	name := strings.Trim(unsafeChars.ReplaceAllString(calc.Name, "_"), "_")
	if name == "" {
		name = calc.ID
	}
	path := filepath.Join(dir, constants.ReportFileName+"_"+name+".html")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

func tierLabel(name string) string {
	switch name {
	case mortgage.TierFirst:
		return "1. Hypothek"
	case mortgage.TierSecond:
		return "2. Hypothek"
	}
	return name
}

func escape(value string) string {
	return markdownMeta.Replace(value)
}
