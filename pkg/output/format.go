// Package output provides utilities for formatting and displaying overhang analyses.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/overhang-risk/internal/overhang"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, a *overhang.Analysis) {
	p := message.NewPrinter(language.English)

	_, _ = fmt.Fprintf(w, "--- Unit mix ---\n")
	_, _ = fmt.Fprintf(w, "%-10s | %5s | %14s | %17s | %14s | %14s | %12s\n",
		"Unit Type", "Units", "LIHTC Max Rent", "Utility Allowance", "Section 8 Rent", "Net LIHTC Rent", "Overhang")
	_, _ = fmt.Fprintf(w, "__________ | _____ | ______________ | _________________ | ______________ | ______________ | ____________\n")
	for _, u := range a.Units {
		_, _ = fmt.Fprintf(w, "%-10s | %5d | %14s | %17s | %14s | %14s | %12s\n",
			u.Label, u.Units,
			p.Sprintf("$%.2f", u.LIHTCMaxRent),
			p.Sprintf("$%.2f", u.UtilityAllowance),
			p.Sprintf("$%.2f", u.Section8Rent),
			p.Sprintf("$%.2f", u.NetLIHTCRent),
			signedDollars(p, u.Overhang))
	}

	_, _ = fmt.Fprintf(w, "\n--- Vouchers ---\n")
	_, _ = fmt.Fprintf(w, "Project-based: %d\n", a.Vouchers.ProjectBased)
	_, _ = fmt.Fprintf(w, "Tenant-based:  %d\n", a.Vouchers.TenantBased)

	_, _ = fmt.Fprintf(w, "\n--- TBV overhang exposure ---\n")
	for _, row := range a.Summary {
		_, _ = fmt.Fprintf(w, "%-34s | %s\n", row.Scenario, signedDollars(p, row.Exposure))
	}
	_, _ = fmt.Fprintf(w, "%-34s | %s\n", "Selected ("+a.ScenarioLabel+")", signedDollars(p, a.SelectedExposure))

	if len(a.Allocation.Allocations) > 0 {
		_, _ = fmt.Fprintf(w, "\n--- Selected scenario allocation ---\n")
		for _, alloc := range a.Allocation.Allocations {
			_, _ = fmt.Fprintf(w, "%-10s | %5d vouchers | %s\n", alloc.Label, alloc.Vouchers, signedDollars(p, alloc.Exposure))
		}
		if a.Allocation.Unallocated > 0 {
			_, _ = fmt.Fprintf(w, "%d vouchers could not be placed\n", a.Allocation.Unallocated)
		}
	}
}

func signedDollars(p *message.Printer, amount float64) string {
	if amount < 0 {
		return p.Sprintf("-$%.2f", -amount)
	}
	return p.Sprintf("$%.2f", amount)
}

// CsvFormat writes the augmented unit table followed by the scenario summary
// in comma-separated value format.
func CsvFormat(w io.Writer, a *overhang.Analysis) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{"Unit Type", "Units", "LIHTC Max Rent", "Utility Allowance", "Section 8 Rent", "Net LIHTC Rent", "Overhang ($)"},
	}
	for _, u := range a.Units {
		records = append(records, []string{
			u.Label,
			strconv.Itoa(u.Units),
			formatAmount(u.LIHTCMaxRent),
			formatAmount(u.UtilityAllowance),
			formatAmount(u.Section8Rent),
			formatAmount(u.NetLIHTCRent),
			formatAmount(u.Overhang),
		})
	}
	records = append(records, []string{})
	records = append(records, []string{"Scenario", "Overhang Exposure ($)"})
	for _, row := range a.Summary {
		records = append(records, []string{row.Scenario, formatAmount(row.Exposure)})
	}
	records = append(records, []string{a.ScenarioLabel, formatAmount(a.SelectedExposure)})

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// CsvString returns the CSV-formatted analysis as a string.
func CsvString(a *overhang.Analysis) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, a); err != nil {
		return ""
	}
	return buf.String()
}

// JSONFormat writes the analysis as indented JSON.
func JSONFormat(w io.Writer, a *overhang.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
