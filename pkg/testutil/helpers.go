// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/overhang-risk/internal/overhang"
)

// FindSummaryRow finds a summary row by scenario name.
// Returns a pointer to the row if found, nil otherwise.
func FindSummaryRow(rows []overhang.SummaryRow, name string) *overhang.SummaryRow {
	for i := range rows {
		if rows[i].Scenario == name {
			return &rows[i]
		}
	}
	return nil
}

// FindAllocation finds the vouchers placed in a unit type by label.
// Returns a pointer to the allocation if found, nil otherwise.
func FindAllocation(allocations []overhang.Allocation, label string) *overhang.Allocation {
	for i := range allocations {
		if allocations[i].Label == label {
			return &allocations[i]
		}
	}
	return nil
}

// FindUnit finds an augmented unit type by label.
func FindUnit(units []overhang.AnalyzedUnit, label string) *overhang.AnalyzedUnit {
	for i := range units {
		if units[i].Label == label {
			return &units[i]
		}
	}
	return nil
}
