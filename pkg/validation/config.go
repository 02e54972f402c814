// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/overhang-risk/pkg/format"
	"github.com/iwvelando/overhang-risk/pkg/mathutil"
)

// UnitConfig is the subset of a unit type the warning checks need.
type UnitConfig struct {
	Label        string
	Units        int
	NetLIHTCRent float64
	Section8Rent float64
}

// PortfolioValidator collects non-fatal findings about a unit mix and voucher counts.
type PortfolioValidator struct {
	Units        []UnitConfig
	ProjectBased int
	TenantBased  int
}

// ValidateOverhang warns when a unit type carries no overhang exposure.
func ValidateOverhang(unit UnitConfig) string {
	overhang := unit.Section8Rent - unit.NetLIHTCRent
	if mathutil.IsNegative(overhang) {
		return fmt.Sprintf("Unit type '%s' Section 8 rent is below the net LIHTC rent (%s < %s) - vouchers there reduce exposure",
			unit.Label, format.Currency(unit.Section8Rent), format.Currency(unit.NetLIHTCRent))
	}
	if mathutil.IsZero(overhang) {
		return fmt.Sprintf("Unit type '%s' has no overhang - Section 8 rent equals the net LIHTC rent", unit.Label)
	}
	return ""
}

// ValidateAll validates the unit mix and voucher counts and returns warnings
func (pv *PortfolioValidator) ValidateAll() []string {
	var warnings []string

	totalUnits := 0
	seen := make(map[string]struct{}, len(pv.Units))
	for _, unit := range pv.Units {
		totalUnits += unit.Units

		if _, dup := seen[unit.Label]; dup {
			warnings = append(warnings, fmt.Sprintf("Unit type '%s' appears more than once", unit.Label))
		}
		seen[unit.Label] = struct{}{}

		if unit.Units == 0 {
			warnings = append(warnings, fmt.Sprintf("Unit type '%s' has no units and will never receive vouchers", unit.Label))
		}

		if warning := ValidateOverhang(unit); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	if pv.TenantBased > totalUnits {
		warnings = append(warnings, fmt.Sprintf("Tenant-based vouchers exceed total units (%d > %d) - %d vouchers cannot be placed",
			pv.TenantBased, totalUnits, pv.TenantBased-totalUnits))
	}

	if pv.ProjectBased+pv.TenantBased > totalUnits {
		warnings = append(warnings, fmt.Sprintf("Project-based plus tenant-based vouchers exceed total units (%d > %d)",
			pv.ProjectBased+pv.TenantBased, totalUnits))
	}

	return warnings
}
