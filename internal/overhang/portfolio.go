// Package overhang models the rent overhang a LIHTC project carries when
// Section 8 voucher rents exceed the LIHTC-allowed net rent, and allocates
// tenant-based vouchers across unit types to bound the resulting exposure.
package overhang

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyPortfolio is returned when a portfolio has no unit types.
	ErrEmptyPortfolio = errors.New("portfolio has no unit types")
	// ErrMissingLabel is returned when a unit type has a blank label.
	ErrMissingLabel = errors.New("unit type label is required")
	// ErrNegativeUnits is returned when a unit type has a negative unit count.
	ErrNegativeUnits = errors.New("unit count must not be negative")
	// ErrNegativeVouchers is returned when a voucher count is negative.
	ErrNegativeVouchers = errors.New("voucher count must not be negative")
)

// UnitType is one row of the unit mix.
type UnitType struct {
	Label            string  `json:"label" yaml:"label" mapstructure:"label"`
	Units            int     `json:"units" yaml:"units" mapstructure:"units"`
	LIHTCMaxRent     float64 `json:"lihtcMaxRent" yaml:"lihtcMaxRent" mapstructure:"lihtcMaxRent"`
	UtilityAllowance float64 `json:"utilityAllowance" yaml:"utilityAllowance" mapstructure:"utilityAllowance"`
	Section8Rent     float64 `json:"section8Rent" yaml:"section8Rent" mapstructure:"section8Rent"`
}

// NetLIHTCRent is the LIHTC max rent less the utility allowance.
func (u UnitType) NetLIHTCRent() float64 {
	return u.LIHTCMaxRent - u.UtilityAllowance
}

// Overhang is the amount by which the Section 8 rent exceeds the net LIHTC
// rent. A negative overhang means the voucher rent sits under the cap.
func (u UnitType) Overhang() float64 {
	return u.Section8Rent - u.NetLIHTCRent()
}

// AnalyzedUnit is a unit type with its derived rents precomputed.
type AnalyzedUnit struct {
	UnitType
	NetLIHTCRent float64 `json:"netLihtcRent"`
	Overhang     float64 `json:"overhang"`
}

// Portfolio is an immutable snapshot of the unit mix for one calculation.
type Portfolio struct {
	units []UnitType
}

// NewPortfolio copies units into a new snapshot. Later edits to the caller's
// slice do not affect the portfolio.
func NewPortfolio(units []UnitType) Portfolio {
	return Portfolio{units: append([]UnitType(nil), units...)}
}

// Units returns a copy of the unit types in input order.
func (p Portfolio) Units() []UnitType {
	return append([]UnitType(nil), p.units...)
}

// Len returns the number of unit types.
func (p Portfolio) Len() int {
	return len(p.units)
}

// TotalUnits returns the sum of unit counts across all unit types.
func (p Portfolio) TotalUnits() int {
	total := 0
	for _, u := range p.units {
		total += u.Units
	}
	return total
}

// Validate rejects an empty table, blank labels and negative unit counts.
func (p Portfolio) Validate() error {
	if len(p.units) == 0 {
		return ErrEmptyPortfolio
	}
	for i, u := range p.units {
		if strings.TrimSpace(u.Label) == "" {
			return fmt.Errorf("unit type %d: %w", i+1, ErrMissingLabel)
		}
		if u.Units < 0 {
			return fmt.Errorf("unit type '%s' has %d units: %w", u.Label, u.Units, ErrNegativeUnits)
		}
	}
	return nil
}

// Analyze returns the augmented unit table in input order.
func (p Portfolio) Analyze() []AnalyzedUnit {
	rows := make([]AnalyzedUnit, 0, len(p.units))
	for _, u := range p.units {
		rows = append(rows, AnalyzedUnit{
			UnitType:     u,
			NetLIHTCRent: u.NetLIHTCRent(),
			Overhang:     u.Overhang(),
		})
	}
	return rows
}

// VoucherPool holds the project-based and tenant-based voucher counts.
// Only tenant-based vouchers are allocated; project-based vouchers stay with
// their units.
type VoucherPool struct {
	ProjectBased int `json:"projectBased" yaml:"projectBased" mapstructure:"projectBased"`
	TenantBased  int `json:"tenantBased" yaml:"tenantBased" mapstructure:"tenantBased"`
}

// Validate rejects negative voucher counts.
func (v VoucherPool) Validate() error {
	if v.ProjectBased < 0 {
		return fmt.Errorf("project-based vouchers %d: %w", v.ProjectBased, ErrNegativeVouchers)
	}
	if v.TenantBased < 0 {
		return fmt.Errorf("tenant-based vouchers %d: %w", v.TenantBased, ErrNegativeVouchers)
	}
	return nil
}
