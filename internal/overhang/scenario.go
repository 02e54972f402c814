package overhang

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownScenario is returned for a scenario key outside the supported set.
var ErrUnknownScenario = errors.New("unknown scenario")

// Scenario selects how tenant-based vouchers are placed for the stress test.
type Scenario string

const (
	// ScenarioMaxRisk places every TBV in the highest-overhang units.
	ScenarioMaxRisk Scenario = "max-risk"
	// ScenarioMinRisk places every TBV in the lowest-overhang units.
	ScenarioMinRisk Scenario = "min-risk"
	// ScenarioPartialLoss places half the TBVs, rounded down, in the
	// highest-overhang units.
	ScenarioPartialLoss Scenario = "partial-loss"
)

// Summary row labels for the two bounding scenarios.
const (
	MinRiskSummaryLabel = "Min Risk (TBV in Low-Rent Units)"
	MaxRiskSummaryLabel = "Max Risk (TBV in High-Rent Units)"
)

// Scenarios lists the supported scenarios in display order.
var Scenarios = []Scenario{ScenarioMaxRisk, ScenarioMinRisk, ScenarioPartialLoss}

// ParseScenario maps a scenario key to a Scenario.
func ParseScenario(value string) (Scenario, error) {
	s := Scenario(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Scenarios {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w %q: expected one of %s, %s, %s",
		ErrUnknownScenario, value, ScenarioMaxRisk, ScenarioMinRisk, ScenarioPartialLoss)
}

// Label is the human-readable scenario name.
func (s Scenario) Label() string {
	switch s {
	case ScenarioMaxRisk:
		return "All TBVs in High-Rent Units"
	case ScenarioMinRisk:
		return "All TBVs in Low-Rent Units"
	case ScenarioPartialLoss:
		return "50% TBVs Lost"
	default:
		return string(s)
	}
}

// SummaryRow is one line of the bounding-scenario summary table.
type SummaryRow struct {
	Scenario string  `json:"scenario"`
	Exposure float64 `json:"exposure"`
}

// Analysis is the full result of one calculation run.
type Analysis struct {
	Units            []AnalyzedUnit   `json:"units"`
	Vouchers         VoucherPool      `json:"vouchers"`
	Scenario         Scenario         `json:"scenario"`
	ScenarioLabel    string           `json:"scenarioLabel"`
	MinExposure      float64          `json:"minExposure"`
	MaxExposure      float64          `json:"maxExposure"`
	SelectedExposure float64          `json:"selectedExposure"`
	Summary          []SummaryRow     `json:"summary"`
	Allocation       AllocationResult `json:"allocation"`
}

// Analyze validates the inputs and computes the augmented unit table, the
// min and max TBV exposure, and the exposure for the selected scenario.
func Analyze(p Portfolio, pool VoucherPool, s Scenario) (*Analysis, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := pool.Validate(); err != nil {
		return nil, err
	}
	s, err := ParseScenario(string(s))
	if err != nil {
		return nil, err
	}

	units := p.Analyze()
	ascending := SortAscending(units)
	descending := SortDescending(units)

	minExposure := Allocate(ascending, pool.TenantBased)
	maxExposure := Allocate(descending, pool.TenantBased)

	var selected AllocationResult
	switch s {
	case ScenarioMaxRisk:
		selected = AllocateDetail(descending, pool.TenantBased)
	case ScenarioMinRisk:
		selected = AllocateDetail(ascending, pool.TenantBased)
	case ScenarioPartialLoss:
		selected = AllocateDetail(descending, pool.TenantBased/2)
	}

	return &Analysis{
		Units:            units,
		Vouchers:         pool,
		Scenario:         s,
		ScenarioLabel:    s.Label(),
		MinExposure:      minExposure,
		MaxExposure:      maxExposure,
		SelectedExposure: selected.Exposure,
		Summary: []SummaryRow{
			{Scenario: MinRiskSummaryLabel, Exposure: minExposure},
			{Scenario: MaxRiskSummaryLabel, Exposure: maxExposure},
		},
		Allocation: selected,
	}, nil
}
