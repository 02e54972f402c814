package overhang

import "sort"

// Allocation records how many vouchers landed on one unit type.
type Allocation struct {
	Label    string  `json:"label"`
	Vouchers int     `json:"vouchers"`
	Overhang float64 `json:"overhang"`
	Exposure float64 `json:"exposure"`
}

// AllocationResult is the outcome of one greedy allocation run.
type AllocationResult struct {
	Exposure    float64      `json:"exposure"`
	Allocations []Allocation `json:"allocations"`
	Unallocated int          `json:"unallocated"`
}

// Allocate hands out vouchers to units in the order given, filling each unit
// type up to its unit count before moving on, and returns the summed dollar
// exposure. The result depends entirely on the order of units; callers sort
// first with SortAscending or SortDescending. Counts are assumed to be
// non-negative.
func Allocate(units []AnalyzedUnit, vouchers int) float64 {
	return AllocateDetail(units, vouchers).Exposure
}

// AllocateDetail is Allocate with a per-unit breakdown. Unit types reached
// after the pool runs out are not listed. Unallocated is positive when the
// pool exceeds the total unit count.
func AllocateDetail(units []AnalyzedUnit, vouchers int) AllocationResult {
	remaining := vouchers
	var result AllocationResult
	for _, u := range units {
		if remaining <= 0 {
			break
		}
		allocated := min(remaining, u.Units)
		exposure := float64(allocated) * u.Overhang
		result.Exposure += exposure
		result.Allocations = append(result.Allocations, Allocation{
			Label:    u.Label,
			Vouchers: allocated,
			Overhang: u.Overhang,
			Exposure: exposure,
		})
		remaining -= allocated
	}
	result.Unallocated = max(remaining, 0)
	return result
}

// SortAscending returns a copy of units ordered lowest overhang first.
// Ties keep their input order.
func SortAscending(units []AnalyzedUnit) []AnalyzedUnit {
	sorted := append([]AnalyzedUnit(nil), units...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Overhang < sorted[j].Overhang
	})
	return sorted
}

// SortDescending returns a copy of units ordered highest overhang first.
// Ties keep their input order.
func SortDescending(units []AnalyzedUnit) []AnalyzedUnit {
	sorted := append([]AnalyzedUnit(nil), units...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Overhang > sorted[j].Overhang
	})
	return sorted
}
