package services

import "quoting-service/internal/models"

// Premium math. Pure functions over normalized coverages: no mutation, no
// I/O, so the submission assembler and the selection store share them.

// ComputePremium returns the periodic price of a single coverage under its
// current selection state. Inactive coverages cost nothing. Proportional
// coverages interpolate the base premium by the capital ratio; everything
// else is flat.
func ComputePremium(c models.Coverage) float64 {
	if !c.IsActive {
		return 0
	}
	if c.CalculationType == models.CalculationProportional && c.BaseCapital > 0 {
		return c.FixedCost + (c.CurrentCapital/c.BaseCapital)*c.BasePremium
	}
	return c.FixedCost + c.BasePremium
}

// TotalPremium sums per-coverage premiums; inactive entries contribute zero.
func TotalPremium(coverages []models.Coverage) float64 {
	var total float64
	for _, c := range coverages {
		total += ComputePremium(c)
	}
	return total
}

// TotalIndemnity sums the contracted capital of active coverages.
func TotalIndemnity(coverages []models.Coverage) float64 {
	var total float64
	for _, c := range coverages {
		if c.IsActive {
			total += c.CurrentCapital
		}
	}
	return total
}
