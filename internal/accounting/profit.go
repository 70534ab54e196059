// Package accounting computes the daily profit breakdown of the newsvendor.
package accounting

import (
	"newsvendor-lab/internal/domain"
)

// Compute returns the profit breakdown for ordering quantity units against demand.
//
// LostProfitExcess is reported for information only and is not deducted from
// DailyProfit: it is foregone margin, not a cash outflow.
func Compute(econ domain.Economics, quantity, demand int) domain.ProfitBreakdown {
	sold := min(quantity, demand)
	excess := max(demand-quantity, 0)
	scrap := max(quantity-demand, 0)

	revenue := sold * econ.SellPrice
	salvage := scrap * econ.ScrapValue

	return domain.ProfitBreakdown{
		Revenue:          revenue,
		ExcessDemand:     excess,
		LostProfitExcess: excess * econ.UnitMargin(),
		NumScrap:         scrap,
		SalvageScrap:     salvage,
		DailyProfit:      revenue + salvage - quantity*econ.UnitCost,
	}
}

// ExpectedProfit returns the exact expected daily profit of ordering quantity
// under the model's day-type mix and demand tables.
func ExpectedProfit(cfg domain.ModelConfig, quantity int) float64 {
	expected := 0.0
	for _, band := range cfg.DayTypes {
		table := cfg.Demand[band.DayType]
		for i, level := range table {
			p := band.Probability * table.Probability(i)
			expected += p * float64(Compute(cfg.Economics, quantity, level.Demand).DailyProfit)
		}
	}
	return expected
}
