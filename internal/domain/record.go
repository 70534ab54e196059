package domain

// ProfitBreakdown is the accounting result for one day at a given order quantity.
// All money fields are in cents.
type ProfitBreakdown struct {
	Revenue          int `json:"revenue"`            // min(X, d) * P
	ExcessDemand     int `json:"excess_demand"`      // max(d - X, 0)
	LostProfitExcess int `json:"lost_profit_excess"` // excess * (P - C), informational only
	NumScrap         int `json:"num_scrap"`          // max(X - d, 0)
	SalvageScrap     int `json:"salvage_scrap"`      // scrap * S
	DailyProfit      int `json:"daily_profit"`       // revenue + salvage - X * C
}

// DayRecord is the immutable result of simulating one day.
// Records are passed by value and never modified after creation.
type DayRecord struct {
	Day         int     `json:"day"`           // 1-based day index
	DayTypeDraw float64 `json:"day_type_draw"` // R1
	DayType     DayType `json:"day_type"`
	DemandDraw  float64 `json:"demand_draw"` // R2
	Demand      int     `json:"demand"`

	ProfitBreakdown
}

// SimulationRun is the ordered ledger produced by one engine call.
type SimulationRun struct {
	Quantity int         `json:"quantity"` // order quantity X
	Days     []DayRecord `json:"days"`
}

// Len returns the number of simulated days.
func (r *SimulationRun) Len() int {
	return len(r.Days)
}

// TotalProfit sums daily profit over the run.
func (r *SimulationRun) TotalProfit() int {
	total := 0
	for _, d := range r.Days {
		total += d.DailyProfit
	}
	return total
}

// MeanProfit is the arithmetic mean of daily profit. Returns 0 for an empty run.
func (r *SimulationRun) MeanProfit() float64 {
	if len(r.Days) == 0 {
		return 0
	}
	return float64(r.TotalProfit()) / float64(len(r.Days))
}
