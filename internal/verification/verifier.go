// Package verification replays recorded ledgers from their stored draws and
// reports every field that does not reproduce.
package verification

import (
	"math"

	"newsvendor-lab/internal/domain"
)

// FloatTolerance is the tolerance for comparing stored and replayed draws.
const FloatTolerance = 1e-12

// FieldDivergence represents a mismatch between stored and replayed values.
type FieldDivergence struct {
	Field    string      `json:"field"`
	Expected interface{} `json:"expected"` // stored value
	Actual   interface{} `json:"actual"`   // replayed value
}

// DayResult contains the result of verifying a single day.
type DayResult struct {
	Day         int               `json:"day"`
	Match       bool              `json:"match"`
	Divergences []FieldDivergence `json:"divergences,omitempty"`
}

// VerificationReport contains results for a whole ledger.
type VerificationReport struct {
	Quantity      int         `json:"quantity"`
	TotalDays     int         `json:"total_days"`
	MatchedDays   int         `json:"matched_days"`
	DivergentDays int         `json:"divergent_days"`
	Results       []DayResult `json:"results"`
}

// Passed reports whether every day reproduced.
func (r *VerificationReport) Passed() bool {
	return r.DivergentDays == 0
}

// Divergences counts divergent fields across all days.
func (r *VerificationReport) Divergences() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Divergences)
	}
	return n
}

// CompareDayRecords compares two day records field by field.
// Draws use FloatTolerance; everything else must match exactly.
func CompareDayRecords(stored, replayed domain.DayRecord) []FieldDivergence {
	var divergences []FieldDivergence

	check := func(field string, ok bool, expected, actual interface{}) {
		if !ok {
			divergences = append(divergences, FieldDivergence{
				Field:    field,
				Expected: expected,
				Actual:   actual,
			})
		}
	}

	check("Day", stored.Day == replayed.Day, stored.Day, replayed.Day)
	check("DayTypeDraw", floatEquals(stored.DayTypeDraw, replayed.DayTypeDraw), stored.DayTypeDraw, replayed.DayTypeDraw)
	check("DayType", stored.DayType == replayed.DayType, stored.DayType, replayed.DayType)
	check("DemandDraw", floatEquals(stored.DemandDraw, replayed.DemandDraw), stored.DemandDraw, replayed.DemandDraw)
	check("Demand", stored.Demand == replayed.Demand, stored.Demand, replayed.Demand)

	// Accounting
	check("Revenue", stored.Revenue == replayed.Revenue, stored.Revenue, replayed.Revenue)
	check("ExcessDemand", stored.ExcessDemand == replayed.ExcessDemand, stored.ExcessDemand, replayed.ExcessDemand)
	check("LostProfitExcess", stored.LostProfitExcess == replayed.LostProfitExcess, stored.LostProfitExcess, replayed.LostProfitExcess)
	check("NumScrap", stored.NumScrap == replayed.NumScrap, stored.NumScrap, replayed.NumScrap)
	check("SalvageScrap", stored.SalvageScrap == replayed.SalvageScrap, stored.SalvageScrap, replayed.SalvageScrap)
	check("DailyProfit", stored.DailyProfit == replayed.DailyProfit, stored.DailyProfit, replayed.DailyProfit)

	return divergences
}

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= FloatTolerance
}
