package domain

import "fmt"

// DemandLevel maps the uniform draw range ending at UpperBound to a demand quantity.
type DemandLevel struct {
	UpperBound float64 `json:"upper_bound"` // exclusive upper bound of the draw range
	Demand     int     `json:"demand"`      // units customers would buy
}

// DemandTable is the empirical inverse CDF for one day type.
// Entries are strictly increasing in both fields and the last bound is 1.0.
type DemandTable []DemandLevel

// Default demand tables. Bounds are cumulative probabilities of the
// empirical demand distribution and must not be altered.
var (
	goodDemand = DemandTable{
		{UpperBound: 0.03, Demand: 40},
		{UpperBound: 0.08, Demand: 50},
		{UpperBound: 0.23, Demand: 60},
		{UpperBound: 0.43, Demand: 70},
		{UpperBound: 0.78, Demand: 80},
		{UpperBound: 0.93, Demand: 90},
		{UpperBound: 1.00, Demand: 100},
	}

	fairDemand = DemandTable{
		{UpperBound: 0.10, Demand: 40},
		{UpperBound: 0.28, Demand: 50},
		{UpperBound: 0.68, Demand: 60},
		{UpperBound: 0.88, Demand: 70},
		{UpperBound: 0.96, Demand: 80},
		{UpperBound: 1.00, Demand: 90},
	}

	poorDemand = DemandTable{
		{UpperBound: 0.44, Demand: 40},
		{UpperBound: 0.66, Demand: 50},
		{UpperBound: 0.82, Demand: 60},
		{UpperBound: 0.94, Demand: 70},
		{UpperBound: 1.00, Demand: 80},
	}
)

// DefaultDemandTables returns fresh copies of the Good/Fair/Poor tables, indexed by DayType.
func DefaultDemandTables() [NumDayTypes]DemandTable {
	return [NumDayTypes]DemandTable{
		DayTypeGood: goodDemand.Clone(),
		DayTypeFair: fairDemand.Clone(),
		DayTypePoor: poorDemand.Clone(),
	}
}

// Clone returns an independent copy of the table.
func (t DemandTable) Clone() DemandTable {
	out := make(DemandTable, len(t))
	copy(out, t)
	return out
}

// Levels returns the demand quantities in table order.
func (t DemandTable) Levels() []int {
	levels := make([]int, len(t))
	for i, l := range t {
		levels[i] = l.Demand
	}
	return levels
}

// Probability returns the probability mass of entry i (bound minus previous bound).
func (t DemandTable) Probability(i int) float64 {
	if i < 0 || i >= len(t) {
		return 0
	}
	if i == 0 {
		return t[0].UpperBound
	}
	return t[i].UpperBound - t[i-1].UpperBound
}

// Validate checks ordering, non-negative demand and the 1.0 sentinel.
func (t DemandTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty demand table", ErrInvalidModel)
	}
	for i, l := range t {
		if l.Demand < 0 {
			return fmt.Errorf("%w: entry %d has negative demand %d", ErrInvalidModel, i, l.Demand)
		}
		if l.UpperBound <= 0 || l.UpperBound > 1 {
			return fmt.Errorf("%w: entry %d bound %.4f outside (0,1]", ErrInvalidModel, i, l.UpperBound)
		}
		if i > 0 {
			if l.UpperBound <= t[i-1].UpperBound {
				return fmt.Errorf("%w: entry %d bound %.4f not above %.4f", ErrInvalidModel, i, l.UpperBound, t[i-1].UpperBound)
			}
			if l.Demand <= t[i-1].Demand {
				return fmt.Errorf("%w: entry %d demand %d not above %d", ErrInvalidModel, i, l.Demand, t[i-1].Demand)
			}
		}
	}
	if last := t[len(t)-1].UpperBound; last != 1.0 {
		return fmt.Errorf("%w: last bound is %.4f, want 1", ErrInvalidModel, last)
	}
	return nil
}
