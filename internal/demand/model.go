// Package demand implements the two-stage stochastic demand model:
// a uniform draw selects the day type, a second draw selects demand
// from that day type's empirical inverse CDF.
package demand

import (
	"newsvendor-lab/internal/domain"
)

// Model resolves uniform draws to day types and demand quantities.
// A Model is read-only after construction and safe for concurrent use.
type Model struct {
	dayTypes domain.DayTypeTable
	tables   [domain.NumDayTypes]domain.DemandTable
}

// NewModel validates cfg and builds a Model from copies of its tables.
func NewModel(cfg domain.ModelConfig) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Model{dayTypes: cfg.DayTypes}
	for _, dt := range domain.DayTypes {
		m.tables[dt] = cfg.Demand[dt].Clone()
	}
	return m, nil
}

// SelectDayType returns the first day type whose cumulative boundary
// strictly exceeds r. The last band catches every remaining draw.
func (m *Model) SelectDayType(r float64) domain.DayType {
	last := len(m.dayTypes) - 1
	for _, band := range m.dayTypes[:last] {
		if r < band.Cumulative {
			return band.DayType
		}
	}
	return m.dayTypes[last].DayType
}

// Demand returns the demand of the first table entry whose bound strictly exceeds r.
// Draws at or beyond the final bound resolve to the final entry.
func (m *Model) Demand(dt domain.DayType, r float64) int {
	return lookup(m.tables[dt], r)
}

func lookup(table domain.DemandTable, r float64) int {
	for _, level := range table {
		if r < level.UpperBound {
			return level.Demand
		}
	}
	return table[len(table)-1].Demand
}
