package domain

import "fmt"

// Economics holds the per-unit money constants, all in cents.
type Economics struct {
	SellPrice  int `json:"sell_price"`  // P: revenue per unit sold
	UnitCost   int `json:"unit_cost"`   // C: purchase cost per unit ordered
	ScrapValue int `json:"scrap_value"` // S: salvage per unsold unit
}

// DefaultEconomics returns P=50, C=33, S=5.
func DefaultEconomics() Economics {
	return Economics{
		SellPrice:  50,
		UnitCost:   33,
		ScrapValue: 5,
	}
}

// UnitMargin is the profit foregone per unit of unmet demand (P - C).
func (e Economics) UnitMargin() int {
	return e.SellPrice - e.UnitCost
}

// CriticalFractile returns (P-C)/(P-S), the classical optimal service level.
// Returns 0 when P <= S.
func (e Economics) CriticalFractile() float64 {
	denom := e.SellPrice - e.ScrapValue
	if denom <= 0 {
		return 0
	}
	return float64(e.SellPrice-e.UnitCost) / float64(denom)
}

// Validate rejects negative constants and a non-positive sell price.
func (e Economics) Validate() error {
	if e.SellPrice <= 0 {
		return fmt.Errorf("%w: sell price must be positive, got %d", ErrInvalidModel, e.SellPrice)
	}
	if e.UnitCost < 0 {
		return fmt.Errorf("%w: unit cost must not be negative, got %d", ErrInvalidModel, e.UnitCost)
	}
	if e.ScrapValue < 0 {
		return fmt.Errorf("%w: scrap value must not be negative, got %d", ErrInvalidModel, e.ScrapValue)
	}
	return nil
}
