package domain

import (
	"errors"
	"fmt"
)

// Model errors
var (
	// ErrInvalidModel is returned when a ModelConfig fails validation.
	ErrInvalidModel = errors.New("invalid model config")

	// ErrUnknownDayType is returned when a value outside the DayType enumeration is decoded.
	ErrUnknownDayType = errors.New("unknown day type")
)

// ModelConfig is the immutable input of the simulation: money constants,
// day-type mix and per-type demand tables. Pass it by value.
type ModelConfig struct {
	Economics Economics                `json:"economics"`
	DayTypes  DayTypeTable             `json:"day_types"`
	Demand    [NumDayTypes]DemandTable `json:"demand"`
}

// DefaultModelConfig returns the newspaper seller model with fresh table copies.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Economics: DefaultEconomics(),
		DayTypes:  DefaultDayTypeTable(),
		Demand:    DefaultDemandTables(),
	}
}

// WithEconomics returns a copy of c using econ.
func (c ModelConfig) WithEconomics(econ Economics) ModelConfig {
	c.Economics = econ
	for i := range c.Demand {
		c.Demand[i] = c.Demand[i].Clone()
	}
	return c
}

// Validate checks every section of the model.
func (c ModelConfig) Validate() error {
	if err := c.Economics.Validate(); err != nil {
		return err
	}
	if err := c.DayTypes.Validate(); err != nil {
		return err
	}
	for _, dt := range DayTypes {
		if err := c.Demand[dt].Validate(); err != nil {
			return fmt.Errorf("%s demand: %w", dt, err)
		}
	}
	return nil
}
