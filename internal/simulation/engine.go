// Package simulation drives the day-by-day newsvendor simulation.
package simulation

import (
	"errors"

	"newsvendor-lab/internal/accounting"
	"newsvendor-lab/internal/demand"
	"newsvendor-lab/internal/domain"
	"newsvendor-lab/internal/observability"
)

// Engine errors
var (
	ErrInvalidDays       = errors.New("day count must be positive")
	ErrInvalidQuantity   = errors.New("order quantity must be positive")
	ErrInvalidIterations = errors.New("iteration count must be positive")
	ErrNilSource         = errors.New("random source is nil")
)

// Engine simulates days against one model and one continuing random source.
// Successive calls continue the same stream, so two calls on one Engine
// never reuse draws. An Engine is not safe for concurrent use; give each
// goroutine its own Engine and source.
type Engine struct {
	econ  domain.Economics
	model *demand.Model
	src   RandomSource
}

// NewEngine validates cfg and binds it to src.
func NewEngine(cfg domain.ModelConfig, src RandomSource) (*Engine, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	model, err := demand.NewModel(cfg)
	if err != nil {
		return nil, err
	}

	return &Engine{
		econ:  cfg.Economics,
		model: model,
		src:   src,
	}, nil
}

// Simulate runs days independent days at order quantity and returns the full ledger.
// Invalid arguments are rejected before any draw is consumed.
func (e *Engine) Simulate(quantity, days int) (*domain.SimulationRun, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if days <= 0 {
		return nil, ErrInvalidDays
	}

	records := make([]domain.DayRecord, 0, days)
	for day := 1; day <= days; day++ {
		// Day type draw first, then demand draw.
		r1 := e.src.Float64()
		r2 := e.src.Float64()
		records = append(records, e.SimulateDay(day, quantity, r1, r2))
	}

	observability.RecordSimulationRun(days)

	return &domain.SimulationRun{
		Quantity: quantity,
		Days:     records,
	}, nil
}

// SimulateDay resolves one day from its two draws. It consumes no randomness,
// so a recorded day can be replayed exactly.
func (e *Engine) SimulateDay(day, quantity int, r1, r2 float64) domain.DayRecord {
	dayType := e.model.SelectDayType(r1)
	d := e.model.Demand(dayType, r2)

	return domain.DayRecord{
		Day:             day,
		DayTypeDraw:     r1,
		DayType:         dayType,
		DemandDraw:      r2,
		Demand:          d,
		ProfitBreakdown: accounting.Compute(e.econ, quantity, d),
	}
}

// Economics returns the money constants the engine was built with.
func (e *Engine) Economics() domain.Economics {
	return e.econ
}
