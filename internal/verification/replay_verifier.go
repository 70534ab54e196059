package verification

import (
	"errors"
	"fmt"

	"newsvendor-lab/internal/domain"
	"newsvendor-lab/internal/simulation"
)

// ErrNilRun is returned when there is no ledger to verify.
var ErrNilRun = errors.New("simulation run is nil")

// VerifyRun replays every day of run from its recorded draws under cfg and
// compares the result with the stored record. Day indices must run 1..N.
func VerifyRun(cfg domain.ModelConfig, run *domain.SimulationRun) (*VerificationReport, error) {
	if run == nil {
		return nil, ErrNilRun
	}
	if run.Quantity <= 0 {
		return nil, simulation.ErrInvalidQuantity
	}

	// SimulateDay draws nothing; the source only satisfies NewEngine.
	engine, err := simulation.NewEngine(cfg, simulation.NewSequenceSource(0))
	if err != nil {
		return nil, fmt.Errorf("build replay engine: %w", err)
	}

	report := &VerificationReport{
		Quantity:  run.Quantity,
		TotalDays: len(run.Days),
		Results:   make([]DayResult, 0, len(run.Days)),
	}

	for i, stored := range run.Days {
		replayed := engine.SimulateDay(i+1, run.Quantity, stored.DayTypeDraw, stored.DemandDraw)
		divergences := CompareDayRecords(stored, replayed)

		report.Results = append(report.Results, DayResult{
			Day:         i + 1,
			Match:       len(divergences) == 0,
			Divergences: divergences,
		})
		if len(divergences) == 0 {
			report.MatchedDays++
		} else {
			report.DivergentDays++
		}
	}

	return report, nil
}

// Summary returns the first divergence per divergent day, for logging.
func (r *VerificationReport) Summary() []string {
	var out []string
	for _, res := range r.Results {
		if res.Match {
			continue
		}
		d := res.Divergences[0]
		out = append(out, fmt.Sprintf("day %d: %s stored=%v replayed=%v", res.Day, d.Field, d.Expected, d.Actual))
	}
	return out
}
