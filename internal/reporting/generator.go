package reporting

import (
	"errors"
	"time"

	"newsvendor-lab/internal/accounting"
	"newsvendor-lab/internal/domain"
)

// ErrMissingOptimization is returned when a report is requested without an optimization result.
var ErrMissingOptimization = errors.New("optimization result is required")

// Input gathers the results a report is built from. Only Optimization is required.
type Input struct {
	RunID           string
	Seed            uint64
	Economics       domain.Economics
	ReportDays      int
	DefaultQuantity int
	Iterations      int

	// Model, when set, adds the exact expected profit of every candidate.
	Model *domain.ModelConfig

	Optimization *domain.OptimizationResult
	LedgerStats  *domain.RunStats
	Replication  *domain.ReplicationSummary
	Verification *VerificationSummary
}

// Generator assembles reports from computed results.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a Report from in.
func (g *Generator) Generate(in Input) (*Report, error) {
	opt := in.Optimization
	if opt == nil {
		return nil, ErrMissingOptimization
	}

	rows := make([]CandidateRow, len(opt.Evaluations))
	selected := false
	for i, e := range opt.Evaluations {
		rows[i] = CandidateRow{
			Quantity:    e.Quantity,
			TotalProfit: e.TotalProfit,
			MeanProfit:  e.MeanProfit,
		}
		if in.Model != nil {
			rows[i].ExactMean = accounting.ExpectedProfit(*in.Model, e.Quantity)
		}
		// Mark only the first row matching the optimum; candidates may repeat.
		if !selected && e.Quantity == opt.BestQuantity {
			rows[i].Selected = true
			selected = true
		}
	}

	var baseline *BaselineComparison
	if guess, ok := opt.Evaluation(in.DefaultQuantity); ok {
		baseline = &BaselineComparison{
			GuessQuantity:   guess.Quantity,
			GuessMeanProfit: guess.MeanProfit,
			Improvement:     opt.BestMeanProfit - guess.MeanProfit,
		}
	}

	return &Report{
		GeneratedAt: g.now(),
		RunID:       in.RunID,
		Seed:        in.Seed,
		Parameters: Parameters{
			Economics:        in.Economics,
			CriticalFractile: in.Economics.CriticalFractile(),
			ReportDays:       in.ReportDays,
			DefaultQuantity:  in.DefaultQuantity,
			SampleDays:       opt.SampleDays,
			Iterations:       in.Iterations,
		},
		Candidates: rows,
		HasExact:   in.Model != nil,
		Optimum: Optimum{
			Quantity:           opt.BestQuantity,
			ExpectedMeanProfit: opt.BestMeanProfit,
		},
		Baseline:     baseline,
		LedgerStats:  in.LedgerStats,
		Replication:  in.Replication,
		Verification: in.Verification,
	}, nil
}
