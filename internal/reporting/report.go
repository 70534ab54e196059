package reporting

import (
	"time"

	"newsvendor-lab/internal/domain"
)

// Report is the full result of one optimize-then-simulate pass.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string
	Seed        uint64

	Parameters Parameters

	// Candidate evaluations in candidate order
	Candidates []CandidateRow
	// HasExact is set when the rows carry the exact expectation under the model.
	HasExact   bool
	Optimum    Optimum

	// Comparison against the configured order guess; nil when the guess
	// was not among the candidates.
	Baseline *BaselineComparison

	// Reporting horizon ledger at the optimal quantity
	LedgerStats  *domain.RunStats
	Replication  *domain.ReplicationSummary
	Verification *VerificationSummary
}

// Parameters echoes the inputs the report was produced with.
type Parameters struct {
	Economics        domain.Economics
	CriticalFractile float64
	ReportDays       int
	DefaultQuantity  int
	SampleDays       int
	Iterations       int
}

// CandidateRow represents one row in the candidate table.
type CandidateRow struct {
	Quantity    int
	TotalProfit int     // cents over the sample
	MeanProfit  float64 // cents per day
	ExactMean   float64 // exact expected daily profit; valid when Report.HasExact
	Selected    bool
}

// Optimum is the optimizer's choice.
type Optimum struct {
	Quantity           int
	ExpectedMeanProfit float64 // sample estimate, cents per day
}

// BaselineComparison compares the default order guess with the optimum.
type BaselineComparison struct {
	GuessQuantity   int
	GuessMeanProfit float64
	Improvement     float64 // optimum minus guess, cents per day
}

// VerificationSummary reports the outcome of replaying the ledger.
type VerificationSummary struct {
	DaysChecked int
	Divergences int
	Passed      bool
}
