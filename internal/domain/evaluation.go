package domain

import "time"

// QuantityEvaluation is the sample estimate of expected profit for one candidate.
type QuantityEvaluation struct {
	Quantity    int     `json:"quantity"`
	Days        int     `json:"days"`         // sample size
	TotalProfit int     `json:"total_profit"` // cents
	MeanProfit  float64 `json:"mean_profit"`  // cents per day
}

// OptimizationResult is the outcome of a brute-force search over candidates.
// Evaluations keep candidate order. BestQuantity is the first candidate reaching
// the maximum mean profit.
type OptimizationResult struct {
	Candidates     []int                `json:"candidates"`
	SampleDays     int                  `json:"sample_days"`
	Evaluations    []QuantityEvaluation `json:"evaluations"`
	BestQuantity   int                  `json:"best_quantity"`
	BestMeanProfit float64              `json:"best_mean_profit"`
}

// Evaluation returns the evaluation of quantity, if it was a candidate.
func (r *OptimizationResult) Evaluation(quantity int) (QuantityEvaluation, bool) {
	for _, e := range r.Evaluations {
		if e.Quantity == quantity {
			return e, true
		}
	}
	return QuantityEvaluation{}, false
}

// ReplicationSummary aggregates repeated independent runs of the same horizon.
type ReplicationSummary struct {
	Quantity       int     `json:"quantity"`
	Days           int     `json:"days"`
	Iterations     int     `json:"iterations"`
	TotalProfits   []int   `json:"total_profits"`    // one per iteration, cents
	AvgTotalProfit float64 `json:"avg_total_profit"` // mean of TotalProfits
	AvgDailyProfit float64 `json:"avg_daily_profit"` // AvgTotalProfit / Days
	MinTotalProfit int     `json:"min_total_profit"`
	MaxTotalProfit int     `json:"max_total_profit"`
}

// RunStats describes the distribution of outcomes in one SimulationRun.
type RunStats struct {
	Quantity int `json:"quantity"`
	Days     int `json:"days"`

	// Profit distribution (cents)
	TotalProfit  int     `json:"total_profit"`
	MeanProfit   float64 `json:"mean_profit"`
	MedianProfit float64 `json:"median_profit"`
	StdDevProfit float64 `json:"stddev_profit"` // sample stddev
	ProfitP10    float64 `json:"profit_p10"`
	ProfitP90    float64 `json:"profit_p90"`
	MinProfit    int     `json:"min_profit"`
	MaxProfit    int     `json:"max_profit"`

	// Inventory outcomes
	TotalDemand     int     `json:"total_demand"`
	UnitsSold       int     `json:"units_sold"`
	FillRate        float64 `json:"fill_rate"` // units sold / demand
	StockoutDays    int     `json:"stockout_days"`
	ScrapDays       int     `json:"scrap_days"`
	TotalLostProfit int     `json:"total_lost_profit"`
	TotalSalvage    int     `json:"total_salvage"`

	// Path-dependent
	MaxDrawdown          int `json:"max_drawdown"` // worst peak-to-trough of cumulative profit
	MaxConsecutiveLosses int `json:"max_consecutive_losses"`

	DayTypeCounts [NumDayTypes]int `json:"day_type_counts"`
}

// Run kinds stored in RunResult.Kind.
const (
	RunKindOptimize = "optimize"
	RunKindSimulate = "simulate"
	RunKindPipeline = "pipeline"
)

// RunResult is a completed request kept by the result registry.
type RunResult struct {
	RunID        string              `json:"run_id"` // deterministic hash
	Kind         string              `json:"kind"`   // RunKindOptimize | RunKindSimulate | RunKindPipeline
	Seed         uint64              `json:"seed"`
	CreatedAt    time.Time           `json:"created_at"`
	Optimization *OptimizationResult `json:"optimization,omitempty"`
	Ledger       *SimulationRun      `json:"ledger,omitempty"`
	Stats        *RunStats           `json:"stats,omitempty"`
	Replication  *ReplicationSummary `json:"replication,omitempty"`
}

// Clone returns a deep copy of r. Nil sections stay nil.
func (r *RunResult) Clone() *RunResult {
	if r == nil {
		return nil
	}
	out := *r

	if r.Optimization != nil {
		opt := *r.Optimization
		opt.Candidates = append([]int(nil), r.Optimization.Candidates...)
		opt.Evaluations = append([]QuantityEvaluation(nil), r.Optimization.Evaluations...)
		out.Optimization = &opt
	}
	if r.Ledger != nil {
		ledger := *r.Ledger
		ledger.Days = append([]DayRecord(nil), r.Ledger.Days...)
		out.Ledger = &ledger
	}
	if r.Stats != nil {
		stats := *r.Stats
		out.Stats = &stats
	}
	if r.Replication != nil {
		rep := *r.Replication
		rep.TotalProfits = append([]int(nil), r.Replication.TotalProfits...)
		out.Replication = &rep
	}

	return &out
}
