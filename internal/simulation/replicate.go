package simulation

import (
	"newsvendor-lab/internal/domain"
)

// Replicate runs iterations independent ledgers of days each at quantity and
// summarizes their total profits. Each iteration continues the engine's stream.
func (e *Engine) Replicate(quantity, days, iterations int) (*domain.ReplicationSummary, error) {
	if iterations <= 0 {
		return nil, ErrInvalidIterations
	}

	totals := make([]int, 0, iterations)
	for i := 0; i < iterations; i++ {
		run, err := e.Simulate(quantity, days)
		if err != nil {
			return nil, err
		}
		totals = append(totals, run.TotalProfit())
	}

	sum := 0
	minTotal, maxTotal := totals[0], totals[0]
	for _, t := range totals {
		sum += t
		minTotal = min(minTotal, t)
		maxTotal = max(maxTotal, t)
	}
	avgTotal := float64(sum) / float64(iterations)

	return &domain.ReplicationSummary{
		Quantity:       quantity,
		Days:           days,
		Iterations:     iterations,
		TotalProfits:   totals,
		AvgTotalProfit: avgTotal,
		AvgDailyProfit: avgTotal / float64(days),
		MinTotalProfit: minTotal,
		MaxTotalProfit: maxTotal,
	}, nil
}
