// Package metrics summarizes simulated ledgers.
package metrics

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/stat"

	"newsvendor-lab/internal/domain"
)

// ErrEmptyRun is returned when a run has no days to summarize.
var ErrEmptyRun = errors.New("simulation run has no days")

// ComputeRunStats calculates the profit distribution and inventory outcomes of run.
// Days are taken in ledger order for path-dependent figures.
func ComputeRunStats(run *domain.SimulationRun) (*domain.RunStats, error) {
	if run == nil || len(run.Days) == 0 {
		return nil, ErrEmptyRun
	}

	n := len(run.Days)
	profits := make([]float64, n)
	daily := make([]int, n)

	s := &domain.RunStats{
		Quantity:  run.Quantity,
		Days:      n,
		MinProfit: run.Days[0].DailyProfit,
		MaxProfit: run.Days[0].DailyProfit,
	}

	for i, d := range run.Days {
		profits[i] = float64(d.DailyProfit)
		daily[i] = d.DailyProfit

		s.TotalProfit += d.DailyProfit
		s.MinProfit = min(s.MinProfit, d.DailyProfit)
		s.MaxProfit = max(s.MaxProfit, d.DailyProfit)

		s.TotalDemand += d.Demand
		s.UnitsSold += min(run.Quantity, d.Demand)
		if d.ExcessDemand > 0 {
			s.StockoutDays++
		}
		if d.NumScrap > 0 {
			s.ScrapDays++
		}
		s.TotalLostProfit += d.LostProfitExcess
		s.TotalSalvage += d.SalvageScrap

		if d.DayType.Valid() {
			s.DayTypeCounts[d.DayType]++
		}
	}

	s.MeanProfit = stat.Mean(profits, nil)
	if n > 1 {
		s.StdDevProfit = stat.StdDev(profits, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, profits)
	sort.Float64s(sorted)
	s.MedianProfit = computePercentile(sorted, 0.50)
	s.ProfitP10 = computePercentile(sorted, 0.10)
	s.ProfitP90 = computePercentile(sorted, 0.90)

	s.FillRate = computeFillRate(s.UnitsSold, s.TotalDemand)
	s.MaxDrawdown = computeMaxDrawdown(daily)
	s.MaxConsecutiveLosses = computeMaxConsecutiveLosses(daily)

	return s, nil
}

// computeFillRate is units sold / units demanded; 1 when nothing was demanded.
func computeFillRate(sold, demanded int) float64 {
	if demanded == 0 {
		return 1
	}
	return float64(sold) / float64(demanded)
}

// computePercentile uses linear interpolation between order statistics
// (index p*(n-1)), so the median of an odd-sized sample is its middle value.
// gonum's stat.Quantile with LinInterp indexes by p*n instead and does not.
// sorted must be pre-sorted ASC.
// p is percentile (0.10 = 10th percentile).
func computePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// computeMaxDrawdown calculates worst peak-to-trough on cumulative profit.
// The running peak starts at zero, so early losses count as drawdown.
func computeMaxDrawdown(profits []int) int {
	cumulative := 0
	peak := 0
	maxDrawdown := 0

	for _, p := range profits {
		cumulative += p
		peak = max(peak, cumulative)
		maxDrawdown = max(maxDrawdown, peak-cumulative)
	}
	return maxDrawdown
}

// computeMaxConsecutiveLosses finds longest streak of profit <= 0.
func computeMaxConsecutiveLosses(profits []int) int {
	maxStreak := 0
	currentStreak := 0

	for _, p := range profits {
		if p <= 0 {
			currentStreak++
			maxStreak = max(maxStreak, currentStreak)
		} else {
			currentStreak = 0
		}
	}
	return maxStreak
}
