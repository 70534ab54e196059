package accounting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"newsvendor-lab/internal/domain"
)

func TestCompute(t *testing.T) {
	econ := domain.DefaultEconomics()

	tests := []struct {
		name     string
		quantity int
		demand   int
		want     domain.ProfitBreakdown
	}{
		{
			name:     "demand matches order",
			quantity: 70,
			demand:   70,
			want: domain.ProfitBreakdown{
				Revenue:     3500,
				DailyProfit: 1190,
			},
		},
		{
			name:     "over-ordered",
			quantity: 70,
			demand:   40,
			want: domain.ProfitBreakdown{
				Revenue:      2000,
				NumScrap:     30,
				SalvageScrap: 150,
				DailyProfit:  -160,
			},
		},
		{
			name:     "under-ordered keeps lost profit out of daily profit",
			quantity: 40,
			demand:   70,
			want: domain.ProfitBreakdown{
				Revenue:          2000,
				ExcessDemand:     30,
				LostProfitExcess: 510,
				DailyProfit:      680,
			},
		},
		{
			name:     "zero demand",
			quantity: 50,
			demand:   0,
			want: domain.ProfitBreakdown{
				NumScrap:     50,
				SalvageScrap: 250,
				DailyProfit:  250 - 1650,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Compute(econ, tc.quantity, tc.demand))
		})
	}
}

func TestCompute_ProfitPeaksAtDemand(t *testing.T) {
	econ := domain.DefaultEconomics()
	demand := 60

	best := Compute(econ, demand, demand).DailyProfit
	for q := 1; q <= 120; q++ {
		if q == demand {
			continue
		}
		assert.Less(t, Compute(econ, q, demand).DailyProfit, best, "q=%d", q)
	}
}

func TestCompute_Monotonicity(t *testing.T) {
	econ := domain.DefaultEconomics()
	demand := 70

	// Above demand each extra unit costs C - S.
	for q := demand; q < 100; q += 10 {
		lo := Compute(econ, q, demand)
		hi := Compute(econ, q+10, demand)
		assert.Less(t, hi.DailyProfit, lo.DailyProfit)
		assert.Equal(t, lo.DailyProfit-hi.DailyProfit, 10*(econ.UnitCost-econ.ScrapValue))
	}

	// Below demand each missing unit loses revenue.
	for q := 40; q < demand; q += 10 {
		lo := Compute(econ, q, demand)
		hi := Compute(econ, q+10, demand)
		assert.Less(t, lo.Revenue, hi.Revenue)
	}
}

func TestExpectedProfit_PeaksNearCriticalFractile(t *testing.T) {
	cfg := domain.DefaultModelConfig()

	best, bestQ := ExpectedProfit(cfg, 40), 40
	for q := 50; q <= 100; q += 10 {
		if p := ExpectedProfit(cfg, q); p > best {
			best, bestQ = p, q
		}
	}

	assert.Contains(t, []int{60, 70}, bestQ)
	assert.Greater(t, best, 0.0)
}
