package reporting

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsvendor-lab/internal/accounting"
	"newsvendor-lab/internal/domain"
)

func sampleRun() *domain.SimulationRun {
	econ := domain.DefaultEconomics()
	return &domain.SimulationRun{
		Quantity: 70,
		Days: []domain.DayRecord{
			{
				Day: 1, DayTypeDraw: 0.1049, DayType: domain.DayTypeGood,
				DemandDraw: 0.5, Demand: 80,
				ProfitBreakdown: accounting.Compute(econ, 70, 80),
			},
			{
				Day: 2, DayTypeDraw: 0.91, DayType: domain.DayTypePoor,
				DemandDraw: 0.126, Demand: 40,
				ProfitBreakdown: accounting.Compute(econ, 70, 40),
			},
		},
	}
}

func sampleOptimization() *domain.OptimizationResult {
	return &domain.OptimizationResult{
		Candidates: []int{50, 60, 70},
		SampleDays: 1000,
		Evaluations: []domain.QuantityEvaluation{
			{Quantity: 50, Days: 1000, TotalProfit: 785000, MeanProfit: 785},
			{Quantity: 60, Days: 1000, TotalProfit: 826700, MeanProfit: 826.7},
			{Quantity: 70, Days: 1000, TotalProfit: 749000, MeanProfit: 749},
		},
		BestQuantity:   60,
		BestMeanProfit: 826.7,
	}
}

func TestRenderLedger(t *testing.T) {
	out := RenderLedger(sampleRun())
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, LedgerHeader, lines[0])
	assert.Equal(t, "1\t0.10\tGood\t0.50\t80\t3500\t10\t170\t0\t0\t1190", lines[1])
	assert.Equal(t, "2\t0.91\tPoor\t0.13\t40\t2000\t0\t0\t30\t150\t-160", lines[2])

	for _, l := range lines {
		assert.Len(t, strings.Split(l, "\t"), 11)
	}
}

func TestRenderLedger_Empty(t *testing.T) {
	assert.Equal(t, LedgerHeader+"\n", RenderLedger(&domain.SimulationRun{Quantity: 70}))
}

func TestRenderLedgerCSV(t *testing.T) {
	out := RenderLedgerCSV(sampleRun())
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "day,r1,day_type,r2,"))
	assert.Equal(t, "1,0.1049,Good,0.5,80,3500,10,170,0,0,1190,70", lines[1])
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$11.90", FormatCents(1190))
	assert.Equal(t, "-$1.60", FormatCents(-160))
	assert.Equal(t, "$0.00", FormatCents(0))
	assert.Equal(t, "$0.05", FormatCents(5))

	assert.Equal(t, "$8.27", FormatMeanCents(826.7))
	assert.Equal(t, "-$0.42", FormatMeanCents(-42.4))
}

func TestGenerator_Generate(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator().WithClock(func() time.Time { return fixed })

	r, err := g.Generate(Input{
		RunID:           "abc",
		Seed:            42,
		Economics:       domain.DefaultEconomics(),
		ReportDays:      30,
		DefaultQuantity: 70,
		Iterations:      1,
		Optimization:    sampleOptimization(),
	})
	require.NoError(t, err)

	assert.Equal(t, fixed, r.GeneratedAt)
	assert.Equal(t, 1000, r.Parameters.SampleDays)
	assert.InDelta(t, 17.0/45.0, r.Parameters.CriticalFractile, 1e-12)
	assert.Equal(t, Optimum{Quantity: 60, ExpectedMeanProfit: 826.7}, r.Optimum)

	require.Len(t, r.Candidates, 3)
	assert.False(t, r.Candidates[0].Selected)
	assert.True(t, r.Candidates[1].Selected)
	assert.False(t, r.Candidates[2].Selected)

	require.NotNil(t, r.Baseline)
	assert.Equal(t, 70, r.Baseline.GuessQuantity)
	assert.InDelta(t, 77.7, r.Baseline.Improvement, 1e-9)
}

func TestGenerator_ExactExpectation(t *testing.T) {
	model := domain.DefaultModelConfig()
	r, err := NewGenerator().Generate(Input{
		Economics:    model.Economics,
		Model:        &model,
		Optimization: sampleOptimization(),
	})
	require.NoError(t, err)

	require.True(t, r.HasExact)
	assert.InDelta(t, 785.425, r.Candidates[0].ExactMean, 1e-9)
	assert.InDelta(t, 826.725, r.Candidates[1].ExactMean, 1e-9)
	assert.InDelta(t, 749.0, r.Candidates[2].ExactMean, 1e-9)

	md := RenderMarkdown(r)
	assert.Contains(t, md, "| Exact Expected Profit |")
	assert.Contains(t, md, "| 70 | $7490.00 | $7.49 | $7.49 |  |")

	// Without a model the column is omitted.
	r, err = NewGenerator().Generate(Input{Optimization: sampleOptimization()})
	require.NoError(t, err)
	assert.False(t, r.HasExact)
	assert.NotContains(t, RenderMarkdown(r), "Exact Expected Profit")
}

func TestGenerator_BaselineAbsent(t *testing.T) {
	r, err := NewGenerator().Generate(Input{
		DefaultQuantity: 75,
		Optimization:    sampleOptimization(),
	})
	require.NoError(t, err)
	assert.Nil(t, r.Baseline)
}

func TestGenerator_MissingOptimization(t *testing.T) {
	_, err := NewGenerator().Generate(Input{})
	assert.ErrorIs(t, err, ErrMissingOptimization)
}

func TestRenderMarkdown(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	r, err := NewGenerator().WithClock(func() time.Time { return fixed }).Generate(Input{
		RunID:           "abc",
		Economics:       domain.DefaultEconomics(),
		ReportDays:      2,
		DefaultQuantity: 70,
		Optimization:    sampleOptimization(),
		LedgerStats: &domain.RunStats{
			Quantity:        70,
			Days:            2,
			TotalProfit:     1030,
			MeanProfit:      515,
			TotalLostProfit: 170,
			DayTypeCounts:   [domain.NumDayTypes]int{1, 0, 1},
		},
		Replication: &domain.ReplicationSummary{
			Quantity: 70, Days: 2, Iterations: 3,
			AvgTotalProfit: 1030, AvgDailyProfit: 515,
			MinTotalProfit: -320, MaxTotalProfit: 2380,
		},
		Verification: &VerificationSummary{DaysChecked: 2, Passed: true},
	})
	require.NoError(t, err)

	md := RenderMarkdown(r)

	assert.Contains(t, md, "# Newsvendor Simulation Report")
	assert.Contains(t, md, "Generated: 2024-03-01T12:00:00Z")
	assert.Contains(t, md, "| Sell Price | $0.50 |")
	assert.Contains(t, md, "| 60 | $8267.00 | $8.27 | yes |")
	assert.Contains(t, md, "Order **60** papers per day")
	assert.Contains(t, md, "default guess of 70")
	assert.Contains(t, md, "| Lost Profit (not deducted) | $1.70 |")
	assert.Contains(t, md, "| Day Types (Good/Fair/Poor) | 1 / 0 / 1 |")
	assert.Contains(t, md, "| Min Total Profit | -$3.20 |")
	assert.Contains(t, md, "**PASS**: 2 days replayed")
}

func TestRenderMarkdown_NoLedger(t *testing.T) {
	r, err := NewGenerator().Generate(Input{Optimization: sampleOptimization()})
	require.NoError(t, err)

	md := RenderMarkdown(r)
	assert.Contains(t, md, "No ledger simulated.")
	assert.NotContains(t, md, "## Replications")
	assert.NotContains(t, md, "## Ledger Verification")
}

func TestRenderSummary(t *testing.T) {
	r, err := NewGenerator().Generate(Input{
		Optimization: sampleOptimization(),
		LedgerStats:  &domain.RunStats{Days: 30, MeanProfit: 901.5},
	})
	require.NoError(t, err)

	out := RenderSummary(r)
	assert.Contains(t, out, "Quantity  50: average daily profit $7.85\n")
	assert.Contains(t, out, "Optimal order quantity: 60\n")
	assert.Contains(t, out, "Expected average daily profit: $8.27\n")
	assert.Contains(t, out, "Realized average daily profit over 30 days: $9.02\n")
}

func TestParseLedgerCSV_RoundTrip(t *testing.T) {
	run := sampleRun()
	run.Days[0].DayTypeDraw = math.Nextafter(0.35, 0)
	run.Days[1].DemandDraw = 1.0 / 3.0

	parsed, err := ParseLedgerCSV(strings.NewReader(RenderLedgerCSV(run)))
	require.NoError(t, err)

	assert.Equal(t, run.Quantity, parsed.Quantity)
	assert.Equal(t, run.Days, parsed.Days)
}

func TestParseLedgerCSV_Errors(t *testing.T) {
	header := strings.Join(LedgerCSVColumns, ",") + "\n"

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", "day,r1\n"},
		{"short row", header + "1,0.5,Good\n"},
		{"bad day type", header + "1,0.5,Great,0.5,80,3500,10,170,0,0,1190,70\n"},
		{"bad draw", header + "1,x,Good,0.5,80,3500,10,170,0,0,1190,70\n"},
		{"mixed quantity", header +
			"1,0.5,Good,0.5,80,3500,10,170,0,0,1190,70\n" +
			"2,0.5,Good,0.5,80,3500,10,170,0,0,1190,60\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLedgerCSV(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrMalformedLedger)
		})
	}
}

func TestParseLedgerCSV_HeaderOnly(t *testing.T) {
	run, err := ParseLedgerCSV(strings.NewReader(strings.Join(LedgerCSVColumns, ",") + "\n"))
	require.NoError(t, err)
	assert.Empty(t, run.Days)
	assert.Zero(t, run.Quantity)
}
