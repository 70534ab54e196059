package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"newsvendor-lab/internal/domain"
	"newsvendor-lab/internal/optimizer"
	"newsvendor-lab/internal/reporting"
	"newsvendor-lab/internal/simulation"
	"newsvendor-lab/internal/verification"
)

var fixedTime = time.Date(2025, 1, 4, 12, 0, 0, 0, time.UTC)

func testOptions(t *testing.T, dir string) Options {
	return Options{
		Candidates:      []int{40, 50, 60, 70, 80, 90, 100},
		SampleDays:      1000,
		ReportDays:      30,
		DefaultQuantity: 70,
		Iterations:      3,
		Workers:         2,
		Seed:            42,
		OutputDir:       dir,
		Logger:          zaptest.NewLogger(t),
	}
}

func TestPipeline_Run(t *testing.T) {
	dir := t.TempDir()

	res, err := New(domain.DefaultModelConfig(), testOptions(t, dir)).
		WithClock(func() time.Time { return fixedTime }).
		Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, res.WriteErrors)
	assert.Len(t, res.Written, 3)
	for _, f := range []string{DefaultLedgerFile, "newspaper_simulation.csv", ReportFile} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, f)
	}

	ledger, err := os.ReadFile(filepath.Join(dir, DefaultLedgerFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(ledger), "\n"), "\n")
	require.Len(t, lines, 31)
	assert.Equal(t, reporting.LedgerHeader, lines[0])

	run := res.Run
	assert.Equal(t, uint64(42), run.Seed)
	assert.Equal(t, domain.RunKindPipeline, run.Kind)
	assert.Len(t, run.RunID, 64)
	assert.Equal(t, fixedTime, run.CreatedAt)
	assert.Equal(t, run.Optimization.BestQuantity, run.Ledger.Quantity)
	assert.Len(t, run.Ledger.Days, 30)
	assert.Equal(t, run.Ledger.TotalProfit(), run.Stats.TotalProfit)
	require.NotNil(t, run.Replication)
	assert.Equal(t, 3, run.Replication.Iterations)

	assert.True(t, res.Verification.Passed())
	assert.True(t, res.Report.Verification.Passed)
	require.NotNil(t, res.Report.Baseline)
	assert.Equal(t, 70, res.Report.Baseline.GuessQuantity)

	md, err := os.ReadFile(filepath.Join(dir, ReportFile))
	require.NoError(t, err)
	assert.Contains(t, string(md), "## Replications")
	assert.Contains(t, string(md), "Exact Expected Profit")
	assert.True(t, res.Report.HasExact)
}

func TestPipeline_Deterministic(t *testing.T) {
	var outputs [2]map[string]string

	for i := range outputs {
		dir := t.TempDir()
		_, err := New(domain.DefaultModelConfig(), testOptions(t, dir)).
			WithClock(func() time.Time { return fixedTime }).
			Run(context.Background())
		require.NoError(t, err)

		outputs[i] = make(map[string]string)
		for _, f := range []string{DefaultLedgerFile, "newspaper_simulation.csv", ReportFile} {
			b, err := os.ReadFile(filepath.Join(dir, f))
			require.NoError(t, err)
			outputs[i][f] = string(b)
		}
	}

	assert.Equal(t, outputs[0], outputs[1])
}

func TestPipeline_LedgerStreamIndependentOfCandidates(t *testing.T) {
	opts := testOptions(t, "")
	res, err := New(domain.DefaultModelConfig(), opts).Run(context.Background())
	require.NoError(t, err)

	// The ledger uses the stream after the last candidate.
	engine, err := simulation.NewEngine(domain.DefaultModelConfig(), simulation.NewSource(42, uint64(len(opts.Candidates))))
	require.NoError(t, err)
	want, err := engine.Simulate(res.Run.Optimization.BestQuantity, 30)
	require.NoError(t, err)

	assert.Equal(t, want, res.Run.Ledger)
	assert.Empty(t, res.Written)
}

func TestPipeline_WriteFailureIsNotFatal(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	res, err := New(domain.DefaultModelConfig(), testOptions(t, blocker)).Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, res.WriteErrors)
	assert.Empty(t, res.Written)
	assert.NotNil(t, res.Run.Ledger)
}

func TestPipeline_InvalidConfiguration(t *testing.T) {
	ctx := context.Background()

	opts := testOptions(t, t.TempDir())
	opts.Candidates = nil
	_, err := New(domain.DefaultModelConfig(), opts).Run(ctx)
	assert.ErrorIs(t, err, optimizer.ErrNoCandidates)

	opts = testOptions(t, t.TempDir())
	opts.ReportDays = 0
	_, err = New(domain.DefaultModelConfig(), opts).Run(ctx)
	assert.ErrorIs(t, err, simulation.ErrInvalidDays)

	opts = testOptions(t, t.TempDir())
	opts.Candidates = []int{40, -5}
	_, err = New(domain.DefaultModelConfig(), opts).Run(ctx)
	assert.ErrorIs(t, err, simulation.ErrInvalidQuantity)
}

func TestPipeline_CustomLedgerFile(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(t, dir)
	opts.LedgerFile = "ledger.tsv"
	opts.Iterations = 0

	res, err := New(domain.DefaultModelConfig(), opts).Run(context.Background())
	require.NoError(t, err)

	assert.Nil(t, res.Run.Replication)
	assert.FileExists(t, filepath.Join(dir, "ledger.tsv"))
	assert.FileExists(t, filepath.Join(dir, "ledger.csv"))
}

func TestPipeline_WrittenCSVReplays(t *testing.T) {
	dir := t.TempDir()
	res, err := New(domain.DefaultModelConfig(), testOptions(t, dir)).Run(context.Background())
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "newspaper_simulation.csv"))
	require.NoError(t, err)
	defer f.Close()

	parsed, err := reporting.ParseLedgerCSV(f)
	require.NoError(t, err)
	assert.Equal(t, res.Run.Ledger, parsed)

	report, err := verification.VerifyRun(domain.DefaultModelConfig(), parsed)
	require.NoError(t, err)
	assert.True(t, report.Passed())
}

func TestPipeline_RunIDCoversLedgerSettings(t *testing.T) {
	ctx := context.Background()
	ids := make(map[string]int)

	for _, mutate := range []func(o *Options){
		func(o *Options) {},
		func(o *Options) { o.ReportDays = 60 },
		func(o *Options) { o.DefaultQuantity = 50 },
	} {
		opts := testOptions(t, "")
		mutate(&opts)

		res, err := New(domain.DefaultModelConfig(), opts).Run(ctx)
		require.NoError(t, err)
		require.Len(t, res.Run.Ledger.Days, opts.ReportDays)
		ids[res.Run.RunID]++
	}

	assert.Len(t, ids, 3)
}
