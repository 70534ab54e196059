package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"newsvendor-lab/internal/domain"
	"newsvendor-lab/internal/idhash"
	"newsvendor-lab/internal/pipeline"
	"newsvendor-lab/internal/storage/memory"
)

func testOptions() pipeline.Options {
	return pipeline.Options{
		Candidates:      []int{50, 60, 70},
		SampleDays:      200,
		ReportDays:      10,
		DefaultQuantity: 70,
		Iterations:      1,
		Workers:         1,
		Seed:            7,
	}
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New("every now and then", domain.DefaultModelConfig(), testOptions(), memory.NewRunStore(), nil)
	assert.Error(t, err)

	_, err = New("*/5 * * * *", domain.DefaultModelConfig(), testOptions(), memory.NewRunStore(), nil)
	assert.NoError(t, err)
}

func TestScheduler_RunStoresResult(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRunStore()

	s, err := New("@hourly", domain.DefaultModelConfig(), testOptions(), store, zaptest.NewLogger(t))
	require.NoError(t, err)

	run, err := s.Run(ctx)
	require.NoError(t, err)

	stored, err := store.GetByID(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunKindPipeline, stored.Kind)
	assert.Equal(t, uint64(7), stored.Seed)
	assert.Len(t, stored.Ledger.Days, 10)

	// A fixed seed reproduces the run; it is stored once.
	again, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, run.RunID, again.RunID)

	runs, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestScheduler_RunPropagatesPipelineError(t *testing.T) {
	opts := testOptions()
	opts.Candidates = nil

	s, err := New("@hourly", domain.DefaultModelConfig(), opts, memory.NewRunStore(), nil)
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	assert.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := New("@hourly", domain.DefaultModelConfig(), testOptions(), memory.NewRunStore(), nil)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	s.Stop()
}

func TestScheduler_OptimizeRunDoesNotShadowPipelineRun(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRunStore()
	opts := testOptions()
	econ := domain.DefaultEconomics()

	// An optimize result over the same seed and candidates, as the HTTP API stores it.
	optimizeID := idhash.ComputeRunID(domain.RunKindOptimize, opts.Seed, econ, opts.Candidates, opts.SampleDays, 1)
	require.NoError(t, store.Insert(ctx, &domain.RunResult{
		RunID:        optimizeID,
		Kind:         domain.RunKindOptimize,
		Seed:         opts.Seed,
		Optimization: &domain.OptimizationResult{BestQuantity: 60},
	}))

	s, err := New("@hourly", domain.DefaultModelConfig(), opts, store, nil)
	require.NoError(t, err)

	run, err := s.Run(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, optimizeID, run.RunID)

	stored, err := store.GetByID(ctx, run.RunID)
	require.NoError(t, err)
	require.NotNil(t, stored.Ledger)
	assert.Len(t, stored.Ledger.Days, opts.ReportDays)

	runs, err := store.List(ctx, domain.RunKindPipeline)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
