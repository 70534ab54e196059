// Package optimizer searches a fixed candidate set for the order quantity
// with the highest sample mean daily profit.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"newsvendor-lab/internal/domain"
	"newsvendor-lab/internal/observability"
	"newsvendor-lab/internal/simulation"
)

// Optimizer errors
var (
	ErrNoCandidates = errors.New("candidate set is empty")
	ErrInvalidRange = errors.New("invalid quantity range")
)

// SourceFactory returns the random source used to evaluate the candidate at index i.
// Each call must return a source that is not shared with any other index.
type SourceFactory func(i int) simulation.RandomSource

// SeededSources derives one independent PCG stream per candidate index from seed.
// Results then depend only on seed and candidate order, not on worker count.
func SeededSources(seed uint64) SourceFactory {
	return func(i int) simulation.RandomSource {
		return simulation.NewSource(seed, uint64(i))
	}
}

// Options contains configuration for creating an Optimizer.
type Options struct {
	// Sources supplies per-candidate randomness. Nil uses SeededSources
	// with a fresh random seed, so results are not reproducible.
	Sources SourceFactory

	// Workers bounds concurrent candidate evaluations. Values below 1 mean 1.
	Workers int

	Logger *zap.Logger
}

// Optimizer evaluates candidate order quantities by simulation.
type Optimizer struct {
	cfg     domain.ModelConfig
	sources SourceFactory
	workers int
	logger  *zap.Logger
}

// New validates cfg and creates an Optimizer.
func New(cfg domain.ModelConfig, opts Options) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sources := opts.Sources
	if sources == nil {
		sources = SeededSources(simulation.RandomSeed())
	}
	workers := max(opts.Workers, 1)
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Optimizer{
		cfg:     cfg,
		sources: sources,
		workers: workers,
		logger:  logger.Named("optimizer"),
	}, nil
}

// Optimize simulates days days for every candidate and returns the candidate with
// the highest mean daily profit. Ties keep the first candidate in order.
// Arguments are validated before any simulation starts.
func (o *Optimizer) Optimize(ctx context.Context, candidates []int, days int) (*domain.OptimizationResult, error) {
	start := time.Now()

	result, err := o.optimize(ctx, candidates, days)
	status := observability.StatusSuccess
	if err != nil {
		status = observability.StatusError
	}
	observability.RecordOptimization(status, time.Since(start).Seconds())

	return result, err
}

func (o *Optimizer) optimize(ctx context.Context, candidates []int, days int) (*domain.OptimizationResult, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if days <= 0 {
		return nil, simulation.ErrInvalidDays
	}
	for _, q := range candidates {
		if q <= 0 {
			return nil, fmt.Errorf("candidate %d: %w", q, simulation.ErrInvalidQuantity)
		}
	}

	o.logger.Info("optimization started",
		zap.Ints("candidates", candidates),
		zap.Int("sample_days", days),
		zap.Int("workers", o.workers),
	)

	evals := make([]domain.QuantityEvaluation, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i, q := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			eval, err := o.evaluate(q, days, o.sources(i))
			if err != nil {
				return fmt.Errorf("candidate %d: %w", q, err)
			}
			evals[i] = eval

			o.logger.Debug("candidate evaluated",
				zap.Int("quantity", q),
				zap.Float64("mean_profit", eval.MeanProfit),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := selectBest(evals)

	for _, e := range evals {
		observability.SetCandidateMeanProfit(e.Quantity, e.MeanProfit)
	}
	observability.SetSelectedQuantity(best.Quantity)

	o.logger.Info("optimization complete",
		zap.Int("best_quantity", best.Quantity),
		zap.Float64("best_mean_profit", best.MeanProfit),
	)

	cands := make([]int, len(candidates))
	copy(cands, candidates)

	return &domain.OptimizationResult{
		Candidates:     cands,
		SampleDays:     days,
		Evaluations:    evals,
		BestQuantity:   best.Quantity,
		BestMeanProfit: best.MeanProfit,
	}, nil
}

func (o *Optimizer) evaluate(quantity, days int, src simulation.RandomSource) (domain.QuantityEvaluation, error) {
	engine, err := simulation.NewEngine(o.cfg, src)
	if err != nil {
		return domain.QuantityEvaluation{}, err
	}

	run, err := engine.Simulate(quantity, days)
	if err != nil {
		return domain.QuantityEvaluation{}, err
	}

	return domain.QuantityEvaluation{
		Quantity:    quantity,
		Days:        days,
		TotalProfit: run.TotalProfit(),
		MeanProfit:  run.MeanProfit(),
	}, nil
}

// selectBest scans in order and replaces the incumbent only on a strictly greater mean.
func selectBest(evals []domain.QuantityEvaluation) domain.QuantityEvaluation {
	best := evals[0]
	for _, e := range evals[1:] {
		if e.MeanProfit > best.MeanProfit {
			best = e
		}
	}
	return best
}

// QuantityRange returns min, min+step, ... up to and including max when reachable.
func QuantityRange(minQty, maxQty, step int) ([]int, error) {
	if minQty <= 0 || minQty >= maxQty || step <= 0 {
		return nil, fmt.Errorf("%w: min=%d max=%d step=%d", ErrInvalidRange, minQty, maxQty, step)
	}

	out := make([]int, 0, (maxQty-minQty)/step+1)
	for q := minQty; q <= maxQty; q += step {
		out = append(out, q)
	}
	return out, nil
}
