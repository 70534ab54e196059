// Package scheduler runs the report pipeline on a cron schedule and keeps each
// result in the run store.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"newsvendor-lab/internal/domain"
	"newsvendor-lab/internal/pipeline"
	"newsvendor-lab/internal/storage"
)

// RunTimeout bounds one scheduled pipeline run.
const RunTimeout = 5 * time.Minute

// Scheduler manages scheduled pipeline runs.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	model  domain.ModelConfig
	opts   pipeline.Options
	store  storage.RunStore
	logger *zap.Logger
}

// New parses spec (standard 5-field cron) and creates a scheduler. Nothing runs until Start.
func New(spec string, model domain.ModelConfig, opts pipeline.Options, store storage.RunStore, logger *zap.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.Logger = logger

	return &Scheduler{
		cron:   cron.New(),
		spec:   spec,
		model:  model,
		opts:   opts,
		store:  store,
		logger: logger,
	}, nil
}

// Start registers the pipeline job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runOnce); err != nil {
		return fmt.Errorf("schedule pipeline: %w", err)
	}
	s.logger.Info("starting scheduler", zap.String("schedule", s.spec))
	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), RunTimeout)
	defer cancel()

	if _, err := s.Run(ctx); err != nil {
		s.logger.Error("scheduled pipeline failed", zap.Error(err))
	}
}

// Run executes one pipeline run and stores its result. A run identical to a
// stored one (same fixed seed and parameters) is not stored twice.
func (s *Scheduler) Run(ctx context.Context) (*domain.RunResult, error) {
	res, err := pipeline.New(s.model, s.opts).Run(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.Insert(ctx, res.Run); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			s.logger.Debug("scheduled run already stored", zap.String("run_id", res.Run.RunID))
			return res.Run, nil
		}
		return nil, fmt.Errorf("store run: %w", err)
	}

	s.logger.Info("scheduled run stored",
		zap.String("run_id", res.Run.RunID),
		zap.Int("best_quantity", res.Run.Optimization.BestQuantity),
	)
	return res.Run, nil
}
