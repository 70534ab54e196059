// Package pipeline runs the full optimize, simulate, verify and report flow.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"newsvendor-lab/internal/domain"
	"newsvendor-lab/internal/idhash"
	"newsvendor-lab/internal/metrics"
	"newsvendor-lab/internal/observability"
	"newsvendor-lab/internal/optimizer"
	"newsvendor-lab/internal/reporting"
	"newsvendor-lab/internal/simulation"
	"newsvendor-lab/internal/verification"
)

// Output file names
const (
	DefaultLedgerFile = "newspaper_simulation.txt"
	ReportFile        = "REPORT.md"
)

// Report formats, used as metric labels.
const (
	FormatLedger   = "ledger"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// Options contains configuration for creating a Pipeline.
type Options struct {
	Candidates      []int
	SampleDays      int // days simulated per candidate
	ReportDays      int // ledger horizon at the chosen quantity
	DefaultQuantity int // guess compared against the optimum
	Iterations      int // replications of the ledger horizon; <= 1 skips them
	Workers         int

	// Seed drives every random stream of the run. Zero draws a fresh seed.
	Seed uint64

	// OutputDir receives the report files. Empty disables writing.
	OutputDir  string
	LedgerFile string

	Logger *zap.Logger
}

// Result is everything one pipeline run produced.
type Result struct {
	Run          *domain.RunResult
	Report       *reporting.Report
	Verification *verification.VerificationReport

	// Written lists the files that reached disk.
	Written []string
	// WriteErrors holds write failures; they never fail the run.
	WriteErrors []error
}

// Pipeline orchestrates the optimize-then-report flow.
type Pipeline struct {
	cfg       domain.ModelConfig
	opts      Options
	reportGen *reporting.Generator
	clock     func() time.Time
	logger    *zap.Logger
}

// New creates a new pipeline.
func New(cfg domain.ModelConfig, opts Options) *Pipeline {
	if opts.LedgerFile == "" {
		opts.LedgerFile = DefaultLedgerFile
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		cfg:       cfg,
		opts:      opts,
		reportGen: reporting.NewGenerator(),
		clock:     func() time.Time { return time.Now().UTC() },
		logger:    logger.Named("pipeline"),
	}
}

// WithClock sets a custom clock function for deterministic output.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	p.reportGen = p.reportGen.WithClock(clock)
	return p
}

// Run executes the pipeline:
//  1. Optimize over the candidate set
//  2. Simulate the reporting horizon at the chosen quantity
//  3. Replay the ledger to verify it
//  4. Compute ledger statistics and optional replications
//  5. Write the ledger, its CSV twin and REPORT.md
//
// Invalid configuration fails the run before any simulation. File write
// failures are logged and collected in Result.WriteErrors.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res, err := p.run(ctx)
	status := observability.StatusSuccess
	if err != nil {
		status = observability.StatusError
	}
	observability.RecordPipelineRun(status, float64(p.clock().Unix()))
	return res, err
}

func (p *Pipeline) run(ctx context.Context) (*Result, error) {
	o := p.opts
	if o.ReportDays <= 0 {
		return nil, fmt.Errorf("report days: %w", simulation.ErrInvalidDays)
	}

	seed := o.Seed
	if seed == 0 {
		seed = simulation.RandomSeed()
	}
	p.logger.Info("pipeline started", zap.Uint64("seed", seed))

	// Candidates use streams 0..n-1; the ledger and replications take the next two.
	opt, err := optimizer.New(p.cfg, optimizer.Options{
		Sources: optimizer.SeededSources(seed),
		Workers: o.Workers,
		Logger:  p.logger,
	})
	if err != nil {
		return nil, err
	}

	optResult, err := opt.Optimize(ctx, o.Candidates, o.SampleDays)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	ledgerStream := uint64(len(o.Candidates))
	engine, err := simulation.NewEngine(p.cfg, simulation.NewSource(seed, ledgerStream))
	if err != nil {
		return nil, err
	}

	ledger, err := engine.Simulate(optResult.BestQuantity, o.ReportDays)
	if err != nil {
		return nil, fmt.Errorf("simulate ledger: %w", err)
	}

	verified, err := verification.VerifyRun(p.cfg, ledger)
	if err != nil {
		return nil, fmt.Errorf("verify ledger: %w", err)
	}
	if !verified.Passed() {
		p.logger.Warn("ledger verification failed",
			zap.Int("divergent_days", verified.DivergentDays),
			zap.Strings("first_divergences", verified.Summary()),
		)
	}

	stats, err := metrics.ComputeRunStats(ledger)
	if err != nil {
		return nil, err
	}

	var replication *domain.ReplicationSummary
	if o.Iterations > 1 {
		repEngine, err := simulation.NewEngine(p.cfg, simulation.NewSource(seed, ledgerStream+1))
		if err != nil {
			return nil, err
		}
		replication, err = repEngine.Replicate(optResult.BestQuantity, o.ReportDays, o.Iterations)
		if err != nil {
			return nil, fmt.Errorf("replicate: %w", err)
		}
	}

	runID := idhash.ComputePipelineRunID(seed, p.cfg.Economics, o.Candidates, o.SampleDays,
		max(o.Iterations, 1), o.ReportDays, o.DefaultQuantity)

	report, err := p.reportGen.Generate(reporting.Input{
		RunID:           runID,
		Seed:            seed,
		Economics:       p.cfg.Economics,
		ReportDays:      o.ReportDays,
		DefaultQuantity: o.DefaultQuantity,
		Iterations:      max(o.Iterations, 1),
		Model:           &p.cfg,
		Optimization:    optResult,
		LedgerStats:     stats,
		Replication:     replication,
		Verification: &reporting.VerificationSummary{
			DaysChecked: verified.TotalDays,
			Divergences: verified.Divergences(),
			Passed:      verified.Passed(),
		},
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Run: &domain.RunResult{
			RunID:        runID,
			Kind:         domain.RunKindPipeline,
			Seed:         seed,
			CreatedAt:    report.GeneratedAt,
			Optimization: optResult,
			Ledger:       ledger,
			Stats:        stats,
			Replication:  replication,
		},
		Report:       report,
		Verification: verified,
	}

	if o.OutputDir != "" {
		p.writeOutputs(result, ledger)
	}

	p.logger.Info("pipeline complete",
		zap.String("run_id", runID),
		zap.Int("best_quantity", optResult.BestQuantity),
		zap.Int("files_written", len(result.Written)),
	)

	return result, nil
}

func (p *Pipeline) writeOutputs(result *Result, ledger *domain.SimulationRun) {
	dir := p.opts.OutputDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		p.logger.Error("report write failed", zap.String("dir", dir), zap.Error(err))
		result.WriteErrors = append(result.WriteErrors, err)
		for _, format := range []string{FormatLedger, FormatCSV, FormatMarkdown} {
			observability.RecordReportWrite(format, err)
		}
		return
	}

	csvFile := strings.TrimSuffix(p.opts.LedgerFile, filepath.Ext(p.opts.LedgerFile)) + ".csv"

	outputs := []struct {
		format  string
		name    string
		content string
	}{
		{FormatLedger, p.opts.LedgerFile, reporting.RenderLedger(ledger)},
		{FormatCSV, csvFile, reporting.RenderLedgerCSV(ledger)},
		{FormatMarkdown, ReportFile, reporting.RenderMarkdown(result.Report)},
	}

	for _, out := range outputs {
		path := filepath.Join(dir, out.name)
		err := os.WriteFile(path, []byte(out.content), 0644)
		observability.RecordReportWrite(out.format, err)
		if err != nil {
			p.logger.Error("report write failed", zap.String("path", path), zap.Error(err))
			result.WriteErrors = append(result.WriteErrors, fmt.Errorf("write %s: %w", out.name, err))
			continue
		}
		p.logger.Info("report written", zap.String("path", path))
		result.Written = append(result.Written, path)
	}
}
