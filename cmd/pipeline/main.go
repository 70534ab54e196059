// Package main is the console entry point: it searches the candidate order
// quantities, simulates the reporting horizon at the best one and writes the
// ledger, its CSV twin and REPORT.md.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"newsvendor-lab/internal/config"
	"newsvendor-lab/internal/pipeline"
	"newsvendor-lab/internal/reporting"
	"newsvendor-lab/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	cfg.RegisterFlags(flag.CommandLine)
	dev := flag.Bool("dev", false, "Human-readable console logging")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.Must(logger.New(cfg.Log.Level, *dev))
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(cfg.ModelConfig(), pipeline.Options{
		Candidates:      cfg.Simulation.Candidates,
		SampleDays:      cfg.Simulation.SampleDays,
		ReportDays:      cfg.Simulation.ReportDays,
		DefaultQuantity: cfg.Simulation.DefaultQuantity,
		Iterations:      cfg.Simulation.Iterations,
		Workers:         cfg.Simulation.Workers,
		Seed:            cfg.Simulation.Seed,
		OutputDir:       cfg.Output.Dir,
		LedgerFile:      cfg.Output.LedgerFile,
		Logger:          log,
	})

	res, err := p.Run(ctx)
	if err != nil {
		log.Fatal("pipeline failed", zap.Error(err))
	}

	fmt.Println("=== Newsvendor Simulation ===")
	fmt.Print(reporting.RenderSummary(res.Report))

	if len(res.Written) > 0 {
		fmt.Println()
		fmt.Println("Files written:")
		for _, path := range res.Written {
			fmt.Printf("  %s\n", path)
		}
	}
	for _, err := range res.WriteErrors {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}
