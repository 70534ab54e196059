// Package main prints mean daily profit across an evenly spaced range of
// order quantities.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"newsvendor-lab/internal/config"
	"newsvendor-lab/internal/optimizer"
	"newsvendor-lab/internal/reporting"
	"newsvendor-lab/internal/simulation"
	"newsvendor-lab/pkg/logger"
)

const barWidth = 40

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	cfg.RegisterFlags(flag.CommandLine)
	minQty := flag.Int("min", 30, "Smallest order quantity")
	maxQty := flag.Int("max", 110, "Largest order quantity")
	step := flag.Int("step", 5, "Quantity step")
	dev := flag.Bool("dev", false, "Human-readable console logging")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	quantities, err := optimizer.QuantityRange(*minQty, *maxQty, *step)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.Must(logger.New(cfg.Log.Level, *dev))
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = simulation.RandomSeed()
	}

	opt, err := optimizer.New(cfg.ModelConfig(), optimizer.Options{
		Sources: optimizer.SeededSources(seed),
		Workers: cfg.Simulation.Workers,
		Logger:  log,
	})
	if err != nil {
		log.Fatal("invalid model", zap.Error(err))
	}

	result, err := opt.Optimize(ctx, quantities, cfg.Simulation.SampleDays)
	if err != nil {
		log.Fatal("sweep failed", zap.Error(err))
	}

	peak := math.Abs(result.BestMeanProfit)
	for _, e := range result.Evaluations {
		peak = math.Max(peak, math.Abs(e.MeanProfit))
	}

	fmt.Printf("=== Profit vs Quantity (%d days each, seed %d) ===\n", cfg.Simulation.SampleDays, seed)
	fmt.Printf("Critical fractile: %.4f\n\n", cfg.Economics.CriticalFractile())
	for _, e := range result.Evaluations {
		marker := " "
		if e.Quantity == result.BestQuantity {
			marker = "*"
		}
		fmt.Printf("%s %4d  %12s  %s\n", marker, e.Quantity, reporting.FormatMeanCents(e.MeanProfit), bar(e.MeanProfit, peak))
	}
	fmt.Printf("\nBest: %d at %s per day\n", result.BestQuantity, reporting.FormatMeanCents(result.BestMeanProfit))
}

// bar scales v against peak. Losses render with '-'.
func bar(v, peak float64) string {
	if peak == 0 {
		return ""
	}
	n := int(math.Round(math.Abs(v) / peak * barWidth))
	if v < 0 {
		return strings.Repeat("-", n)
	}
	return strings.Repeat("#", n)
}
