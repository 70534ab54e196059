// Package main simulates a fixed order quantity and prints its ledger.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"newsvendor-lab/internal/config"
	"newsvendor-lab/internal/domain"
	"newsvendor-lab/internal/metrics"
	"newsvendor-lab/internal/reporting"
	"newsvendor-lab/internal/simulation"
	"newsvendor-lab/pkg/logger"
)

type output struct {
	Seed        uint64                     `json:"seed"`
	Ledger      *domain.SimulationRun      `json:"ledger"`
	Stats       *domain.RunStats           `json:"stats"`
	Replication *domain.ReplicationSummary `json:"replication,omitempty"`
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	cfg.RegisterFlags(flag.CommandLine)
	outputJSON := flag.Bool("json", false, "Output as JSON")
	csvOut := flag.Bool("csv", false, "Print the ledger as CSV instead of tab-delimited text")
	dev := flag.Bool("dev", false, "Human-readable console logging")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.Named(logger.Must(logger.New(cfg.Log.Level, *dev)), "simulate")
	defer func() { _ = log.Sync() }()

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = simulation.RandomSeed()
	}
	quantity := cfg.Simulation.DefaultQuantity
	days := cfg.Simulation.ReportDays
	model := cfg.ModelConfig()

	// Stream 0 feeds the ledger, stream 1 the replications.
	engine, err := simulation.NewEngine(model, simulation.NewSource(seed, 0))
	if err != nil {
		log.Fatal("invalid model", zap.Error(err))
	}
	run, err := engine.Simulate(quantity, days)
	if err != nil {
		log.Fatal("simulation failed", zap.Error(err))
	}

	stats, err := metrics.ComputeRunStats(run)
	if err != nil {
		log.Fatal("compute stats", zap.Error(err))
	}

	var replication *domain.ReplicationSummary
	if cfg.Simulation.Iterations > 1 {
		repEngine, err := simulation.NewEngine(model, simulation.NewSource(seed, 1))
		if err != nil {
			log.Fatal("invalid model", zap.Error(err))
		}
		replication, err = repEngine.Replicate(quantity, days, cfg.Simulation.Iterations)
		if err != nil {
			log.Fatal("replication failed", zap.Error(err))
		}
	}

	log.Info("simulation complete",
		zap.Uint64("seed", seed),
		zap.Int("quantity", quantity),
		zap.Int("days", days),
		zap.Int("total_profit", run.TotalProfit()),
	)

	if *outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(output{Seed: seed, Ledger: run, Stats: stats, Replication: replication}); err != nil {
			log.Fatal("encode output", zap.Error(err))
		}
		return
	}

	if *csvOut {
		fmt.Print(reporting.RenderLedgerCSV(run))
		return
	}

	fmt.Print(reporting.RenderLedger(run))
	fmt.Println()
	fmt.Printf("Seed:                 %d\n", seed)
	fmt.Printf("Order quantity:       %d\n", quantity)
	fmt.Printf("Total profit:         %s\n", reporting.FormatCents(stats.TotalProfit))
	fmt.Printf("Average daily profit: %s\n", reporting.FormatMeanCents(stats.MeanProfit))
	fmt.Printf("Lost profit (not deducted): %s\n", reporting.FormatCents(stats.TotalLostProfit))
	fmt.Printf("Stockout days: %d, scrap days: %d\n", stats.StockoutDays, stats.ScrapDays)
	if replication != nil {
		fmt.Printf("Across %d iterations: average total %s, min %s, max %s\n",
			replication.Iterations, reporting.FormatMeanCents(replication.AvgTotalProfit),
			reporting.FormatCents(replication.MinTotalProfit), reporting.FormatCents(replication.MaxTotalProfit))
	}
}
