// Package main re-simulates every day of a CSV ledger from its recorded
// draws and reports any field that does not match.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"newsvendor-lab/internal/config"
	"newsvendor-lab/internal/reporting"
	"newsvendor-lab/internal/verification"
	"newsvendor-lab/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	cfg.RegisterFlags(flag.CommandLine)
	ledgerPath := flag.String("ledger", "", "Ledger CSV to verify, '-' for stdin (required)")
	outputJSON := flag.Bool("json", false, "Output as JSON")
	dev := flag.Bool("dev", false, "Human-readable console logging")
	flag.Parse()

	if *ledgerPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --ledger is required")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.Named(logger.Must(logger.New(cfg.Log.Level, *dev)), "replay")
	defer func() { _ = log.Sync() }()

	var in io.Reader = os.Stdin
	if *ledgerPath != "-" {
		f, err := os.Open(*ledgerPath)
		if err != nil {
			log.Fatal("open ledger", zap.Error(err))
		}
		defer f.Close()
		in = f
	}

	run, err := reporting.ParseLedgerCSV(in)
	if err != nil {
		log.Fatal("parse ledger", zap.String("path", *ledgerPath), zap.Error(err))
	}

	report, err := verification.VerifyRun(cfg.ModelConfig(), run)
	if err != nil {
		log.Fatal("verify ledger", zap.Error(err))
	}

	log.Info("verification complete",
		zap.Int("days", report.TotalDays),
		zap.Int("divergent_days", report.DivergentDays),
	)

	if *outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatal("encode output", zap.Error(err))
		}
	} else {
		fmt.Println("=== Ledger Verification ===")
		fmt.Printf("Order quantity: %d\n", report.Quantity)
		fmt.Printf("Days checked:   %d\n", report.TotalDays)
		fmt.Printf("Matched:        %d\n", report.MatchedDays)
		fmt.Printf("Divergent:      %d\n", report.DivergentDays)
		for _, line := range report.Summary() {
			fmt.Printf("  %s\n", line)
		}
	}

	if !report.Passed() {
		_ = log.Sync()
		os.Exit(1)
	}
}
