// Package main serves the optimizer and simulator over HTTP. Completed runs
// are kept in memory for the life of the process. With a report schedule set,
// the full pipeline also runs periodically and its runs join the same store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"newsvendor-lab/internal/config"
	"newsvendor-lab/internal/pipeline"
	"newsvendor-lab/internal/scheduler"
	"newsvendor-lab/internal/server"
	"newsvendor-lab/internal/storage/memory"
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

	baseLogger := logger.Must(logger.New(cfg.Log.Level, *dev))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store := memory.NewRunStore()
	handler := server.NewHandler(cfg, store, logger.Named(baseLogger, "handlers"))
	engine := server.NewRouter(handler, logger.Named(baseLogger, "router"))

	if cfg.Server.ReportSchedule != "" {
		sched, err := scheduler.New(cfg.Server.ReportSchedule, cfg.ModelConfig(), pipeline.Options{
			Candidates:      cfg.Simulation.Candidates,
			SampleDays:      cfg.Simulation.SampleDays,
			ReportDays:      cfg.Simulation.ReportDays,
			DefaultQuantity: cfg.Simulation.DefaultQuantity,
			Iterations:      cfg.Simulation.Iterations,
			Workers:         cfg.Simulation.Workers,
			Seed:            cfg.Simulation.Seed,
			OutputDir:       cfg.Output.Dir,
			LedgerFile:      cfg.Output.LedgerFile,
		}, store, logger.Named(baseLogger, "scheduler"))
		if err != nil {
			baseLogger.Fatal("failed to init scheduler", zap.Error(err))
		}
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	// Large optimize requests run for a while; keep the write timeout generous.
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
