// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"newsvendor-lab/internal/domain"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Environment variable names
const (
	EnvSellPrice       = "NEWSVENDOR_SELL_PRICE"
	EnvUnitCost        = "NEWSVENDOR_UNIT_COST"
	EnvScrapValue      = "NEWSVENDOR_SCRAP_VALUE"
	EnvReportDays      = "NEWSVENDOR_REPORT_DAYS"
	EnvDefaultQuantity = "NEWSVENDOR_DEFAULT_QUANTITY"
	EnvCandidates      = "NEWSVENDOR_CANDIDATES"
	EnvSampleDays      = "NEWSVENDOR_SAMPLE_DAYS"
	EnvIterations      = "NEWSVENDOR_ITERATIONS"
	EnvSeed            = "NEWSVENDOR_SEED"
	EnvWorkers         = "NEWSVENDOR_WORKERS"
	EnvOutputDir       = "NEWSVENDOR_OUTPUT_DIR"
	EnvLedgerFile      = "NEWSVENDOR_LEDGER_FILE"
	EnvPort            = "NEWSVENDOR_PORT"
	EnvReportSchedule  = "NEWSVENDOR_REPORT_SCHEDULE"
	EnvLogLevel        = "LOG_LEVEL"
)

// DefaultCandidates is the candidate order quantity set.
const DefaultCandidates = "40,50,60,70,80,90,100"

// Config represents the full application configuration surface.
type Config struct {
	Economics  domain.Economics
	Simulation SimulationConfig
	Output     OutputConfig
	Server     ServerConfig
	Log        LogConfig
}

// SimulationConfig holds search and reporting horizon settings.
type SimulationConfig struct {
	ReportDays      int
	DefaultQuantity int
	Candidates      []int
	SampleDays      int
	Iterations      int
	Seed            uint64 // 0 means a fresh random seed per run
	Workers         int
}

// OutputConfig says where report files go.
type OutputConfig struct {
	Dir        string
	LedgerFile string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
	// ReportSchedule is a cron expression for periodic pipeline runs. Empty disables them.
	ReportSchedule string
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a validated Config instance. An empty envFile falls back to
// $NEWSVENDOR_ENV_FILE, then to .env in the working directory.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = os.Getenv(EnvFile)
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine when settings come from the environment.
		_ = godotenv.Load()
	}

	p := &envParser{}
	econ := domain.DefaultEconomics()

	cfg := &Config{
		Economics: domain.Economics{
			SellPrice:  p.getInt(EnvSellPrice, econ.SellPrice),
			UnitCost:   p.getInt(EnvUnitCost, econ.UnitCost),
			ScrapValue: p.getInt(EnvScrapValue, econ.ScrapValue),
		},
		Simulation: SimulationConfig{
			ReportDays:      p.getInt(EnvReportDays, 30),
			DefaultQuantity: p.getInt(EnvDefaultQuantity, 70),
			Candidates:      p.getInts(EnvCandidates, DefaultCandidates),
			SampleDays:      p.getInt(EnvSampleDays, 1000),
			Iterations:      p.getInt(EnvIterations, 1),
			Seed:            p.getUint64(EnvSeed, 0),
			Workers:         p.getInt(EnvWorkers, 1),
		},
		Output: OutputConfig{
			Dir:        getenvWithDefault(EnvOutputDir, "output"),
			LedgerFile: getenvWithDefault(EnvLedgerFile, "newspaper_simulation.txt"),
		},
		Server: ServerConfig{
			Port:           getenvWithDefault(EnvPort, "8080"),
			ReportSchedule: os.Getenv(EnvReportSchedule),
		},
		Log: LogConfig{
			Level: getenvWithDefault(EnvLogLevel, "info"),
		},
	}

	if p.err != nil {
		return nil, p.err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings that would make a simulation meaningless.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if err := c.Economics.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	s := c.Simulation
	switch {
	case s.ReportDays <= 0:
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, EnvReportDays)
	case s.SampleDays <= 0:
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, EnvSampleDays)
	case s.DefaultQuantity <= 0:
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, EnvDefaultQuantity)
	case s.Iterations <= 0:
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, EnvIterations)
	case s.Workers <= 0:
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, EnvWorkers)
	case len(s.Candidates) == 0:
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, EnvCandidates)
	}

	for _, q := range s.Candidates {
		if q <= 0 {
			return fmt.Errorf("%w: %s contains non-positive quantity %d", ErrInvalidConfig, EnvCandidates, q)
		}
	}

	if c.Output.LedgerFile == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, EnvLedgerFile)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("%w: %s must be provided", ErrInvalidConfig, EnvPort)
	}

	if c.Server.ReportSchedule != "" {
		if _, err := cron.ParseStandard(c.Server.ReportSchedule); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvReportSchedule, err)
		}
	}

	return nil
}

// ModelConfig returns the fixed demand model priced with the configured economics.
func (c *Config) ModelConfig() domain.ModelConfig {
	return domain.DefaultModelConfig().WithEconomics(c.Economics)
}

// ParseCandidates parses a comma-separated list of quantities. Blank entries are skipped.
func ParseCandidates(s string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		q, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("parse candidate %q: %w", field, err)
		}
		out = append(out, q)
	}
	return out, nil
}

// envParser reads typed variables and keeps the first parse error.
type envParser struct {
	err error
}

func (p *envParser) getInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return v
}

func (p *envParser) getUint64(key string, fallback uint64) uint64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return v
}

func (p *envParser) getInts(key, fallback string) []int {
	v, err := ParseCandidates(getenvWithDefault(key, fallback))
	if err != nil {
		p.fail(key, err)
	}
	return v
}

func (p *envParser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s: %w", ErrInvalidConfig, key, err)
	}
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
