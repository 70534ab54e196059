package config

import (
	"flag"
	"strconv"
	"strings"
)

// EnvFile names the variable that selects an alternative .env file.
const EnvFile = "NEWSVENDOR_ENV_FILE"

// RegisterFlags binds command-line flags to c. Each flag defaults to the value
// already loaded, so flags override the environment. Call Validate after parsing.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Economics.SellPrice, "sell-price", c.Economics.SellPrice, "Sell price per paper (cents)")
	fs.IntVar(&c.Economics.UnitCost, "unit-cost", c.Economics.UnitCost, "Purchase cost per paper (cents)")
	fs.IntVar(&c.Economics.ScrapValue, "scrap-value", c.Economics.ScrapValue, "Salvage value per unsold paper (cents)")

	fs.IntVar(&c.Simulation.ReportDays, "days", c.Simulation.ReportDays, "Days in the reported ledger")
	fs.IntVar(&c.Simulation.DefaultQuantity, "quantity", c.Simulation.DefaultQuantity, "Order quantity guess")
	fs.Func("candidates", "Comma-separated candidate order quantities (default "+joinInts(c.Simulation.Candidates)+")", func(s string) error {
		qs, err := ParseCandidates(s)
		if err != nil {
			return err
		}
		c.Simulation.Candidates = qs
		return nil
	})
	fs.IntVar(&c.Simulation.SampleDays, "sample-days", c.Simulation.SampleDays, "Days simulated per candidate")
	fs.IntVar(&c.Simulation.Iterations, "iterations", c.Simulation.Iterations, "Independent replications of the ledger horizon")
	fs.Uint64Var(&c.Simulation.Seed, "seed", c.Simulation.Seed, "Random seed (0 = random)")
	fs.IntVar(&c.Simulation.Workers, "workers", c.Simulation.Workers, "Concurrent candidate evaluations")

	fs.StringVar(&c.Output.Dir, "output-dir", c.Output.Dir, "Output directory for generated files")
	fs.StringVar(&c.Output.LedgerFile, "ledger-file", c.Output.LedgerFile, "Ledger file name")

	fs.StringVar(&c.Server.Port, "port", c.Server.Port, "HTTP listen port")
	fs.StringVar(&c.Server.ReportSchedule, "schedule", c.Server.ReportSchedule, "Cron expression for periodic pipeline runs (empty = off)")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "Log level: debug, info, warn, error")
}

func joinInts(xs []int) string {
	s := make([]string, len(xs))
	for i, x := range xs {
		s[i] = strconv.Itoa(x)
	}
	return strings.Join(s, ",")
}
