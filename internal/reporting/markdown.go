package reporting

import (
	"fmt"
	"strings"
	"time"

	"newsvendor-lab/internal/domain"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Newsvendor Simulation Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.RunID != "" {
		sb.WriteString(fmt.Sprintf("Run: `%s` | Seed: %d\n\n", r.RunID, r.Seed))
	}

	// Parameters
	p := r.Parameters
	sb.WriteString("## Parameters\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Sell Price | %s |\n", FormatCents(p.Economics.SellPrice)))
	sb.WriteString(fmt.Sprintf("| Unit Cost | %s |\n", FormatCents(p.Economics.UnitCost)))
	sb.WriteString(fmt.Sprintf("| Scrap Value | %s |\n", FormatCents(p.Economics.ScrapValue)))
	sb.WriteString(fmt.Sprintf("| Critical Fractile | %.4f |\n", p.CriticalFractile))
	sb.WriteString(fmt.Sprintf("| Sample Days | %d |\n", p.SampleDays))
	sb.WriteString(fmt.Sprintf("| Report Days | %d |\n", p.ReportDays))
	sb.WriteString(fmt.Sprintf("| Default Order Guess | %d |\n", p.DefaultQuantity))
	sb.WriteString("\n")

	// Candidates
	sb.WriteString("## Candidate Quantities\n\n")
	if len(r.Candidates) > 0 {
		if r.HasExact {
			sb.WriteString("| Quantity | Total Profit | Mean Daily Profit | Exact Expected Profit | Selected |\n")
			sb.WriteString("|----------|--------------|-------------------|-----------------------|----------|\n")
		} else {
			sb.WriteString("| Quantity | Total Profit | Mean Daily Profit | Selected |\n")
			sb.WriteString("|----------|--------------|-------------------|----------|\n")
		}
		for _, c := range r.Candidates {
			mark := ""
			if c.Selected {
				mark = "yes"
			}
			if r.HasExact {
				sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
					c.Quantity, FormatCents(c.TotalProfit), FormatMeanCents(c.MeanProfit), FormatMeanCents(c.ExactMean), mark))
				continue
			}
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n",
				c.Quantity, FormatCents(c.TotalProfit), FormatMeanCents(c.MeanProfit), mark))
		}
	} else {
		sb.WriteString("No candidates evaluated.\n")
	}
	sb.WriteString("\n")

	// Optimum
	sb.WriteString("## Optimal Order Quantity\n\n")
	sb.WriteString(fmt.Sprintf("Order **%d** papers per day for an expected daily profit of %s.\n\n",
		r.Optimum.Quantity, FormatMeanCents(r.Optimum.ExpectedMeanProfit)))

	if b := r.Baseline; b != nil {
		sb.WriteString(fmt.Sprintf("Against the default guess of %d (%s per day) the optimum changes daily profit by %s.\n\n",
			b.GuessQuantity, FormatMeanCents(b.GuessMeanProfit), FormatMeanCents(b.Improvement)))
	}

	// Ledger statistics
	sb.WriteString("## Ledger Statistics\n\n")
	if s := r.LedgerStats; s != nil {
		renderLedgerStats(&sb, s)
	} else {
		sb.WriteString("No ledger simulated.\n\n")
	}

	// Replications
	if rep := r.Replication; rep != nil {
		sb.WriteString("## Replications\n\n")
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Iterations | %d |\n", rep.Iterations))
		sb.WriteString(fmt.Sprintf("| Days per Iteration | %d |\n", rep.Days))
		sb.WriteString(fmt.Sprintf("| Average Total Profit | %s |\n", FormatMeanCents(rep.AvgTotalProfit)))
		sb.WriteString(fmt.Sprintf("| Average Daily Profit | %s |\n", FormatMeanCents(rep.AvgDailyProfit)))
		sb.WriteString(fmt.Sprintf("| Min Total Profit | %s |\n", FormatCents(rep.MinTotalProfit)))
		sb.WriteString(fmt.Sprintf("| Max Total Profit | %s |\n", FormatCents(rep.MaxTotalProfit)))
		sb.WriteString("\n")
	}

	// Verification
	if v := r.Verification; v != nil {
		sb.WriteString("## Ledger Verification\n\n")
		if v.Passed {
			sb.WriteString(fmt.Sprintf("**PASS**: %d days replayed without divergence.\n", v.DaysChecked))
		} else {
			sb.WriteString(fmt.Sprintf("**FAIL**: %d divergences across %d days.\n", v.Divergences, v.DaysChecked))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderLedgerStats(sb *strings.Builder, s *domain.RunStats) {
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Order Quantity | %d |\n", s.Quantity))
	sb.WriteString(fmt.Sprintf("| Days | %d |\n", s.Days))
	sb.WriteString(fmt.Sprintf("| Total Profit | %s |\n", FormatCents(s.TotalProfit)))
	sb.WriteString(fmt.Sprintf("| Mean Daily Profit | %s |\n", FormatMeanCents(s.MeanProfit)))
	sb.WriteString(fmt.Sprintf("| Median Daily Profit | %s |\n", FormatMeanCents(s.MedianProfit)))
	sb.WriteString(fmt.Sprintf("| Std Dev | %s |\n", FormatMeanCents(s.StdDevProfit)))
	sb.WriteString(fmt.Sprintf("| P10 / P90 | %s / %s |\n", FormatMeanCents(s.ProfitP10), FormatMeanCents(s.ProfitP90)))
	sb.WriteString(fmt.Sprintf("| Min / Max | %s / %s |\n", FormatCents(s.MinProfit), FormatCents(s.MaxProfit)))
	sb.WriteString(fmt.Sprintf("| Fill Rate | %.2f%% |\n", s.FillRate*100))
	sb.WriteString(fmt.Sprintf("| Stockout Days | %d |\n", s.StockoutDays))
	sb.WriteString(fmt.Sprintf("| Scrap Days | %d |\n", s.ScrapDays))
	sb.WriteString(fmt.Sprintf("| Lost Profit (not deducted) | %s |\n", FormatCents(s.TotalLostProfit)))
	sb.WriteString(fmt.Sprintf("| Scrap Salvage | %s |\n", FormatCents(s.TotalSalvage)))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %s |\n", FormatCents(s.MaxDrawdown)))
	sb.WriteString(fmt.Sprintf("| Max Consecutive Losses | %d |\n", s.MaxConsecutiveLosses))
	sb.WriteString(fmt.Sprintf("| Day Types (Good/Fair/Poor) | %d / %d / %d |\n",
		s.DayTypeCounts[domain.DayTypeGood], s.DayTypeCounts[domain.DayTypeFair], s.DayTypeCounts[domain.DayTypePoor]))
	sb.WriteString("\n")
}

// RenderSummary renders the short console summary: each candidate's mean profit,
// the chosen quantity with its expected mean, and the realized mean over the ledger.
func RenderSummary(r *Report) string {
	var sb strings.Builder

	for _, c := range r.Candidates {
		sb.WriteString(fmt.Sprintf("Quantity %3d: average daily profit %s\n", c.Quantity, FormatMeanCents(c.MeanProfit)))
	}
	sb.WriteString(fmt.Sprintf("Optimal order quantity: %d\n", r.Optimum.Quantity))
	sb.WriteString(fmt.Sprintf("Expected average daily profit: %s\n", FormatMeanCents(r.Optimum.ExpectedMeanProfit)))
	if r.LedgerStats != nil {
		sb.WriteString(fmt.Sprintf("Realized average daily profit over %d days: %s\n",
			r.LedgerStats.Days, FormatMeanCents(r.LedgerStats.MeanProfit)))
	}
	if rep := r.Replication; rep != nil && rep.Iterations > 1 {
		sb.WriteString(fmt.Sprintf("Across %d iterations: average total %s, min %s, max %s\n",
			rep.Iterations, FormatMeanCents(rep.AvgTotalProfit),
			FormatCents(rep.MinTotalProfit), FormatCents(rep.MaxTotalProfit)))
	}

	return sb.String()
}
