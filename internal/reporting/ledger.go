package reporting

import (
	"fmt"
	"strconv"
	"strings"

	"newsvendor-lab/internal/domain"
)

// LedgerHeader is the descriptive header row of the tab-delimited ledger.
const LedgerHeader = "Day\tR1\tType\tR2\tDemand\tRevenue\tExcessDemand\tLostProfit\tScrap\tSalvage\tProfit"

// RenderLedger renders run as a tab-delimited table: one header row, then one row per day.
// Draws are printed with two decimals; every other field is an integer.
func RenderLedger(run *domain.SimulationRun) string {
	var sb strings.Builder

	sb.WriteString(LedgerHeader)
	sb.WriteString("\n")

	for _, d := range run.Days {
		sb.WriteString(fmt.Sprintf("%d\t%.2f\t%s\t%.2f\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			d.Day,
			d.DayTypeDraw,
			d.DayType,
			d.DemandDraw,
			d.Demand,
			d.Revenue,
			d.ExcessDemand,
			d.LostProfitExcess,
			d.NumScrap,
			d.SalvageScrap,
			d.DailyProfit,
		))
	}

	return sb.String()
}

// RenderLedgerCSV renders run as CSV with a trailing order quantity column.
// Draws use the shortest exact representation so ParseLedgerCSV round-trips them.
func RenderLedgerCSV(run *domain.SimulationRun) string {
	var sb strings.Builder

	// Header
	sb.WriteString("day,r1,day_type,r2,demand,revenue,excess_demand,lost_profit,")
	sb.WriteString("scrap,salvage,daily_profit,quantity\n")

	// Rows
	for _, d := range run.Days {
		sb.WriteString(fmt.Sprintf("%d,%s,%s,%s,%d,%d,%d,%d,%d,%d,%d,%d\n",
			d.Day,
			formatDraw(d.DayTypeDraw),
			d.DayType,
			formatDraw(d.DemandDraw),
			d.Demand,
			d.Revenue,
			d.ExcessDemand,
			d.LostProfitExcess,
			d.NumScrap,
			d.SalvageScrap,
			d.DailyProfit,
			run.Quantity,
		))
	}

	return sb.String()
}

func formatDraw(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}
