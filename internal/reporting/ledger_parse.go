package reporting

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"newsvendor-lab/internal/domain"
)

// ErrMalformedLedger is returned when a ledger CSV cannot be decoded.
var ErrMalformedLedger = errors.New("malformed ledger csv")

// LedgerCSVColumns is the column order written by RenderLedgerCSV.
var LedgerCSVColumns = []string{
	"day", "r1", "day_type", "r2", "demand", "revenue", "excess_demand",
	"lost_profit", "scrap", "salvage", "daily_profit", "quantity",
}

// ParseLedgerCSV decodes a ledger written by RenderLedgerCSV. Every row must
// carry the same order quantity. Derived fields are taken as written; use
// verification.VerifyRun to check them.
func ParseLedgerCSV(r io.Reader) (*domain.SimulationRun, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(LedgerCSVColumns)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header", ErrMalformedLedger)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedLedger, err)
	}
	if strings.Join(header, ",") != strings.Join(LedgerCSVColumns, ",") {
		return nil, fmt.Errorf("%w: unexpected header %q", ErrMalformedLedger, strings.Join(header, ","))
	}

	run := &domain.SimulationRun{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedLedger, err)
		}

		rec, quantity, err := parseLedgerRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedLedger, line, err)
		}
		if run.Quantity == 0 {
			run.Quantity = quantity
		} else if quantity != run.Quantity {
			return nil, fmt.Errorf("%w: line %d: quantity %d differs from %d", ErrMalformedLedger, line, quantity, run.Quantity)
		}
		run.Days = append(run.Days, rec)
	}

	return run, nil
}

func parseLedgerRow(row []string) (domain.DayRecord, int, error) {
	var rec domain.DayRecord

	ints := make([]int, 0, 10)
	for _, i := range []int{0, 4, 5, 6, 7, 8, 9, 10, 11} {
		v, err := strconv.Atoi(row[i])
		if err != nil {
			return rec, 0, fmt.Errorf("column %s: %w", LedgerCSVColumns[i], err)
		}
		ints = append(ints, v)
	}

	r1, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return rec, 0, fmt.Errorf("column r1: %w", err)
	}
	r2, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return rec, 0, fmt.Errorf("column r2: %w", err)
	}
	dayType, err := domain.ParseDayType(row[2])
	if err != nil {
		return rec, 0, err
	}

	rec = domain.DayRecord{
		Day:         ints[0],
		DayTypeDraw: r1,
		DayType:     dayType,
		DemandDraw:  r2,
		Demand:      ints[1],
		ProfitBreakdown: domain.ProfitBreakdown{
			Revenue:          ints[2],
			ExcessDemand:     ints[3],
			LostProfitExcess: ints[4],
			NumScrap:         ints[5],
			SalvageScrap:     ints[6],
			DailyProfit:      ints[7],
		},
	}
	return rec, ints[8], nil
}
