package domain

import (
	"fmt"
	"strings"
)

// DayType classifies the quality of a simulated sales day.
type DayType int

// Day types in selection order.
const (
	DayTypeGood DayType = iota
	DayTypeFair
	DayTypePoor
)

// NumDayTypes is the size of the closed DayType enumeration.
const NumDayTypes = 3

// DayTypes lists every day type in selection order.
var DayTypes = [NumDayTypes]DayType{DayTypeGood, DayTypeFair, DayTypePoor}

var dayTypeLabels = [NumDayTypes]string{"Good", "Fair", "Poor"}

// Valid reports whether t is one of the enumerated day types.
func (t DayType) Valid() bool {
	return t >= DayTypeGood && t <= DayTypePoor
}

// String returns the report label ("Good", "Fair", "Poor").
func (t DayType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("DayType(%d)", int(t))
	}
	return dayTypeLabels[t]
}

// MarshalText encodes the day type as its label.
func (t DayType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("marshal day type %d: %w", int(t), ErrUnknownDayType)
	}
	return []byte(dayTypeLabels[t]), nil
}

// UnmarshalText decodes a label produced by MarshalText.
func (t *DayType) UnmarshalText(text []byte) error {
	parsed, err := ParseDayType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseDayType resolves a case-insensitive label to a DayType.
func ParseDayType(label string) (DayType, error) {
	for i, l := range dayTypeLabels {
		if strings.EqualFold(l, strings.TrimSpace(label)) {
			return DayType(i), nil
		}
	}
	return 0, fmt.Errorf("parse day type %q: %w", label, ErrUnknownDayType)
}

// DayTypeBand is one row of the day-type table.
// Cumulative is the exclusive upper bound of the uniform draw range mapping to DayType.
type DayTypeBand struct {
	DayType     DayType `json:"day_type"`
	Probability float64 `json:"probability"`
	Cumulative  float64 `json:"cumulative"`
}

// DayTypeTable holds one band per day type, ordered by Cumulative ASC.
// The last band is the default branch and catches every remaining draw.
type DayTypeTable [NumDayTypes]DayTypeBand

// DefaultDayTypeTable returns the 0.35 / 0.45 / 0.20 newsday mix.
// Boundaries are stored literally so that 0.80 is exactly 0.80.
func DefaultDayTypeTable() DayTypeTable {
	return DayTypeTable{
		{DayType: DayTypeGood, Probability: 0.35, Cumulative: 0.35},
		{DayType: DayTypeFair, Probability: 0.45, Cumulative: 0.80},
		{DayType: DayTypePoor, Probability: 0.20, Cumulative: 1.00},
	}
}

// Validate checks probabilities and cumulative boundaries.
func (t DayTypeTable) Validate() error {
	sum := 0.0
	prev := 0.0
	seen := make(map[DayType]struct{}, NumDayTypes)
	for i, band := range t {
		if !band.DayType.Valid() {
			return fmt.Errorf("%w: band %d: %w", ErrInvalidModel, i, ErrUnknownDayType)
		}
		if _, dup := seen[band.DayType]; dup {
			return fmt.Errorf("%w: day type %s listed twice", ErrInvalidModel, band.DayType)
		}
		seen[band.DayType] = struct{}{}

		if band.Probability < 0 || band.Probability > 1 {
			return fmt.Errorf("%w: %s probability %.4f outside [0,1]", ErrInvalidModel, band.DayType, band.Probability)
		}
		if band.Cumulative < prev {
			return fmt.Errorf("%w: %s boundary %.4f below previous %.4f", ErrInvalidModel, band.DayType, band.Cumulative, prev)
		}
		sum += band.Probability
		if !approxEqual(sum, band.Cumulative) {
			return fmt.Errorf("%w: %s boundary %.4f does not match running sum %.4f", ErrInvalidModel, band.DayType, band.Cumulative, sum)
		}
		prev = band.Cumulative
	}

	if !approxEqual(sum, 1.0) {
		return fmt.Errorf("%w: day type probabilities sum to %.4f, want 1", ErrInvalidModel, sum)
	}
	if t[NumDayTypes-1].Cumulative != 1.0 {
		return fmt.Errorf("%w: last boundary is %.4f, want 1", ErrInvalidModel, t[NumDayTypes-1].Cumulative)
	}
	return nil
}

// probabilityTolerance is the slack allowed when summing probabilities.
const probabilityTolerance = 0.001

func approxEqual(a, b float64) bool {
	d := a - b
	return d < probabilityTolerance && d > -probabilityTolerance
}
