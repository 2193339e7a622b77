package domain

import (
	"math"
	"sort"
)

// Comparison slot count bounds. A comparison needs at least two counties to
// have a gap and caps at five to keep radar charts legible.
const (
	MinComparisonSlots = 2
	MaxComparisonSlots = 5
)

// ComparisonSlot is one county position in a multi-location comparison.
type ComparisonSlot struct {
	StateCode  string      `json:"stateCode"`
	CountyFIPS string      `json:"countyFips"`
	CountyName string      `json:"countyName"`
	Data       *YearResult `json:"data"`
	Loading    bool        `json:"loading"`
	Err        string      `json:"error,omitempty"`
}

// AddSlot appends a slot, rejecting growth past MaxComparisonSlots. On
// rejection the input slice is returned unchanged with ok=false.
func AddSlot(slots []ComparisonSlot, slot ComparisonSlot) ([]ComparisonSlot, bool) {
	if len(slots) >= MaxComparisonSlots {
		return slots, false
	}
	return append(slots, slot), true
}

// RemoveSlot deletes the slot at index i, rejecting shrinkage below
// MinComparisonSlots and out-of-range indexes.
func RemoveSlot(slots []ComparisonSlot, i int) ([]ComparisonSlot, bool) {
	if len(slots) <= MinComparisonSlots || i < 0 || i >= len(slots) {
		return slots, false
	}
	out := make([]ComparisonSlot, 0, len(slots)-1)
	out = append(out, slots[:i]...)
	out = append(out, slots[i+1:]...)
	return out, true
}

// GapRecord is the delta between two counties for one variable.
type GapRecord struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Value1         float64 `json:"value1"`
	Value2         float64 `json:"value2"`
	AbsoluteGap    float64 `json:"absoluteGap"`
	PercentageGap  float64 `json:"percentageGap"`
	HigherLocation string  `json:"higherLocation"`
	Direction      string  `json:"direction"`
}

// GapAnalysis computes per-variable gaps between the first two slots with
// data. Only variables observed with a non-null value in both slots are
// included. Records are sorted descending by |percentageGap| so the largest
// relative differences lead the display.
func GapAnalysis(slot1, slot2 ComparisonSlot, codes []string) []GapRecord {
	if slot1.Data == nil || slot2.Data == nil {
		return nil
	}

	var records []GapRecord
	for _, code := range codes {
		v1, ok1 := slot1.Data.Variable(code)
		v2, ok2 := slot2.Data.Variable(code)
		if !ok1 || !ok2 || v1.RawValue == nil || v2.RawValue == nil {
			continue
		}

		value1, value2 := *v1.RawValue, *v2.RawValue
		rec := GapRecord{
			Code:        code,
			Name:        v1.Name,
			Category:    v1.Category,
			Value1:      value1,
			Value2:      value2,
			AbsoluteGap: value2 - value1,
		}
		if value1 != 0 {
			rec.PercentageGap = (value2 - value1) / value1 * 100
		}
		if value2 > value1 {
			rec.Direction = "higher"
			rec.HigherLocation = slot2.CountyName
		} else {
			rec.Direction = "lower"
			rec.HigherLocation = slot1.CountyName
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return math.Abs(records[i].PercentageGap) > math.Abs(records[j].PercentageGap)
	})
	return records
}

// RadarRow is one radar-chart spoke: a variable and each county's value as a
// percent of the maximum across compared counties.
type RadarRow struct {
	Variable string             `json:"variable"`
	Values   map[string]float64 `json:"values"`
	FullMark float64            `json:"fullMark"`
}

// NormalizeForRadar rescales each variable to 0-100 across every slot with
// data, keyed by county name. An absent or null value, or a zero maximum,
// yields 0 for that county.
func NormalizeForRadar(slots []ComparisonSlot, codes []string) []RadarRow {
	rows := make([]RadarRow, 0, len(codes))
	for _, code := range codes {
		var max float64
		var name string
		for _, slot := range slots {
			if slot.Data == nil {
				continue
			}
			v, ok := slot.Data.Variable(code)
			if !ok || v.RawValue == nil {
				continue
			}
			if name == "" {
				name = v.Name
			}
			if *v.RawValue > max {
				max = *v.RawValue
			}
		}
		if name == "" {
			name = code
		}

		values := make(map[string]float64, len(slots))
		for _, slot := range slots {
			if slot.Data == nil {
				continue
			}
			var pct float64
			if v, ok := slot.Data.Variable(code); ok && v.RawValue != nil && max > 0 {
				pct = *v.RawValue / max * 100
			}
			values[slot.CountyName] = pct
		}
		rows = append(rows, RadarRow{Variable: name, Values: values, FullMark: 100})
	}
	return rows
}
