package domain

import (
	"math"
	"strconv"
	"strings"
)

// FormatValue renders a value for display according to the variable's name.
// See the package documentation for the full rule table. A nil value renders
// as "N/A".
func FormatValue(name string, value *float64) string {
	if value == nil {
		return "N/A"
	}

	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "income") || strings.Contains(lower, "value"):
		return "$" + groupThousands(math.Round(*value))
	case strings.Contains(lower, "rate") || strings.Contains(lower, "pct") || strings.Contains(lower, "%"):
		return strconv.FormatFloat(*value, 'f', 1, 64) + "%"
	case strings.Contains(lower, "size"):
		return strconv.FormatFloat(*value, 'f', 2, 64)
	default:
		return groupThousands(math.Round(*value))
	}
}

// ParseNumeric recovers a number from a display string, stripping currency
// symbols, thousands separators, and percent signs. Returns false for "N/A"
// and anything else non-numeric.
func ParseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "N/A") {
		return 0, false
	}
	cleaned := strings.NewReplacer("$", "", ",", "", "%", "").Replace(s)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NumericValue extracts a number from an observation for chart math:
// RawValue when present, else the display string reparsed, else 0. Downstream
// transforms assume a number is always present, so the chain never fails.
func NumericValue(v ObservedVariable) float64 {
	if v.RawValue != nil {
		return *v.RawValue
	}
	if parsed, ok := ParseNumeric(v.FormattedValue); ok {
		return parsed
	}
	return 0
}

// groupThousands renders a rounded float as an integer with comma separators.
func groupThousands(v float64) string {
	neg := v < 0
	digits := strconv.FormatInt(int64(math.Abs(v)), 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 && !(neg && b.Len() == 1) {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
