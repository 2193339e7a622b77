package domain

// ChartRow is one chart data point: a year and one value per selected
// variable code. Values are raw, percent-change-from-first-year, or
// normalized to percent-of-max depending on the active transform options.
type ChartRow struct {
	Year   string             `json:"year"`
	Values map[string]float64 `json:"values"`
}

// ChartOptions selects the transforms applied by ToChartRows. The two flags
// are not mutually exclusive: with both set, PercentChange runs first and
// Normalize rescales its output. Consumers depend on that literal ordering.
type ChartOptions struct {
	Normalize     bool
	PercentChange bool
}

// ToChartRows shapes a year series into chart rows for the selected codes.
//
// Years are sorted ascending numerically. A variable missing from a year
// contributes 0 rather than omitting the cell. Percent-change uses the
// earliest year as the baseline and leaves values untouched when the baseline
// is zero. Normalization rescales each code to 0-100 against its maximum
// across every year in the series.
func ToChartRows(series YearSeries, codes []string, opts ChartOptions) []ChartRow {
	if len(series) == 0 || len(codes) == 0 {
		return nil
	}

	ordered := make(YearSeries, len(series))
	copy(ordered, series)
	sortYearsAscending(ordered)

	rows := make([]ChartRow, len(ordered))
	for n, r := range ordered {
		values := make(map[string]float64, len(codes))
		for _, code := range codes {
			if v, ok := r.Variable(code); ok {
				values[code] = NumericValue(v)
			} else {
				values[code] = 0
			}
		}
		rows[n] = ChartRow{Year: r.Year, Values: values}
	}

	if opts.PercentChange {
		applyPercentChange(rows, codes)
	}
	if opts.Normalize {
		applyNormalize(rows, codes)
	}
	return rows
}

// applyPercentChange rewrites each value as the signed percentage change from
// the first (earliest) year's value. A zero baseline leaves the code's values
// unmodified to avoid dividing by zero.
func applyPercentChange(rows []ChartRow, codes []string) {
	for _, code := range codes {
		base := rows[0].Values[code]
		if base == 0 {
			continue
		}
		for _, row := range rows {
			row.Values[code] = (row.Values[code] - base) / base * 100
		}
	}
}

// applyNormalize rescales each code's values to percent-of-max across all
// years. A non-positive maximum zeroes the code's values.
func applyNormalize(rows []ChartRow, codes []string) {
	for _, code := range codes {
		max := rows[0].Values[code]
		for _, row := range rows[1:] {
			if row.Values[code] > max {
				max = row.Values[code]
			}
		}
		for _, row := range rows {
			if max > 0 {
				row.Values[code] = row.Values[code] / max * 100
			} else {
				row.Values[code] = 0
			}
		}
	}
}

// CorrelationPoint pairs two variables' values for one common year.
type CorrelationPoint struct {
	Year   string  `json:"year"`
	ValueA float64 `json:"valueA"`
	ValueB float64 `json:"valueB"`
}

// PairByYear joins two series on their common years for cross-source
// correlation charts. Fewer than two common years yields nil; callers treat
// that as "insufficient data", not an error.
func PairByYear(a, b YearSeries, codeA, codeB string) []CorrelationPoint {
	ordered := make(YearSeries, len(a))
	copy(ordered, a)
	sortYearsAscending(ordered)

	var points []CorrelationPoint
	for _, ra := range ordered {
		rb, ok := b.ByYear(ra.Year)
		if !ok {
			continue
		}
		va, okA := ra.Variable(codeA)
		vb, okB := rb.Variable(codeB)
		if !okA || !okB {
			continue
		}
		points = append(points, CorrelationPoint{
			Year:   ra.Year,
			ValueA: NumericValue(va),
			ValueB: NumericValue(vb),
		})
	}

	if len(points) < 2 {
		return nil
	}
	return points
}
