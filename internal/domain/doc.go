// Package domain models normalized economic observations and the transforms
// applied to them before charting, comparison, and report generation.
//
// # Data Sources
//
// Observations come from three upstreams with very different wire shapes:
//
//	Census ACS 5-year estimates: one wide two-row table per (county, year),
//	headers in row 0 and values in row 1.
//	FRED: one time series per indicator; the adapter keeps only the most
//	recent annual observation inside the requested year.
//	HUD housing statistics: one record per (variable, county, year),
//	simulated deterministically because no public bulk API is exercised.
//
// Each adapter flattens its shape into [ObservedVariable] records keyed by
// (location, year, variable code), so everything downstream works on a single
// tabular form.
//
// # Value Formatting
//
// An observation carries both the raw numeric value and a display string.
// RawValue is nil exactly when the upstream returned a non-numeric or missing
// value, and FormattedValue is "N/A" in exactly that case. Display formatting
// is driven by the variable name:
//
//	name contains "income" or "value"  →  currency: "$50,000"
//	name contains "rate", "pct", "%"   →  percentage, one decimal: "12.3%"
//	name contains "size"               →  two decimals: "2.45"
//	everything else                    →  thousands-grouped integer: "1,234"
//
// Matching is case-insensitive and checked in that order.
//
// # Chart Transforms
//
// [ToChartRows] applies up to two transforms to a year series. When both
// flags are set, percentage-change is computed first and normalization is
// applied to the already-transformed values. That ordering is a compatibility
// contract with existing chart consumers, not the most intuitive reading of
// two independent flags, so it must not be reordered.
//
// # Partial Failure
//
// Fetching is per-year and per-slot: one failing year or comparison county is
// recorded and skipped, never fatal. A fetch is a total failure only when
// zero requested items succeeded. See [PartialFetchError].
package domain
