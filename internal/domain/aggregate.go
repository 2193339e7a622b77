package domain

import (
	"sort"
	"strconv"
)

// Aggregate merges fetched results into a YearSeries. Input years are
// expected to be unique; when the contract is violated the last result for a
// year wins. The series is ordered ascending by year so table views render
// oldest-first without re-sorting.
func Aggregate(results []YearResult) YearSeries {
	byYear := make(map[string]YearResult, len(results))
	for _, r := range results {
		byYear[r.Year] = r
	}

	series := make(YearSeries, 0, len(byYear))
	for _, r := range byYear {
		series = append(series, r)
	}
	sortYearsAscending(series)
	return series
}

// CategoryGroup is one table section: a category and its variables sorted by
// name.
type CategoryGroup struct {
	Category  string             `json:"category"`
	Variables []ObservedVariable `json:"variables"`
}

// CategoryGroups arranges a year's variables for table display: categories
// alphabetical, variables alphabetical by name within each.
func CategoryGroups(r YearResult) []CategoryGroup {
	byCategory := make(map[string][]ObservedVariable)
	for _, v := range r.Variables {
		byCategory[v.Category] = append(byCategory[v.Category], v)
	}

	groups := make([]CategoryGroup, 0, len(byCategory))
	for category, vars := range byCategory {
		sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
		groups = append(groups, CategoryGroup{Category: category, Variables: vars})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Category < groups[j].Category })
	return groups
}

// sortYearsAscending orders results by numeric year value. Non-numeric years
// sort before numeric ones, tie-broken lexically, so malformed data still
// produces a stable order.
func sortYearsAscending(series YearSeries) {
	sort.SliceStable(series, func(i, j int) bool {
		yi, erri := strconv.Atoi(series[i].Year)
		yj, errj := strconv.Atoi(series[j].Year)
		if erri != nil || errj != nil {
			if (erri == nil) != (errj == nil) {
				return erri != nil
			}
			return series[i].Year < series[j].Year
		}
		return yi < yj
	})
}
