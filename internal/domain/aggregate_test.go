package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func observed(code, name, category string, value float64) ObservedVariable {
	return ObservedVariable{
		Code:           code,
		Name:           name,
		Category:       category,
		RawValue:       &value,
		FormattedValue: FormatValue(name, &value),
	}
}

func yearResult(year string, variables ...ObservedVariable) YearResult {
	return YearResult{Year: year, Location: "Los Angeles County, California", Variables: variables}
}

func TestAggregate(t *testing.T) {
	t.Run("sorts years ascending numerically", func(t *testing.T) {
		series := Aggregate([]YearResult{
			yearResult("2021"),
			yearResult("2019"),
			yearResult("2020"),
		})

		assert.Equal(t, []string{"2019", "2020", "2021"}, series.Years())
	})

	t.Run("duplicate year last write wins", func(t *testing.T) {
		series := Aggregate([]YearResult{
			yearResult("2019", observed("B01003_001E", "Total Population", "Demographics", 100)),
			yearResult("2019", observed("B01003_001E", "Total Population", "Demographics", 200)),
		})

		require.Len(t, series, 1)
		v, ok := series[0].Variable("B01003_001E")
		require.True(t, ok)
		assert.Equal(t, 200.0, *v.RawValue)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Aggregate(nil))
	})
}

func TestCategoryGroups(t *testing.T) {
	r := yearResult("2019",
		observed("B19013_001E", "Median Household Income", "Income", 70000),
		observed("B01002_001E", "Median Age", "Demographics", 36),
		observed("B17001_002E", "Population Below Poverty", "Income", 1300000),
		observed("B01003_001E", "Total Population", "Demographics", 10000000),
	)

	groups := CategoryGroups(r)

	require.Len(t, groups, 2)
	assert.Equal(t, "Demographics", groups[0].Category)
	assert.Equal(t, "Income", groups[1].Category)

	// Variables alphabetical by name within each category.
	assert.Equal(t, "Median Age", groups[0].Variables[0].Name)
	assert.Equal(t, "Total Population", groups[0].Variables[1].Name)
	assert.Equal(t, "Median Household Income", groups[1].Variables[0].Name)
	assert.Equal(t, "Population Below Poverty", groups[1].Variables[1].Name)
}

func TestYearSeriesByYear(t *testing.T) {
	series := Aggregate([]YearResult{yearResult("2019"), yearResult("2020")})

	_, ok := series.ByYear("2019")
	assert.True(t, ok)
	_, ok = series.ByYear("2018")
	assert.False(t, ok)
}
