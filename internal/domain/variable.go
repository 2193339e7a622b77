package domain

import (
	"time"

	"github.com/civicsignal/econdash/internal/catalog"
)

// Location identifies the geography a fetch targets. FRED series are
// national, so adapters may ignore the FIPS codes and keep only Name.
type Location struct {
	StateCode  string `json:"stateCode,omitempty"`
	CountyFIPS string `json:"countyFips,omitempty"`
	Name       string `json:"name,omitempty"`
}

// ObservedVariable is one measured value for one (location, year, variable)
// triple. RawValue is nil exactly when the upstream value was missing or
// non-numeric; FormattedValue is "N/A" in exactly that case.
type ObservedVariable struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	RawValue       *float64 `json:"rawValue"`
	FormattedValue string   `json:"formattedValue"`
	Location       string   `json:"location,omitempty"`
}

// NewObserved builds an ObservedVariable from a catalog descriptor and an
// optional raw value, deriving the display string so the nil/"N/A" invariant
// holds by construction.
func NewObserved(d catalog.Descriptor, value *float64, location string) ObservedVariable {
	return ObservedVariable{
		Code:           d.Code,
		Name:           d.Name,
		Category:       d.Category,
		RawValue:       value,
		FormattedValue: FormatValue(d.Name, value),
		Location:       location,
	}
}

// YearResult holds every variable observed for one (location, year) fetch.
// Immutable once an adapter returns it.
type YearResult struct {
	Year      string             `json:"year"`
	Location  string             `json:"location"`
	FetchedAt time.Time          `json:"fetchedAt"`
	Variables []ObservedVariable `json:"variables"`
}

// Variable returns the observation for a code within the result.
func (r YearResult) Variable(code string) (ObservedVariable, bool) {
	for _, v := range r.Variables {
		if v.Code == code {
			return v, true
		}
	}
	return ObservedVariable{}, false
}

// YearSeries is the year-keyed collection of results for one fetch session.
// Each year appears at most once; [Aggregate] enforces that.
type YearSeries []YearResult

// ByYear returns the result for a year.
func (s YearSeries) ByYear(year string) (YearResult, bool) {
	for _, r := range s {
		if r.Year == year {
			return r, true
		}
	}
	return YearResult{}, false
}

// Years lists the years present in series order.
func (s YearSeries) Years() []string {
	years := make([]string, len(s))
	for n, r := range s {
		years[n] = r.Year
	}
	return years
}
