// Package report synthesizes the natural-language content of generated PDF
// reports: an executive summary paragraph and a list of observation
// sentences derived from the normalized data.
//
// The builder never fails. Any panic while deriving an observation is
// recovered and replaced with a generic sentence, and the observation list is
// never empty, so a report always renders.
package report

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/civicsignal/econdash/internal/domain"
	"github.com/civicsignal/econdash/internal/observability"
)

// Kind selects the report template family.
type Kind string

const (
	KindCensus        Kind = "census"
	KindFRED          Kind = "fred"
	KindHUD           Kind = "hud"
	KindComparison    Kind = "comparison"
	KindVisualization Kind = "visualization"
)

// Payload is the typed input to the builder. Series feeds the single-source
// kinds; Slots feeds comparisons.
type Payload struct {
	Kind     Kind
	Location string
	Year     string
	Series   domain.YearSeries
	Slots    []domain.ComparisonSlot
}

// Content is the builder output consumed by the PDF layer.
type Content struct {
	Summary      string    `json:"summary"`
	Observations []string  `json:"observations"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

const fallbackObservation = "Data was collected successfully; detailed observations will appear once multiple years of data are available."

// Builder assembles report content.
type Builder struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewBuilder creates a report content builder.
func NewBuilder(logger *slog.Logger, metrics *observability.Metrics) *Builder {
	return &Builder{logger: logger, metrics: metrics}
}

// Build produces the summary and observations for a payload. It never
// returns an error; degraded inputs degrade to generic content.
func (b *Builder) Build(payload Payload) Content {
	b.metrics.ReportsBuilt.Inc()
	return Content{
		Summary:      b.buildSummary(payload),
		Observations: b.buildObservations(payload),
		GeneratedAt:  domain.Now(),
	}
}

// buildSummary concatenates canned sentence templates chosen by payload kind
// and by which named indicators are present in the data.
func (b *Builder) buildSummary(p Payload) string {
	var sb strings.Builder

	location := p.Location
	if location == "" && len(p.Series) > 0 {
		location = p.Series[0].Location
	}
	if location == "" {
		location = "the selected area"
	}

	switch p.Kind {
	case KindCensus:
		fmt.Fprintf(&sb, "This report presents American Community Survey estimates for %s%s.", location, yearSpan(p.Series))
		if hasVariable(p.Series, "population") {
			sb.WriteString(" Population figures describe the total resident count across the selected period.")
		}
		if hasVariable(p.Series, "income") {
			sb.WriteString(" Income measures reflect inflation-unadjusted dollar estimates from the survey.")
		}
	case KindFRED:
		fmt.Fprintf(&sb, "This report presents national economic indicators from the Federal Reserve Economic Data (FRED) service%s.", yearSpan(p.Series))
		if hasVariable(p.Series, "gross domestic product") {
			sb.WriteString(" Gross Domestic Product tracks the overall size of the economy.")
		}
		if hasVariable(p.Series, "unemployment") {
			sb.WriteString(" The unemployment rate summarizes labor market slack.")
		}
	case KindHUD:
		fmt.Fprintf(&sb, "This report presents housing statistics for %s%s.", location, yearSpan(p.Series))
		if hasVariable(p.Series, "fair market rent") {
			sb.WriteString(" Fair Market Rents estimate the cost of modest rental housing by bedroom count.")
		}
	case KindComparison:
		names := make([]string, 0, len(p.Slots))
		for _, slot := range p.Slots {
			if slot.Data != nil {
				names = append(names, slot.CountyName)
			}
		}
		if len(names) == 0 {
			sb.WriteString("This report compares the selected counties.")
		} else {
			fmt.Fprintf(&sb, "This report compares %s", strings.Join(names, ", "))
			if p.Year != "" {
				fmt.Fprintf(&sb, " for %s", p.Year)
			}
			sb.WriteString(".")
		}
		sb.WriteString(" Gap figures highlight where the compared counties diverge most.")
	default:
		fmt.Fprintf(&sb, "This report summarizes the charted data for %s%s.", location, yearSpan(p.Series))
	}

	return sb.String()
}

// buildObservations derives oldest-vs-newest change sentences for the named
// indicators the payload carries. The result always contains at least one
// sentence.
func (b *Builder) buildObservations(p Payload) []string {
	var observations []string
	add := func(derive func() (string, bool)) {
		if s, ok := b.safely(derive); ok {
			observations = append(observations, s)
		}
	}

	switch p.Kind {
	case KindCensus:
		add(func() (string, bool) { return changeSentence(p.Series, "population", false) })
		add(func() (string, bool) { return changeSentence(p.Series, "median household income", false) })
		add(func() (string, bool) { return changeSentence(p.Series, "home value", false) })
	case KindFRED:
		add(func() (string, bool) { return changeSentence(p.Series, "gross domestic product", false) })
		add(func() (string, bool) { return changeSentence(p.Series, "unemployment rate", true) })
		add(func() (string, bool) { return changeSentence(p.Series, "consumer price index", false) })
	case KindHUD:
		add(func() (string, bool) { return fmrSpreadSentence(p.Series) })
		add(func() (string, bool) { return changeSentence(p.Series, "fair market rent 2 bedroom", false) })
		add(func() (string, bool) { return changeSentence(p.Series, "homeless", false) })
	case KindComparison:
		add(func() (string, bool) { return populationSpreadSentence(p.Slots) })
	case KindVisualization:
		add(func() (string, bool) { return seriesCoverageSentence(p.Series) })
	}

	if len(observations) == 0 {
		observations = append(observations, fallbackObservation)
	}
	return observations
}

// safely runs one observation derivation, converting panics into the
// fallback path. Malformed data must never break report generation.
func (b *Builder) safely(derive func() (string, bool)) (s string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("observation derivation panicked", "panic", r)
			b.metrics.ReportFallbacks.Inc()
			s, ok = fallbackObservation, true
		}
	}()
	return derive()
}

// changeSentence compares the oldest and newest values of the first variable
// whose name contains indicator. points selects percentage-point phrasing for
// rate indicators.
func changeSentence(series domain.YearSeries, indicator string, points bool) (string, bool) {
	ordered := domain.Aggregate(series)
	if len(ordered) < 2 {
		return "", false
	}
	oldest, newest := ordered[0], ordered[len(ordered)-1]

	vOld, okOld := findByName(oldest, indicator)
	vNew, okNew := findByName(newest, indicator)
	if !okOld || !okNew || vOld.RawValue == nil || vNew.RawValue == nil {
		return "", false
	}

	if points {
		delta := *vNew.RawValue - *vOld.RawValue
		return fmt.Sprintf("%s %s by %.1f percentage points between %s and %s, from %.1f%% to %.1f%%.",
			vNew.Name, directionWord(delta), math.Abs(delta), oldest.Year, newest.Year, *vOld.RawValue, *vNew.RawValue), true
	}

	if *vOld.RawValue == 0 {
		return "", false
	}
	pct := (*vNew.RawValue - *vOld.RawValue) / *vOld.RawValue * 100
	return fmt.Sprintf("%s %s by %.1f%% between %s and %s (%s to %s).",
		vNew.Name, directionWord(pct), math.Abs(pct), oldest.Year, newest.Year, vOld.FormattedValue, vNew.FormattedValue), true
}

// fmrSpreadSentence reports the studio-to-2BR rent spread in the newest year.
func fmrSpreadSentence(series domain.YearSeries) (string, bool) {
	ordered := domain.Aggregate(series)
	if len(ordered) == 0 {
		return "", false
	}
	newest := ordered[len(ordered)-1]

	studio, ok1 := newest.Variable("FMR_0BR")
	twoBR, ok2 := newest.Variable("FMR_2BR")
	if !ok1 || !ok2 || studio.RawValue == nil || twoBR.RawValue == nil || *studio.RawValue == 0 {
		return "", false
	}
	pct := (*twoBR.RawValue - *studio.RawValue) / *studio.RawValue * 100
	return fmt.Sprintf("In %s, a two-bedroom Fair Market Rent (%s) runs %.1f%% above a studio (%s).",
		newest.Year, twoBR.FormattedValue, pct, studio.FormattedValue), true
}

// populationSpreadSentence compares the largest and smallest populations
// among compared counties.
func populationSpreadSentence(slots []domain.ComparisonSlot) (string, bool) {
	type countyPop struct {
		name  string
		value float64
	}
	var pops []countyPop
	for _, slot := range slots {
		if slot.Data == nil {
			continue
		}
		if v, ok := findByName(*slot.Data, "population"); ok && v.RawValue != nil {
			pops = append(pops, countyPop{name: slot.CountyName, value: *v.RawValue})
		}
	}
	if len(pops) < 2 {
		return "", false
	}

	largest, smallest := pops[0], pops[0]
	for _, p := range pops[1:] {
		if p.value > largest.value {
			largest = p
		}
		if p.value < smallest.value {
			smallest = p
		}
	}
	if smallest.value == 0 || largest.name == smallest.name {
		return "", false
	}
	ratio := largest.value / smallest.value
	return fmt.Sprintf("%s has the largest population of the compared counties, %.1f times that of %s.",
		largest.name, ratio, smallest.name), true
}

// seriesCoverageSentence is the visualization-kind observation about the
// charted span.
func seriesCoverageSentence(series domain.YearSeries) (string, bool) {
	ordered := domain.Aggregate(series)
	if len(ordered) == 0 {
		return "", false
	}
	if len(ordered) == 1 {
		return fmt.Sprintf("The chart covers a single year of data (%s).", ordered[0].Year), true
	}
	return fmt.Sprintf("The chart covers %d years of data from %s to %s.",
		len(ordered), ordered[0].Year, ordered[len(ordered)-1].Year), true
}

// findByName returns the first variable whose name contains the indicator,
// case-insensitively.
func findByName(r domain.YearResult, indicator string) (domain.ObservedVariable, bool) {
	needle := strings.ToLower(indicator)
	for _, v := range r.Variables {
		if strings.Contains(strings.ToLower(v.Name), needle) {
			return v, true
		}
	}
	return domain.ObservedVariable{}, false
}

func directionWord(delta float64) string {
	if delta < 0 {
		return "decreased"
	}
	return "increased"
}

// yearSpan renders " covering YYYY" or " covering YYYY-YYYY" for a series,
// empty when there is no data.
func yearSpan(series domain.YearSeries) string {
	ordered := domain.Aggregate(series)
	switch len(ordered) {
	case 0:
		return ""
	case 1:
		return " covering " + ordered[0].Year
	default:
		return fmt.Sprintf(" covering %s-%s", ordered[0].Year, ordered[len(ordered)-1].Year)
	}
}

// hasVariable reports whether any year carries a variable whose name
// contains the indicator.
func hasVariable(series domain.YearSeries, indicator string) bool {
	for _, r := range series {
		if _, ok := findByName(r, indicator); ok {
			return true
		}
	}
	return false
}
