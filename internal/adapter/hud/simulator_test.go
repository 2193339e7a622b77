package hud

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicsignal/econdash/internal/catalog"
	"github.com/civicsignal/econdash/internal/domain"
)

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func newSimulator(t *testing.T) *Simulator {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	return NewSimulator(catalog.NewIndex(), logger)
}

var hudLocation = domain.Location{StateCode: "06", CountyFIPS: "037"}

func TestFetchYear(t *testing.T) {
	sim := newSimulator(t)

	result, err := sim.FetchYear(context.Background(), hudLocation, "2022", []string{"FMR_2BR", "OCC_RATE"})

	require.NoError(t, err)
	assert.Equal(t, "2022", result.Year)
	assert.Equal(t, "06-037", result.Location)
	require.Len(t, result.Variables, 2)

	fmr, ok := result.Variable("FMR_2BR")
	require.True(t, ok)
	assert.Equal(t, "Fair Market Rent 2 Bedroom", fmr.Name)
	require.NotNil(t, fmr.RawValue)
	assert.NotEqual(t, "N/A", fmr.FormattedValue)
}

func TestFetchYear_Deterministic(t *testing.T) {
	sim := newSimulator(t)
	codes := []string{"FMR_0BR", "HOMELESS_TOTAL", "OCC_RATE"}

	first, err := sim.FetchYear(context.Background(), hudLocation, "2022", codes)
	require.NoError(t, err)
	second, err := sim.FetchYear(context.Background(), hudLocation, "2022", codes)
	require.NoError(t, err)

	for _, code := range codes {
		a, _ := first.Variable(code)
		b, _ := second.Variable(code)
		assert.Equal(t, *a.RawValue, *b.RawValue, "code %s", code)
	}
}

func TestFetchYear_VariesByLocationAndYear(t *testing.T) {
	sim := newSimulator(t)

	base, err := sim.FetchYear(context.Background(), hudLocation, "2022", []string{"HOMELESS_TOTAL"})
	require.NoError(t, err)
	otherCounty, err := sim.FetchYear(context.Background(), domain.Location{StateCode: "06", CountyFIPS: "019"}, "2022", []string{"HOMELESS_TOTAL"})
	require.NoError(t, err)
	otherYear, err := sim.FetchYear(context.Background(), hudLocation, "2023", []string{"HOMELESS_TOTAL"})
	require.NoError(t, err)

	v0, _ := base.Variable("HOMELESS_TOTAL")
	v1, _ := otherCounty.Variable("HOMELESS_TOTAL")
	v2, _ := otherYear.Variable("HOMELESS_TOTAL")
	assert.NotEqual(t, *v0.RawValue, *v1.RawValue)
	assert.NotEqual(t, *v0.RawValue, *v2.RawValue)
}

func TestSimulateValue_FMRScalesWithBedrooms(t *testing.T) {
	var prev float64
	for bedrooms := 0; bedrooms <= 4; bedrooms++ {
		code := fmt.Sprintf("FMR_%dBR", bedrooms)
		v := simulateValue(code, "06-037", "2022")
		if bedrooms > 0 {
			assert.Greater(t, v, prev, "rent for %d bedrooms should exceed %d", bedrooms, bedrooms-1)
		}
		prev = v
	}
}

func TestSimulateValue_IncomeLimitScalesWithHousehold(t *testing.T) {
	two := simulateValue("IL_MEDIAN_2", "06-037", "2022")
	four := simulateValue("IL_VERYLOW_4", "06-037", "2022")
	assert.Greater(t, four, two)
	assert.GreaterOrEqual(t, two, 40000.0)
}

func TestSimulateValue_Ranges(t *testing.T) {
	years := []string{"2019", "2020", "2021", "2022"}
	locations := []string{"06-037", "06-019", "48-201"}

	for _, year := range years {
		for _, loc := range locations {
			rate := simulateValue("OCC_RATE", loc, year)
			assert.GreaterOrEqual(t, rate, 20.0)
			assert.LessOrEqual(t, rate, 80.0)

			size := simulateValue("OCC_HH_SIZE", loc, year)
			assert.GreaterOrEqual(t, size, 1.5)
			assert.LessOrEqual(t, size, 3.5)

			count := simulateValue("HOMELESS_TOTAL", loc, year)
			assert.GreaterOrEqual(t, count, 300.0)
			assert.LessOrEqual(t, count, 5000.0)
		}
	}
}

func TestFetchYear_CancelledContext(t *testing.T) {
	sim := newSimulator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.FetchYear(ctx, hudLocation, "2022", []string{"FMR_2BR"})

	assert.ErrorIs(t, err, context.Canceled)
}
