package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotWith(county string, vars ...ObservedVariable) ComparisonSlot {
	r := yearResult("2022", vars...)
	return ComparisonSlot{
		StateCode:  "06",
		CountyFIPS: "037",
		CountyName: county,
		Data:       &r,
	}
}

func TestAddSlot(t *testing.T) {
	slots := []ComparisonSlot{{CountyName: "a"}, {CountyName: "b"}}

	slots, ok := AddSlot(slots, ComparisonSlot{CountyName: "c"})
	assert.True(t, ok)
	assert.Len(t, slots, 3)

	for len(slots) < MaxComparisonSlots {
		slots, ok = AddSlot(slots, ComparisonSlot{})
		require.True(t, ok)
	}

	rejected, ok := AddSlot(slots, ComparisonSlot{CountyName: "overflow"})
	assert.False(t, ok)
	assert.Len(t, rejected, MaxComparisonSlots)
}

func TestRemoveSlot(t *testing.T) {
	slots := []ComparisonSlot{{CountyName: "a"}, {CountyName: "b"}, {CountyName: "c"}}

	t.Run("removes at index", func(t *testing.T) {
		out, ok := RemoveSlot(slots, 1)
		assert.True(t, ok)
		require.Len(t, out, 2)
		assert.Equal(t, "a", out[0].CountyName)
		assert.Equal(t, "c", out[1].CountyName)
	})

	t.Run("rejects shrinking below minimum", func(t *testing.T) {
		two := slots[:MinComparisonSlots]
		out, ok := RemoveSlot(two, 0)
		assert.False(t, ok)
		assert.Len(t, out, MinComparisonSlots)
	})

	t.Run("rejects out of range index", func(t *testing.T) {
		_, ok := RemoveSlot(slots, 3)
		assert.False(t, ok)
		_, ok = RemoveSlot(slots, -1)
		assert.False(t, ok)
	})
}

func TestGapAnalysis(t *testing.T) {
	t.Run("computes gap and direction", func(t *testing.T) {
		slot1 := slotWith("Alameda", observed("X", "Median Income", "Economic", 100))
		slot2 := slotWith("Fresno", observed("X", "Median Income", "Economic", 150))

		records := GapAnalysis(slot1, slot2, []string{"X"})

		require.Len(t, records, 1)
		rec := records[0]
		assert.Equal(t, 100.0, rec.Value1)
		assert.Equal(t, 150.0, rec.Value2)
		assert.Equal(t, 50.0, rec.AbsoluteGap)
		assert.Equal(t, 50.0, rec.PercentageGap)
		assert.Equal(t, "higher", rec.Direction)
		assert.Equal(t, "Fresno", rec.HigherLocation)
	})

	t.Run("lower direction names the first county", func(t *testing.T) {
		slot1 := slotWith("Alameda", observed("X", "Median Income", "Economic", 200))
		slot2 := slotWith("Fresno", observed("X", "Median Income", "Economic", 150))

		records := GapAnalysis(slot1, slot2, []string{"X"})

		require.Len(t, records, 1)
		assert.Equal(t, "lower", records[0].Direction)
		assert.Equal(t, "Alameda", records[0].HigherLocation)
		assert.Equal(t, -25.0, records[0].PercentageGap)
	})

	t.Run("zero first value keeps percentage gap at zero", func(t *testing.T) {
		slot1 := slotWith("Alameda", observed("X", "Median Income", "Economic", 0))
		slot2 := slotWith("Fresno", observed("X", "Median Income", "Economic", 150))

		records := GapAnalysis(slot1, slot2, []string{"X"})

		require.Len(t, records, 1)
		assert.Equal(t, 0.0, records[0].PercentageGap)
		assert.Equal(t, 150.0, records[0].AbsoluteGap)
	})

	t.Run("skips variables missing or null on either side", func(t *testing.T) {
		null := ObservedVariable{Code: "Y", Name: "Rate", Category: "Economic", FormattedValue: "N/A"}
		slot1 := slotWith("Alameda", observed("X", "Income", "Economic", 100), null)
		slot2 := slotWith("Fresno", observed("X", "Income", "Economic", 120), observed("Y", "Rate", "Economic", 5))

		records := GapAnalysis(slot1, slot2, []string{"X", "Y", "Z"})

		require.Len(t, records, 1)
		assert.Equal(t, "X", records[0].Code)
	})

	t.Run("sorts descending by absolute percentage gap", func(t *testing.T) {
		slot1 := slotWith("Alameda",
			observed("SMALL", "Small", "A", 100),
			observed("BIG", "Big", "A", 100),
			observed("NEG", "Neg", "A", 100),
		)
		slot2 := slotWith("Fresno",
			observed("SMALL", "Small", "A", 110),
			observed("BIG", "Big", "A", 180),
			observed("NEG", "Neg", "A", 50),
		)

		records := GapAnalysis(slot1, slot2, []string{"SMALL", "BIG", "NEG"})

		require.Len(t, records, 3)
		assert.Equal(t, "BIG", records[0].Code)
		assert.Equal(t, "NEG", records[1].Code)
		assert.Equal(t, "SMALL", records[2].Code)
	})

	t.Run("nil data yields nil", func(t *testing.T) {
		slot1 := slotWith("Alameda", observed("X", "Income", "Economic", 100))
		assert.Nil(t, GapAnalysis(slot1, ComparisonSlot{CountyName: "Fresno"}, []string{"X"}))
	})
}

func TestNormalizeForRadar(t *testing.T) {
	slot1 := slotWith("Alameda", observed("X", "Median Income", "Economic", 50))
	slot2 := slotWith("Fresno", observed("X", "Median Income", "Economic", 200))
	slot3 := ComparisonSlot{CountyName: "Kern"}

	rows := NormalizeForRadar([]ComparisonSlot{slot1, slot2, slot3}, []string{"X", "MISSING"})

	require.Len(t, rows, 2)

	radar := rows[0]
	assert.Equal(t, "Median Income", radar.Variable)
	assert.Equal(t, 100.0, radar.FullMark)
	assert.Equal(t, 25.0, radar.Values["Alameda"])
	assert.Equal(t, 100.0, radar.Values["Fresno"])
	_, hasKern := radar.Values["Kern"]
	assert.False(t, hasKern)

	missing := rows[1]
	assert.Equal(t, "MISSING", missing.Variable)
	assert.Equal(t, 0.0, missing.Values["Alameda"])
	assert.Equal(t, 0.0, missing.Values["Fresno"])
}
