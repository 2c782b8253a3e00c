package demo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHospitals_CountClampedToFixtureSize(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Len(t, Hospitals(3, rng), 3)
	assert.Len(t, Hospitals(50, rand.New(rand.NewSource(1))), MaxHospitals)
	assert.Empty(t, Hospitals(0, rng))
}

func TestHospitals_PlausibleProfiles(t *testing.T) {
	hospitals := Hospitals(MaxHospitals, rand.New(rand.NewSource(42)))
	seen := make(map[string]bool)
	for _, h := range hospitals {
		require.NotEmpty(t, h.Name)
		assert.False(t, seen[h.Name], "duplicate hospital name %s", h.Name)
		seen[h.Name] = true

		assert.GreaterOrEqual(t, h.TotalBeds, 100)
		assert.Less(t, h.TotalBeds, 500)
		assert.LessOrEqual(t, h.OccupiedBeds, h.TotalBeds)
		assert.LessOrEqual(t, h.OccupiedICU, h.ICUBeds)
		assert.LessOrEqual(t, h.VentilatorsInUse, h.Ventilators)
		assert.NotZero(t, h.Lat)
		assert.NotZero(t, h.Lng)
		assert.NotEmpty(t, h.Region)
	}
}

func TestHospitals_DeterministicForSameSeed(t *testing.T) {
	a := Hospitals(5, rand.New(rand.NewSource(9)))
	b := Hospitals(5, rand.New(rand.NewSource(9)))
	assert.Equal(t, a, b)
}

func TestHistoricalData_SeriesShape(t *testing.T) {
	h := HistoricalData(30, rand.New(rand.NewSource(3)))
	require.Len(t, h.Days, 30)
	require.Len(t, h.Admissions, 30)
	require.Len(t, h.Discharges, 30)
	require.Len(t, h.ICUAdmissions, 30)

	total := 0
	peak := 0
	for i := range h.Days {
		assert.Equal(t, i+1, h.Days[i])
		assert.GreaterOrEqual(t, h.Admissions[i], 5, "admissions are floored at 5/day")
		assert.GreaterOrEqual(t, h.Discharges[i], 0)
		assert.LessOrEqual(t, h.ICUAdmissions[i], h.Admissions[i])
		total += h.Admissions[i]
		if h.Admissions[i] > peak {
			peak = h.Admissions[i]
		}
	}
	assert.Equal(t, total, h.Total)
	assert.Equal(t, peak, h.PeakDaily)
	assert.Greater(t, h.AvgDaily, 0.0)
}

func TestHistoricalData_ZeroDays(t *testing.T) {
	h := HistoricalData(0, rand.New(rand.NewSource(1)))
	assert.Empty(t, h.Days)
	assert.Equal(t, 0.0, h.AvgDaily)
}

func TestPresetScenarios_ValidAgainstSimulationBounds(t *testing.T) {
	scenarios := PresetScenarios()
	require.NotEmpty(t, scenarios)
	for _, s := range scenarios {
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.CrisisType)
		assert.GreaterOrEqual(t, s.DurationDays, 7)
		assert.LessOrEqual(t, s.DurationDays, 180)
		assert.GreaterOrEqual(t, s.SurgeMultiplier, 1.0)
		assert.LessOrEqual(t, s.SurgeMultiplier, 5.0)
	}
}
