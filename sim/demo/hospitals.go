// Package demo generates synthetic fixture data for CLI demos and the API
// layer: a hospital network, historical admissions, and preset scenarios.
// Nothing in the core depends on this package.
package demo

import (
	"math"
	"math/rand"

	"github.com/sanket200511/CrisisForge-AI/sim"
)

var hospitalNames = []string{
	"AIIMS Nagpur",
	"Kingsway Hospitals",
	"Wockhardt Hospital",
	"Ojas Hospital",
	"Orange City Hospital",
	"Aureus Hospital",
	"Alexis Multispeciality Hospital",
	"Care Hospital",
}

// Real GPS coordinates for the Nagpur hospital network.
var hospitalCoords = [][2]float64{
	{21.1280, 79.0505}, // AIIMS Nagpur (Mihan)
	{21.1560, 79.0740}, // Kingsway Hospitals (Nagpur Central)
	{21.1394, 79.0812}, // Wockhardt Hospital (Sadar)
	{21.1640, 79.0870}, // Ojas Hospital (Dharampeth)
	{21.1490, 79.0950}, // Orange City Hospital (Ambazari)
	{21.1350, 79.1100}, // Aureus Hospital (Wardhaman Nagar)
	{21.1720, 79.0480}, // Alexis Hospital (Manish Nagar)
	{21.1200, 79.0650}, // Care Hospital (South Nagpur)
}

var regions = []string{"Mihan", "Sitabuldi", "Dharampeth", "Sadar", "Wardhaman Nagar"}

// MaxHospitals is the size of the fixture network.
var MaxHospitals = len(hospitalNames)

func uniformIn(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// Hospitals generates up to count realistic hospital profiles with partially
// occupied capacity.
func Hospitals(count int, rng *rand.Rand) []sim.Facility {
	n := count
	if n > MaxHospitals {
		n = MaxHospitals
	}
	facilities := make([]sim.Facility, 0, n)
	for i := 0; i < n; i++ {
		totalBeds := int(uniformIn(rng, 100, 500))
		icuBeds := int(float64(totalBeds) * uniformIn(rng, 0.08, 0.18))
		ventilators := int(float64(icuBeds) * uniformIn(rng, 0.5, 0.9))
		staff := int(float64(totalBeds) * uniformIn(rng, 0.6, 1.2))
		occupancy := uniformIn(rng, 0.4, 0.8)

		facilities = append(facilities, sim.Facility{
			ID:               i + 1,
			Name:             hospitalNames[i],
			Region:           regions[i%len(regions)],
			Lat:              hospitalCoords[i][0],
			Lng:              hospitalCoords[i][1],
			TotalBeds:        totalBeds,
			ICUBeds:          icuBeds,
			Ventilators:      ventilators,
			TotalStaff:       staff,
			OccupiedBeds:     int(float64(totalBeds) * occupancy),
			OccupiedICU:      int(float64(icuBeds) * occupancy * 0.9),
			VentilatorsInUse: int(float64(ventilators) * occupancy * 0.7),
			ActiveStaff:      int(float64(staff) * uniformIn(rng, 0.7, 0.95)),
		})
	}
	return facilities
}

// History is a synthetic historical admissions series for trend charts.
type History struct {
	Days          []int   `json:"days"`
	Admissions    []int   `json:"admissions"`
	Discharges    []int   `json:"discharges"`
	ICUAdmissions []int   `json:"icu_admissions"`
	AvgDaily      float64 `json:"avg_daily"`
	PeakDaily     int     `json:"peak_daily"`
	Total         int     `json:"total"`
}

// HistoricalData generates daily admissions with a mild upward trend, weekly
// periodicity, and noise, floored at 5/day.
func HistoricalData(days int, rng *rand.Rand) *History {
	h := &History{
		Days:          make([]int, days),
		Admissions:    make([]int, days),
		Discharges:    make([]int, days),
		ICUAdmissions: make([]int, days),
	}
	sum := 0.0
	for i := 0; i < days; i++ {
		t := float64(i)
		admissions := int(math.Max(35+0.1*t+5*math.Sin(2*math.Pi*t/7)+rng.NormFloat64()*3, 5))
		h.Days[i] = i + 1
		h.Admissions[i] = admissions
		h.Discharges[i] = maxOf(admissions-rng.Intn(8), 0)
		h.ICUAdmissions[i] = int(float64(admissions) * uniformIn(rng, 0.08, 0.15))

		sum += float64(admissions)
		h.Total += admissions
		if admissions > h.PeakDaily {
			h.PeakDaily = admissions
		}
	}
	if days > 0 {
		h.AvgDaily = math.Round(sum/float64(days)*10) / 10
	}
	return h
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// PresetScenario is a ready-made crisis scenario for the scenario builder.
type PresetScenario struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	CrisisType      string  `json:"crisis_type"`
	DurationDays    int     `json:"duration_days"`
	SurgeMultiplier float64 `json:"surge_multiplier"`
	Description     string  `json:"description"`
	Severity        string  `json:"severity"`
}

// PresetScenarios returns the built-in crisis scenarios.
func PresetScenarios() []PresetScenario {
	return []PresetScenario{
		{
			ID: 1, Name: "COVID-19 Wave", CrisisType: sim.CrisisPandemic,
			DurationDays: 60, SurgeMultiplier: 2.5,
			Description: "Simulate a pandemic wave with exponential growth, plateau, and gradual decline in patient inflow.",
			Severity:    "Critical",
		},
		{
			ID: 2, Name: "Earthquake Response", CrisisType: sim.CrisisEarthquake,
			DurationDays: 30, SurgeMultiplier: 3.0,
			Description: "Model mass casualty event with sharp initial spike in trauma patients followed by rapid decay.",
			Severity:    "Severe",
		},
		{
			ID: 3, Name: "Monsoon Flooding", CrisisType: sim.CrisisFlood,
			DurationDays: 45, SurgeMultiplier: 2.0,
			Description: "Gradual rise in waterborne disease and injury cases with sustained peak during flood season.",
			Severity:    "High",
		},
		{
			ID: 4, Name: "Staff Shortage Crisis", CrisisType: sim.CrisisStaffShortage,
			DurationDays: 30, SurgeMultiplier: 1.0,
			Description: "Model reduced staff availability during normal patient load.",
			Severity:    "Moderate",
		},
		{
			ID: 5, Name: "Multi-Hazard Scenario", CrisisType: sim.CrisisPandemic,
			DurationDays: 90, SurgeMultiplier: 3.5,
			Description: "Worst-case scenario: pandemic surge combined with infrastructure strain over 3 months.",
			Severity:    "Catastrophic",
		},
	}
}
