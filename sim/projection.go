package sim

import "math"

// ProjectionRates maps patient inflow to resource demand.
type ProjectionRates struct {
	BedRate         float64 `yaml:"bed_rate" json:"bed_rate"`
	ICURate         float64 `yaml:"icu_rate" json:"icu_rate"`
	VentilatorRate  float64 `yaml:"ventilator_rate" json:"ventilator_rate"`
	StaffPerPatient float64 `yaml:"staff_per_patient" json:"staff_per_patient"`
	AvgStayDays     float64 `yaml:"avg_stay_days" json:"avg_stay_days"`
}

// DefaultProjectionRates mirror typical acute-care ratios.
var DefaultProjectionRates = ProjectionRates{
	BedRate:         0.85,
	ICURate:         0.15,
	VentilatorRate:  0.08,
	StaffPerPatient: 0.5,
	AvgStayDays:     5.0,
}

// ResourceProjection holds per-day resource demand derived from an inflow
// curve. All slices have the same length as the input. Read-only.
type ResourceProjection struct {
	Days              []int     `json:"days"`
	BedsNeeded        []float64 `json:"beds_needed"`
	ICUNeeded         []float64 `json:"icu_needed"`
	VentilatorsNeeded []float64 `json:"ventilators_needed"`
	StaffNeeded       []float64 `json:"staff_needed"`
}

// dischargeEntry is one cohort awaiting discharge. Discharge days are
// strictly increasing, so a plain FIFO suffices (no heap needed).
type dischargeEntry struct {
	day  float64
	size float64
}

// ProjectResources converts a daily inflow sequence into projected
// bed/ICU/ventilator/staff load using a fixed length-of-stay queue: each day
// admits that day's cohort, evicts cohorts whose stay has elapsed, and
// records active-patient-weighted demand, rounded to one decimal.
func ProjectResources(inflow []float64, rates ProjectionRates) *ResourceProjection {
	days := len(inflow)
	proj := &ResourceProjection{
		Days:              make([]int, days),
		BedsNeeded:        make([]float64, days),
		ICUNeeded:         make([]float64, days),
		VentilatorsNeeded: make([]float64, days),
		StaffNeeded:       make([]float64, days),
	}

	active := 0.0
	var queue []dischargeEntry
	for day := 0; day < days; day++ {
		newPatients := inflow[day]
		active += newPatients
		queue = append(queue, dischargeEntry{day: float64(day) + rates.AvgStayDays, size: newPatients})

		for len(queue) > 0 && queue[0].day <= float64(day) {
			active = math.Max(0, active-queue[0].size)
			queue = queue[1:]
		}

		proj.Days[day] = day + 1
		proj.BedsNeeded[day] = round1(active * rates.BedRate)
		proj.ICUNeeded[day] = round1(active * rates.ICURate)
		proj.VentilatorsNeeded[day] = round1(active * rates.VentilatorRate)
		proj.StaffNeeded[day] = round1(active * rates.StaffPerPatient)
	}
	return proj
}
