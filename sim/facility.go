package sim

import "math"

// Facility is a snapshot of one hospital's identity and occupancy.
// Shared by the simulation driver's capacity model and the transfer
// optimizer.
type Facility struct {
	ID     int     `yaml:"id" json:"id"`
	Name   string  `yaml:"name" json:"name"`
	Region string  `yaml:"region" json:"region"`
	Lat    float64 `yaml:"lat" json:"lat"`
	Lng    float64 `yaml:"lng" json:"lng"`

	TotalBeds   int `yaml:"total_beds" json:"total_beds"`
	ICUBeds     int `yaml:"icu_beds" json:"icu_beds"`
	Ventilators int `yaml:"ventilators" json:"ventilators"`
	TotalStaff  int `yaml:"total_staff" json:"total_staff"`

	OccupiedBeds     int `yaml:"occupied_beds" json:"occupied_beds"`
	OccupiedICU      int `yaml:"occupied_icu" json:"occupied_icu"`
	VentilatorsInUse int `yaml:"ventilators_in_use" json:"ventilators_in_use"`
	ActiveStaff      int `yaml:"active_staff" json:"active_staff"`
}

// AvailableCapacity is a facility's free resources, floored at zero.
type AvailableCapacity struct {
	Beds        int `json:"beds"`
	ICU         int `json:"icu"`
	Ventilators int `json:"ventilators"`
	StaffSlack  int `json:"staff_slack"`
}

// Pressure weights. ICU and ventilator occupancy dominate because they gate
// the sickest patients.
const (
	bedPressureWeight        = 0.25
	icuPressureWeight        = 0.35
	ventilatorPressureWeight = 0.25
	staffPressureWeight      = 0.15
)

// occupancyPct guards the division: a zero-capacity resource reads as fully
// utilized relative to a floor of 1, never a divide-by-zero.
func occupancyPct(inUse, total int) float64 {
	return float64(inUse) / float64(maxInt(total, 1)) * 100
}

// Pressure computes the weighted composite occupancy score (0-100, capped).
func (f *Facility) Pressure() float64 {
	p := occupancyPct(f.OccupiedBeds, f.TotalBeds)*bedPressureWeight +
		occupancyPct(f.OccupiedICU, f.ICUBeds)*icuPressureWeight +
		occupancyPct(f.VentilatorsInUse, f.Ventilators)*ventilatorPressureWeight +
		occupancyPct(f.ActiveStaff, f.TotalStaff)*staffPressureWeight
	return round1(math.Min(p, 100))
}

// Available returns the facility's free capacity. Never negative.
func (f *Facility) Available() AvailableCapacity {
	return AvailableCapacity{
		Beds:        maxInt(0, f.TotalBeds-f.OccupiedBeds),
		ICU:         maxInt(0, f.ICUBeds-f.OccupiedICU),
		Ventilators: maxInt(0, f.Ventilators-f.VentilatorsInUse),
		StaffSlack:  maxInt(0, f.TotalStaff-f.ActiveStaff),
	}
}

// Facility status labels by pressure band.
const (
	StatusCritical   = "critical"
	StatusOverloaded = "overloaded"
	StatusStable     = "stable"
	StatusAvailable  = "available"
)

// StatusLabel classifies a pressure score against the overload threshold.
func StatusLabel(pressure, overloadThreshold float64) string {
	switch {
	case pressure > 90:
		return StatusCritical
	case pressure > overloadThreshold:
		return StatusOverloaded
	case pressure > 50:
		return StatusStable
	default:
		return StatusAvailable
	}
}
