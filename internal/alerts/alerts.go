// Package alerts renders capacity alerts and delivers them through a
// pluggable Notifier. It consumes core outputs; the core never calls it.
package alerts

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sanket200511/CrisisForge-AI/sim"
	"github.com/sanket200511/CrisisForge-AI/sim/transfer"
)

// Alert levels.
const (
	LevelCritical = "critical"
	LevelWarning  = "warning"
)

// Alert is one threshold breach at one facility.
type Alert struct {
	Level    string `json:"level"`
	Facility string `json:"hospital"`
	Message  string `json:"message"`
	Type     string `json:"type"`
}

// Thresholds are occupancy percentages that trigger alerts.
type Thresholds struct {
	BedCritical        float64 `mapstructure:"bed_critical" json:"bed_critical"`
	BedWarning         float64 `mapstructure:"bed_warning" json:"bed_warning"`
	ICUCritical        float64 `mapstructure:"icu_critical" json:"icu_critical"`
	ICUWarning         float64 `mapstructure:"icu_warning" json:"icu_warning"`
	VentilatorCritical float64 `mapstructure:"ventilator_critical" json:"ventilator_critical"`
}

// DefaultThresholds are the production alerting levels.
var DefaultThresholds = Thresholds{
	BedCritical:        90,
	BedWarning:         80,
	ICUCritical:        85,
	ICUWarning:         75,
	VentilatorCritical: 85,
}

func occupancyPct(inUse, total int) float64 {
	if total < 1 {
		total = 1
	}
	return float64(inUse) / float64(total) * 100
}

// CapacityAlerts scans facility occupancy against the thresholds.
func CapacityAlerts(facilities []sim.Facility, th Thresholds) []Alert {
	var alerts []Alert
	for _, f := range facilities {
		bedPct := occupancyPct(f.OccupiedBeds, f.TotalBeds)
		icuPct := occupancyPct(f.OccupiedICU, f.ICUBeds)
		ventPct := occupancyPct(f.VentilatorsInUse, f.Ventilators)

		switch {
		case bedPct >= th.BedCritical:
			alerts = append(alerts, Alert{LevelCritical, f.Name, fmt.Sprintf("Bed occupancy at %.1f%%", bedPct), "bed"})
		case bedPct >= th.BedWarning:
			alerts = append(alerts, Alert{LevelWarning, f.Name, fmt.Sprintf("Bed occupancy at %.1f%%", bedPct), "bed"})
		}
		switch {
		case icuPct >= th.ICUCritical:
			alerts = append(alerts, Alert{LevelCritical, f.Name, fmt.Sprintf("ICU occupancy at %.1f%%", icuPct), "icu"})
		case icuPct >= th.ICUWarning:
			alerts = append(alerts, Alert{LevelWarning, f.Name, fmt.Sprintf("ICU occupancy at %.1f%%", icuPct), "icu"})
		}
		if ventPct >= th.VentilatorCritical {
			alerts = append(alerts, Alert{LevelCritical, f.Name, fmt.Sprintf("Ventilator usage at %.1f%%", ventPct), "ventilator"})
		}
	}
	return alerts
}

// NetworkOverview summarizes network-wide occupancy for alert messages.
type NetworkOverview struct {
	TotalFacilities int     `json:"total_hospitals"`
	BedOccupancy    float64 `json:"bed_occupancy"`
	ICUOccupancy    float64 `json:"icu_occupancy"`
	VentilatorUsage float64 `json:"ventilator_usage"`
}

// Overview aggregates occupancy percentages across the network.
func Overview(facilities []sim.Facility) NetworkOverview {
	var beds, occBeds, icu, occICU, vents, ventsUsed int
	for _, f := range facilities {
		beds += f.TotalBeds
		occBeds += f.OccupiedBeds
		icu += f.ICUBeds
		occICU += f.OccupiedICU
		vents += f.Ventilators
		ventsUsed += f.VentilatorsInUse
	}
	round := func(x float64) float64 { return math.Round(x*10) / 10 }
	return NetworkOverview{
		TotalFacilities: len(facilities),
		BedOccupancy:    round(occupancyPct(occBeds, beds)),
		ICUOccupancy:    round(occupancyPct(occICU, icu)),
		VentilatorUsage: round(occupancyPct(ventsUsed, vents)),
	}
}

// FormatAlertMessage renders alerts as a Markdown message for delivery.
func FormatAlertMessage(alerts []Alert, overview NetworkOverview, now time.Time) string {
	var b strings.Builder
	b.WriteString("*CrisisForge Alert*\n")
	fmt.Fprintf(&b, "%s\n\n", now.Format("2006-01-02 15:04"))

	if overview.TotalFacilities > 0 {
		b.WriteString("*Network Overview*\n")
		fmt.Fprintf(&b, "Hospitals: %d\n", overview.TotalFacilities)
		fmt.Fprintf(&b, "Bed Occ: %.1f%%\n", overview.BedOccupancy)
		fmt.Fprintf(&b, "ICU Occ: %.1f%%\n", overview.ICUOccupancy)
		fmt.Fprintf(&b, "Ventilator: %.1f%%\n\n", overview.VentilatorUsage)
	}

	if len(alerts) > 0 {
		fmt.Fprintf(&b, "*Active Alerts (%d)*\n", len(alerts))
		for _, a := range alerts {
			fmt.Fprintf(&b, "[%s] *%s*: %s\n", strings.ToUpper(a.Level), a.Facility, a.Message)
		}
	} else {
		b.WriteString("All systems within normal thresholds\n")
	}
	return b.String()
}

// FormatTransferMessage renders a transfer plan (up to 5 recommendations).
func FormatTransferMessage(plan *transfer.Plan) string {
	if plan == nil || len(plan.Recommendations) == 0 {
		return "No transfers recommended. Network is balanced."
	}

	var b strings.Builder
	b.WriteString("*Patient Transfer Recommendations*\n\n")
	recs := plan.Recommendations
	if len(recs) > 5 {
		recs = recs[:5]
	}
	for _, t := range recs {
		fmt.Fprintf(&b, "*Transfer #%d* (%s)\n", t.ID, t.Priority)
		fmt.Fprintf(&b, "  From: %s (%.1f%% load)\n", t.FromFacility, t.FromPressure)
		fmt.Fprintf(&b, "  To: %s (%.1f%% load)\n", t.ToFacility, t.ToPressure)
		fmt.Fprintf(&b, "  Patients: %d (%d general + %d ICU)\n", t.TotalPatients, t.PatientsGeneral, t.PatientsICU)
		fmt.Fprintf(&b, "  Distance: %.1fkm (~%.0fmin)\n", t.DistanceKm, t.EstimatedTransferTimeMin)
		fmt.Fprintf(&b, "  Pressure reduction: %.1f%%\n\n", t.PressureReduction)
	}
	fmt.Fprintf(&b, "Total patients to transfer: %d", plan.TotalPatientsToTransfer)
	return b.String()
}
