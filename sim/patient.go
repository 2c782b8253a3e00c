package sim

import "math/rand"

// Patient is an ephemeral per-day record. Cohorts are created fresh each
// simulated day and discarded after the day's allocation pass; there is no
// cross-day patient identity.
type Patient struct {
	Age             int    `json:"age"`
	Severity        int    `json:"severity"` // 1-10
	NeedsICU        bool   `json:"needs_icu"`
	NeedsVentilator bool   `json:"needs_ventilator"`
	CrisisType      string `json:"crisis_type"`
}

// severityNudge holds archetype-specific probability-weighted severity
// increments. Pandemic and earthquake both bias toward more severe cases,
// earthquake more so.
type severityNudge struct {
	increments []int
	weights    []float64
}

var severityNudges = map[string]severityNudge{
	CrisisPandemic:   {increments: []int{0, 1, 2, 3}, weights: []float64{0.4, 0.3, 0.2, 0.1}},
	CrisisEarthquake: {increments: []int{0, 2, 3, 4}, weights: []float64{0.3, 0.3, 0.25, 0.15}},
}

// GenerateCohort materializes a batch of patient records for one simulated
// day. The (possibly fractional) count is truncated to an integer.
func GenerateCohort(count float64, crisisType string, rng *rand.Rand) []Patient {
	n := int(count)
	if n <= 0 {
		return nil
	}
	patients := make([]Patient, 0, n)
	for i := 0; i < n; i++ {
		severity := int(clampFloat(rng.ExpFloat64()*4+1, 1, 10))
		if nudge, ok := severityNudges[crisisType]; ok {
			severity = clampInt(severity+weightedPick(rng, nudge.increments, nudge.weights), 1, 10)
		}

		age := int(clampFloat(rng.NormFloat64()*20+50, 1, 95))
		needsICU := severity >= 7 || (severity >= 5 && rng.Float64() < 0.3)
		needsVentilator := severity >= 8 || (needsICU && rng.Float64() < 0.4)

		patients = append(patients, Patient{
			Age:             age,
			Severity:        severity,
			NeedsICU:        needsICU,
			NeedsVentilator: needsVentilator,
			CrisisType:      crisisType,
		})
	}
	return patients
}

// weightedPick draws one value from choices with the given weights.
// Weights must sum to 1; the last choice absorbs rounding slack.
func weightedPick(rng *rand.Rand, choices []int, weights []float64) int {
	r := rng.Float64()
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return choices[i]
		}
	}
	return choices[len(choices)-1]
}
