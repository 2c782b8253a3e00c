package server

// FeatureVector is the patient snapshot handed to an outcome classifier.
type FeatureVector struct {
	Age                   float64 `json:"age" binding:"min=1,max=100"`
	Gender                int     `json:"gender" binding:"min=0,max=1"`
	SeverityScore         float64 `json:"severity_score" binding:"min=1,max=10"`
	RespiratoryRate       float64 `json:"respiratory_rate"`
	HeartRate             float64 `json:"heart_rate"`
	SpO2                  float64 `json:"spo2"`
	Temperature           float64 `json:"temperature"`
	SystolicBP            float64 `json:"systolic_bp"`
	HasComorbidity        int     `json:"has_comorbidity"`
	ComorbidityCount      int     `json:"comorbidity_count"`
	DaysSinceSymptomOnset float64 `json:"days_since_symptom_onset"`
	IsICUCandidate        int     `json:"is_icu_candidate"`
	CrisisDay             float64 `json:"crisis_day"`
	HospitalBedOccupancy  float64 `json:"hospital_bed_occupancy"`
	HospitalICUOccupancy  float64 `json:"hospital_icu_occupancy"`
}

// OutcomePrediction is a classifier's verdict for one patient.
type OutcomePrediction struct {
	OutcomeLabel          string             `json:"predicted_outcome"`
	Probabilities         map[string]float64 `json:"outcome_probabilities"`
	ResourceHoursEstimate float64            `json:"predicted_resource_hours"`
}

// OutcomePredictor is the interface an external patient-outcome classifier
// implements. The server exposes prediction routes only when one is injected
// at construction; the simulation core never calls it.
type OutcomePredictor interface {
	PredictOutcome(features FeatureVector) (OutcomePrediction, error)
}
