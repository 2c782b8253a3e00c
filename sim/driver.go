package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Hospital capacity bounds for one simulation scenario.
const (
	MinHospitalBeds        = 10
	MaxHospitalBeds        = 2000
	MinHospitalICU         = 1
	MaxHospitalICU         = 500
	MinHospitalVentilators = 1
	MaxHospitalVentilators = 300
)

// ScenarioConfig describes one simulation scenario. Policies defaults to all
// four allocation policies when empty; unknown keys are silently skipped so a
// caller can safely request a superset.
type ScenarioConfig struct {
	CrisisType          string   `yaml:"crisis_type" json:"crisis_type"`
	DurationDays        int      `yaml:"duration_days" json:"duration_days"`
	SurgeMultiplier     float64  `yaml:"surge_multiplier" json:"surge_multiplier"`
	BaseDailyPatients   float64  `yaml:"base_daily_patients" json:"base_daily_patients"`
	HospitalBeds        int      `yaml:"hospital_beds" json:"hospital_beds"`
	HospitalICU         int      `yaml:"hospital_icu" json:"hospital_icu"`
	HospitalVentilators int      `yaml:"hospital_ventilators" json:"hospital_ventilators"`
	Policies            []string `yaml:"policies" json:"policies,omitempty"`
}

// Validate checks all documented parameter bounds. Nothing is computed for an
// out-of-range scenario.
func (c *ScenarioConfig) Validate() error {
	fc := ForecastConfig{Days: c.DurationDays, BaseDaily: c.BaseDailyPatients, SurgeMultiplier: c.SurgeMultiplier}
	if err := fc.Validate(); err != nil {
		return err
	}
	if c.HospitalBeds < MinHospitalBeds || c.HospitalBeds > MaxHospitalBeds {
		return fmt.Errorf("hospital_beds must be in [%d,%d], got %d", MinHospitalBeds, MaxHospitalBeds, c.HospitalBeds)
	}
	if c.HospitalICU < MinHospitalICU || c.HospitalICU > MaxHospitalICU {
		return fmt.Errorf("hospital_icu must be in [%d,%d], got %d", MinHospitalICU, MaxHospitalICU, c.HospitalICU)
	}
	if c.HospitalVentilators < MinHospitalVentilators || c.HospitalVentilators > MaxHospitalVentilators {
		return fmt.Errorf("hospital_ventilators must be in [%d,%d], got %d", MinHospitalVentilators, MaxHospitalVentilators, c.HospitalVentilators)
	}
	return nil
}

// selectedPolicies resolves the requested policy keys: all keys when none are
// given, unknown keys dropped with a warning.
func (c *ScenarioConfig) selectedPolicies() []string {
	if len(c.Policies) == 0 {
		return AllocationPolicyKeys
	}
	var keys []string
	for _, k := range c.Policies {
		if !IsValidAllocationPolicy(k) {
			logrus.Warnf("skipping unknown allocation policy %q", k)
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// TimelineEntry is one day of one policy run. Mortality is cumulative.
type TimelineEntry struct {
	Day                 int     `json:"day"`
	Patients            int     `json:"patients"`
	Treated             int     `json:"treated"`
	Denied              int     `json:"denied"`
	CumulativeTreated   int     `json:"cumulative_treated"`
	CumulativeDenied    int     `json:"cumulative_denied"`
	MortalityEstimate   float64 `json:"mortality_estimate"`
	ResourceUtilization float64 `json:"resource_utilization"`
	AvgWait             float64 `json:"avg_wait"`
	BedsAvailable       int     `json:"beds_available"`
	ICUAvailable        int     `json:"icu_available"`
	VentsAvailable      int     `json:"vents_available"`
}

// RunSummary aggregates one policy run after the horizon completes.
type RunSummary struct {
	TotalPatients   int     `json:"total_patients"`
	TotalTreated    int     `json:"total_treated"`
	TotalDenied     int     `json:"total_denied"`
	EstimatedDeaths float64 `json:"estimated_deaths"`
	SurvivalRate    float64 `json:"survival_rate"`
	AvgUtilization  float64 `json:"avg_utilization"`
	AvgWaitTime     float64 `json:"avg_wait_time"`
	PeakDenied      int     `json:"peak_denied"`
}

// PolicyRun is the full timeline and summary for one allocation policy.
type PolicyRun struct {
	Key      string          `json:"key"`
	Name     string          `json:"name"`
	Color    string          `json:"color"`
	Timeline []TimelineEntry `json:"timeline"`
	Summary  RunSummary      `json:"summary"`
}

// HospitalCapacity is the nominal resource pool of the simulated facility.
type HospitalCapacity struct {
	Beds        int `json:"beds"`
	ICU         int `json:"icu"`
	Ventilators int `json:"ventilators"`
}

// SimulationResult bundles the forecast, the derived resource projection, and
// one run per selected policy.
type SimulationResult struct {
	Scenario         ScenarioConfig        `json:"scenario"`
	Hospital         HospitalCapacity      `json:"hospital"`
	InflowForecast   *DemandSeries         `json:"inflow_forecast"`
	ResourceForecast *ResourceProjection   `json:"resource_forecast"`
	Policies         map[string]*PolicyRun `json:"strategies"`
}

// RunSimulation executes the full pipeline: forecast, resource projection,
// then one independent day-stepped run per selected policy. Policy runs share
// no mutable state and execute concurrently; per-policy RNGs are derived from
// the key before the group starts, so results are deterministic for a given
// SimulationKey regardless of scheduling.
func RunSimulation(cfg ScenarioConfig, key SimulationKey) (*SimulationResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prng := NewPartitionedRNG(key)
	forecast, err := Forecast(ForecastConfig{
		Days:            cfg.DurationDays,
		BaseDaily:       cfg.BaseDailyPatients,
		CrisisType:      cfg.CrisisType,
		SurgeMultiplier: cfg.SurgeMultiplier,
	}, prng.ForSubsystem(SubsystemForecast))
	if err != nil {
		return nil, err
	}
	projection := ProjectResources(forecast.Mean, DefaultProjectionRates)

	keys := cfg.selectedPolicies()
	runs := make([]*PolicyRun, len(keys))
	rngs := make([]*rand.Rand, len(keys))
	for i, k := range keys {
		rngs[i] = prng.ForSubsystem(SubsystemPolicy(k))
	}

	var g errgroup.Group
	for i, k := range keys {
		i, k := i, k
		g.Go(func() error {
			runs[i] = runPolicy(NewAllocationPolicy(k), cfg, forecast.Mean, rngs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &SimulationResult{
		Scenario: cfg,
		Hospital: HospitalCapacity{
			Beds:        cfg.HospitalBeds,
			ICU:         cfg.HospitalICU,
			Ventilators: cfg.HospitalVentilators,
		},
		InflowForecast:   forecast,
		ResourceForecast: projection,
		Policies:         make(map[string]*PolicyRun, len(runs)),
	}
	for _, run := range runs {
		result.Policies[run.Key] = run
	}
	return result, nil
}

// dailyBudget shrinks the nominal capacity by the day's background strain.
// Each pool is floored at 1 so allocation always has something to work with.
func dailyBudget(cfg ScenarioConfig, day int) ResourceBudget {
	usage := math.Min(0.7, float64(day)*0.02)
	return ResourceBudget{
		Beds:        maxInt(1, int(float64(cfg.HospitalBeds)*(1-usage*0.3))),
		ICU:         maxInt(1, int(float64(cfg.HospitalICU)*(1-usage*0.5))),
		Ventilators: maxInt(1, int(float64(cfg.HospitalVentilators)*(1-usage*0.4))),
	}
}

// runPolicy steps one policy over the horizon, generating a fresh cohort per
// day from the forecast mean and accumulating the timeline.
func runPolicy(policy AllocationPolicy, cfg ScenarioConfig, inflow []float64, rng *rand.Rand) *PolicyRun {
	run := &PolicyRun{
		Key:      policy.Key(),
		Name:     policy.Name(),
		Color:    policy.Color(),
		Timeline: make([]TimelineEntry, 0, len(inflow)),
	}

	cumulativeTreated := 0
	cumulativeDenied := 0
	cumulativeDeaths := 0.0

	for day, daily := range inflow {
		cohort := GenerateCohort(daily, cfg.CrisisType, rng)
		budget := dailyBudget(cfg, day)
		result := policy.Allocate(cohort, budget, rng)

		cumulativeTreated += result.Treated
		cumulativeDenied += result.Denied
		cumulativeDeaths += result.MortalityEstimate

		run.Timeline = append(run.Timeline, TimelineEntry{
			Day:                 day + 1,
			Patients:            len(cohort),
			Treated:             result.Treated,
			Denied:              result.Denied,
			CumulativeTreated:   cumulativeTreated,
			CumulativeDenied:    cumulativeDenied,
			MortalityEstimate:   round1(cumulativeDeaths),
			ResourceUtilization: result.ResourceUtilization,
			AvgWait:             result.AvgWait,
			BedsAvailable:       budget.Beds,
			ICUAvailable:        budget.ICU,
			VentsAvailable:      budget.Ventilators,
		})
	}

	run.Summary = summarize(run.Timeline, cumulativeTreated, cumulativeDenied, cumulativeDeaths)
	logrus.Debugf("policy %s: %d treated, %d denied over %d days",
		policy.Key(), cumulativeTreated, cumulativeDenied, len(inflow))
	return run
}

func summarize(timeline []TimelineEntry, treated, denied int, deaths float64) RunSummary {
	totalPatients := 0
	peakDenied := 0
	utilizations := make([]float64, 0, len(timeline))
	waits := make([]float64, 0, len(timeline))
	for _, e := range timeline {
		totalPatients += e.Patients
		if e.Denied > peakDenied {
			peakDenied = e.Denied
		}
		utilizations = append(utilizations, e.ResourceUtilization)
		waits = append(waits, e.AvgWait)
	}
	return RunSummary{
		TotalPatients:   totalPatients,
		TotalTreated:    treated,
		TotalDenied:     denied,
		EstimatedDeaths: round1(deaths),
		SurvivalRate:    round1((1 - deaths/float64(maxInt(totalPatients, 1))) * 100),
		AvgUtilization:  round1(meanOrZero(utilizations)),
		AvgWaitTime:     round2(meanOrZero(waits)),
		PeakDenied:      peakDenied,
	}
}
