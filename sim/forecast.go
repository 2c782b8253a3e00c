package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Crisis archetype labels recognized by the surge shaper. Any other label
// (or the empty string) falls back to a uniform surge multiplier.
const (
	CrisisPandemic      = "pandemic"
	CrisisEarthquake    = "earthquake"
	CrisisFlood         = "flood"
	CrisisStaffShortage = "staff_shortage"
)

// Forecast parameter bounds. Requests outside these are rejected before any
// computation runs.
const (
	MinHorizonDays     = 7
	MaxHorizonDays     = 180
	MinBaseDaily       = 5.0
	MaxBaseDaily       = 200.0
	MinSurgeMultiplier = 1.0
	MaxSurgeMultiplier = 5.0
)

// Defaults for the Monte-Carlo band and surge onset.
const (
	DefaultOnsetDay   = 5
	DefaultTrials     = 200
	DefaultVolatility = 0.15
)

// ForecastConfig holds the inputs for one demand forecast.
// Zero-valued Trials/Volatility/OnsetDay fall back to the defaults above.
type ForecastConfig struct {
	Days            int     `yaml:"days" json:"days"`
	BaseDaily       float64 `yaml:"base_daily" json:"base_daily"`
	CrisisType      string  `yaml:"crisis_type" json:"crisis_type"`
	SurgeMultiplier float64 `yaml:"surge_multiplier" json:"surge_multiplier"`
	OnsetDay        int     `yaml:"onset_day" json:"onset_day"`
	Trials          int     `yaml:"trials" json:"trials,omitempty"`
	Volatility      float64 `yaml:"volatility" json:"volatility,omitempty"`
}

// Validate checks the documented input bounds.
func (c *ForecastConfig) Validate() error {
	if c.Days < MinHorizonDays || c.Days > MaxHorizonDays {
		return fmt.Errorf("days must be in [%d,%d], got %d", MinHorizonDays, MaxHorizonDays, c.Days)
	}
	if c.BaseDaily < MinBaseDaily || c.BaseDaily > MaxBaseDaily {
		return fmt.Errorf("base_daily must be in [%g,%g], got %g", MinBaseDaily, MaxBaseDaily, c.BaseDaily)
	}
	if c.SurgeMultiplier < MinSurgeMultiplier || c.SurgeMultiplier > MaxSurgeMultiplier {
		return fmt.Errorf("surge_multiplier must be in [%g,%g], got %g", MinSurgeMultiplier, MaxSurgeMultiplier, c.SurgeMultiplier)
	}
	return nil
}

// DemandSeries is a per-day patient-inflow forecast with uncertainty bands.
// All slices have length == requested horizon. Immutable once produced.
type DemandSeries struct {
	Days     []int     `json:"days"` // 1..horizon
	Mean     []float64 `json:"mean"`
	P10      []float64 `json:"p10"`
	P25      []float64 `json:"p25"`
	P75      []float64 `json:"p75"`
	P90      []float64 `json:"p90"`
	Baseline []float64 `json:"base_no_crisis"` // pre-surge curve
}

// Forecast runs the full pipeline: baseline curve, archetype surge shaping,
// Monte-Carlo confidence band. A nil rng falls back to a time-seeded source;
// pass a seeded *rand.Rand for reproducible output.
func Forecast(cfg ForecastConfig, rng *rand.Rand) (*DemandSeries, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	onset := cfg.OnsetDay
	if onset == 0 {
		onset = DefaultOnsetDay
	}
	trials := cfg.Trials
	if trials == 0 {
		trials = DefaultTrials
	}
	volatility := cfg.Volatility
	if volatility == 0 {
		volatility = DefaultVolatility
	}

	base := GenerateBaseline(cfg.Days, cfg.BaseDaily, rng)
	mean := base
	if cfg.CrisisType != "" && cfg.CrisisType != "none" {
		mean = ApplySurge(base, cfg.CrisisType, cfg.SurgeMultiplier, onset)
	}

	series := &DemandSeries{
		Days:     make([]int, cfg.Days),
		Mean:     mean,
		Baseline: base,
	}
	for i := range series.Days {
		series.Days[i] = i + 1
	}
	series.P10, series.P25, series.P75, series.P90 = monteCarloBand(mean, trials, volatility, rng)
	return series, nil
}

// GenerateBaseline builds the pre-crisis demand curve: a slight linear trend
// plus a weekly sinusoid plus Gaussian noise scaled to the base volume,
// floored at 1 patient/day.
func GenerateBaseline(days int, baseDaily float64, rng *rand.Rand) []float64 {
	curve := make([]float64, days)
	for i := 0; i < days; i++ {
		t := float64(i)
		trend := baseDaily + 0.05*t
		weekly := 5 * math.Sin(2*math.Pi*t/7)
		noise := rng.NormFloat64() * baseDaily * 0.1
		curve[i] = math.Max(trend+weekly+noise, 1)
	}
	return curve
}

// ApplySurge reshapes a baseline curve by crisis archetype. The input slice
// is not modified. All shaped values are floored at 1.
func ApplySurge(base []float64, crisisType string, multiplier float64, onsetDay int) []float64 {
	days := len(base)
	surged := make([]float64, days)
	copy(surged, base)

	switch crisisType {
	case CrisisPandemic:
		// Ramp to the multiplier over the first 40% of the post-onset
		// horizon, hold for 30%, then decay to 40% of the multiplier.
		for i := onsetDay; i < days; i++ {
			phase := float64(i-onsetDay) / math.Max(float64(days-onsetDay), 1)
			var factor float64
			switch {
			case phase < 0.4:
				factor = 1 + (multiplier-1)*(phase/0.4)
			case phase < 0.7:
				factor = multiplier
			default:
				factor = multiplier * (1 - 0.6*((phase-0.7)/0.3))
			}
			surged[i] = base[i] * math.Max(factor, 1)
		}

	case CrisisEarthquake:
		// 3-day spike at 1.5x, a 7-day decay window tapering to 0.3x,
		// then a flat 1.2x tail.
		for i := 0; i < days; i++ {
			switch {
			case i >= onsetDay && i < onsetDay+3:
				surged[i] = base[i] * multiplier * 1.5
			case i >= onsetDay+3 && i < onsetDay+10:
				decay := 1.5 * (1 - float64(i-onsetDay-3)/7)
				surged[i] = base[i] * multiplier * math.Max(decay, 0.3)
			case i >= onsetDay+10:
				surged[i] = base[i] * 1.2
			}
		}

	case CrisisFlood:
		// Gradual 30%-of-horizon ramp, 30% plateau at 0.9x, slow decay
		// to 0.45x.
		for i := onsetDay; i < days; i++ {
			phase := float64(i-onsetDay) / math.Max(float64(days-onsetDay), 1)
			var factor float64
			switch {
			case phase < 0.3:
				factor = 1 + (multiplier-1)*(phase/0.3)
			case phase < 0.6:
				factor = multiplier * 0.9
			default:
				factor = multiplier * 0.9 * (1 - 0.5*((phase-0.6)/0.4))
			}
			surged[i] = base[i] * math.Max(factor, 1)
		}

	case CrisisStaffShortage:
		// Inflow is unaffected by a staffing crisis; the small bump stands
		// in for downstream capacity strain, which the allocation layer
		// models via its shrinking budgets.
		for i := range surged {
			surged[i] = base[i] * 1.1
		}

	default:
		for i := range surged {
			surged[i] = base[i] * multiplier
		}
	}

	for i := range surged {
		surged[i] = math.Max(surged[i], 1)
	}
	return surged
}

// monteCarloBand derives percentile envelopes around the mean curve by
// perturbing each day's value with noise proportional to its magnitude,
// across the given number of trials.
func monteCarloBand(mean []float64, trials int, volatility float64, rng *rand.Rand) (p10, p25, p75, p90 []float64) {
	days := len(mean)
	samples := make([][]float64, days)
	for d := range samples {
		samples[d] = make([]float64, trials)
	}
	for t := 0; t < trials; t++ {
		for d := 0; d < days; d++ {
			noise := rng.NormFloat64() * mean[d] * volatility
			samples[d][t] = math.Max(mean[d]+noise, 0)
		}
	}

	p10 = make([]float64, days)
	p25 = make([]float64, days)
	p75 = make([]float64, days)
	p90 = make([]float64, days)
	for d := 0; d < days; d++ {
		sort.Float64s(samples[d])
		p10[d] = stat.Quantile(0.10, stat.LinInterp, samples[d], nil)
		p25[d] = stat.Quantile(0.25, stat.LinInterp, samples[d], nil)
		p75[d] = stat.Quantile(0.75, stat.LinInterp, samples[d], nil)
		p90[d] = stat.Quantile(0.90, stat.LinInterp, samples[d], nil)
	}
	return p10, p25, p75, p90
}
