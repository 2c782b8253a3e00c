// Package transfer recommends inter-facility patient transfers to relieve
// overloaded facilities. It consumes a facility snapshot (never mutated) and
// greedily matches overloaded senders to under-loaded receivers.
//
// The matching is a bounded greedy heuristic, not an LP or flow solver:
// senders are visited most-critical-first, each considers its top 3 scored
// receivers, and the pass stops at a hard transfer cap, so work is bounded
// regardless of input.
package transfer

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sanket200511/CrisisForge-AI/sim"
)

// Options tune one recommendation pass. The zero value is not usable; start
// from DefaultOptions.
type Options struct {
	// MaxTransfers caps the number of recommendations per pass.
	MaxTransfers int
	// PressureThreshold splits senders (above) from receivers (below).
	PressureThreshold float64
	// MinReceivingCapacity is the minimum free beds for a receiver.
	MinReceivingCapacity int
	// DistanceSeed seeds the synthetic distance matrix so repeated passes
	// over the same network report stable distances.
	DistanceSeed int64
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		MaxTransfers:         10,
		PressureThreshold:    75.0,
		MinReceivingCapacity: 5,
		DistanceSeed:         42,
	}
}

// Per-transfer volume caps and the excess reference line.
const (
	maxGeneralPerTransfer = 15
	maxICUPerTransfer     = 5
	excessReferenceShare  = 0.75
)

// Recommendation is one proposed patient movement. Produced, never mutated.
type Recommendation struct {
	ID           int     `json:"id"`
	Priority     string  `json:"priority"`
	FromFacility string  `json:"from_hospital"`
	FromRegion   string  `json:"from_region"`
	FromPressure float64 `json:"from_pressure"`
	ToFacility   string  `json:"to_hospital"`
	ToRegion     string  `json:"to_region"`
	ToPressure   float64 `json:"to_pressure"`
	DistanceKm   float64 `json:"distance_km"`

	PatientsGeneral int `json:"patients_general"`
	PatientsICU     int `json:"patients_icu"`
	TotalPatients   int `json:"total_patients"`

	EstimatedTransferTimeMin float64 `json:"estimated_transfer_time_min"`
	SenderPressureAfter      float64 `json:"sender_pressure_after"`
	PressureReduction        float64 `json:"pressure_reduction"`
	MatchScore               float64 `json:"match_score"`
}

// FacilityStatus reports one facility's classification. Receiver capacity
// reflects the recommended transfers.
type FacilityStatus struct {
	Name          string  `json:"name"`
	Region        string  `json:"region"`
	Pressure      float64 `json:"pressure"`
	Status        string  `json:"status"`
	AvailableBeds int     `json:"available_beds"`
	AvailableICU  int     `json:"available_icu"`
}

// NetworkSummary aggregates pressure statistics before and after the
// recommended transfers. Post-transfer pressure uses a flat linear
// approximation: avg minus the summed per-recommendation reduction spread
// over all facilities.
type NetworkSummary struct {
	TotalFacilities      int     `json:"total_hospitals"`
	CriticalFacilities   int     `json:"critical_hospitals"`
	OverloadedFacilities int     `json:"overloaded_hospitals"`
	StableFacilities     int     `json:"stable_hospitals"`
	AvgNetworkPressure   float64 `json:"avg_network_pressure"`
	PostTransferPress    float64 `json:"post_transfer_pressure"`
	PressureImprovement  float64 `json:"pressure_improvement"`
}

// Plan is the full output of one recommendation pass.
type Plan struct {
	Summary                 NetworkSummary   `json:"network_summary"`
	FacilityStatus          []FacilityStatus `json:"hospital_status"`
	Recommendations         []Recommendation `json:"recommended_transfers"`
	TotalPatientsToTransfer int              `json:"total_patients_to_transfer"`
}

// metric is the optimizer's private working copy of one facility: the
// caller's snapshot is never touched.
type metric struct {
	f        sim.Facility
	pressure float64
	avail    sim.AvailableCapacity
	status   string
}

// DistanceMatrix builds synthetic pairwise distances (km): short within a
// region, long across regions. Distances are directional draws, so A to B
// and B to A may differ slightly. Seed the rng for reproducibility.
func DistanceMatrix(facilities []sim.Facility, rng *rand.Rand) map[string]map[string]float64 {
	distances := make(map[string]map[string]float64, len(facilities))
	for i, a := range facilities {
		row := make(map[string]float64, len(facilities))
		for j, b := range facilities {
			switch {
			case i == j:
				row[b.Name] = 0
			case a.Region == b.Region:
				row[b.Name] = round1(5 + rng.Float64()*20)
			default:
				row[b.Name] = round1(30 + rng.Float64()*50)
			}
		}
		distances[a.Name] = row
	}
	return distances
}

// Recommend computes per-facility pressure, classifies senders and
// receivers, and greedily assigns transfer volumes. The input snapshot is
// not mutated. Zero facilities yield an empty plan with an all-zero summary.
func Recommend(facilities []sim.Facility, opts Options) *Plan {
	metrics := make([]*metric, len(facilities))
	for i := range facilities {
		f := facilities[i]
		m := &metric{f: f, pressure: f.Pressure(), avail: f.Available()}
		m.status = sim.StatusLabel(m.pressure, opts.PressureThreshold)
		metrics[i] = m
	}

	var senders, receivers []*metric
	for _, m := range metrics {
		if m.pressure > opts.PressureThreshold {
			senders = append(senders, m)
		}
		if m.avail.Beds >= opts.MinReceivingCapacity && m.pressure < opts.PressureThreshold {
			receivers = append(receivers, m)
		}
	}
	sort.SliceStable(senders, func(i, j int) bool { return senders[i].pressure > senders[j].pressure })
	sort.SliceStable(receivers, func(i, j int) bool { return receivers[i].avail.Beds > receivers[j].avail.Beds })

	distances := DistanceMatrix(facilities, rand.New(rand.NewSource(opts.DistanceSeed)))

	var recs []Recommendation
	for _, sender := range senders {
		if len(recs) >= opts.MaxTransfers {
			break
		}
		excessBeds := sender.f.OccupiedBeds - int(float64(sender.f.TotalBeds)*excessReferenceShare)
		excessICU := sender.f.OccupiedICU - int(float64(sender.f.ICUBeds)*excessReferenceShare)
		if excessBeds <= 0 && excessICU <= 0 {
			continue
		}

		candidates := scoreReceivers(sender, receivers, distances)
		for _, cand := range candidates {
			if len(recs) >= opts.MaxTransfers {
				break
			}
			genMove := clampTransfer(excessBeds, cand.m.avail.Beds, maxGeneralPerTransfer)
			icuMove := clampTransfer(excessICU, cand.m.avail.ICU, maxICUPerTransfer)
			if genMove == 0 && icuMove == 0 {
				continue
			}

			// Sender pressure as if the transferred load were already gone.
			// Senders keep their snapshot occupancy for excess computation,
			// so only the reported reduction reflects the move.
			relieved := sender.f
			relieved.OccupiedBeds -= genMove
			relieved.OccupiedICU -= icuMove
			after := relieved.Pressure()

			recs = append(recs, Recommendation{
				ID:                       len(recs) + 1,
				Priority:                 transferPriority(sender.pressure),
				FromFacility:             sender.f.Name,
				FromRegion:               sender.f.Region,
				FromPressure:             sender.pressure,
				ToFacility:               cand.m.f.Name,
				ToRegion:                 cand.m.f.Region,
				ToPressure:               cand.m.pressure,
				DistanceKm:               cand.distance,
				PatientsGeneral:          genMove,
				PatientsICU:              icuMove,
				TotalPatients:            genMove + icuMove,
				EstimatedTransferTimeMin: math.Round(cand.distance*1.5 + 15),
				SenderPressureAfter:      after,
				PressureReduction:        round1(sender.pressure - after),
				MatchScore:               cand.score,
			})

			cand.m.avail.Beds -= genMove
			cand.m.avail.ICU -= icuMove
		}
	}

	plan := &Plan{
		Summary:         summarizeNetwork(metrics, recs),
		FacilityStatus:  make([]FacilityStatus, len(metrics)),
		Recommendations: recs,
	}
	for i, m := range metrics {
		plan.FacilityStatus[i] = FacilityStatus{
			Name:          m.f.Name,
			Region:        m.f.Region,
			Pressure:      m.pressure,
			Status:        m.status,
			AvailableBeds: m.avail.Beds,
			AvailableICU:  m.avail.ICU,
		}
	}
	for _, r := range recs {
		plan.TotalPatientsToTransfer += r.TotalPatients
	}
	return plan
}

type candidate struct {
	m        *metric
	distance float64
	score    float64
}

// scoreReceivers ranks receivers for one sender by capacity minus a distance
// penalty and keeps the top 3.
func scoreReceivers(sender *metric, receivers []*metric, distances map[string]map[string]float64) []candidate {
	var scored []candidate
	for _, r := range receivers {
		if r.f.Name == sender.f.Name {
			continue
		}
		dist := 50.0
		if row, ok := distances[sender.f.Name]; ok {
			if d, ok := row[r.f.Name]; ok {
				dist = d
			}
		}
		capacityScore := float64(r.avail.Beds*2 + r.avail.ICU*5 + r.avail.StaffSlack)
		scored = append(scored, candidate{
			m:        r,
			distance: dist,
			score:    round1(capacityScore - dist*0.5),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if len(scored) > 3 {
		scored = scored[:3]
	}
	return scored
}

// clampTransfer bounds a transfer volume by the sender's excess, the
// receiver's free capacity, and the per-transfer cap, floored at zero.
func clampTransfer(excess, available, limit int) int {
	v := excess
	if available < v {
		v = available
	}
	if limit < v {
		v = limit
	}
	if v < 0 {
		return 0
	}
	return v
}

func transferPriority(senderPressure float64) string {
	switch {
	case senderPressure > 90:
		return "critical"
	case senderPressure > 80:
		return "high"
	default:
		return "medium"
	}
}

func summarizeNetwork(metrics []*metric, recs []Recommendation) NetworkSummary {
	s := NetworkSummary{TotalFacilities: len(metrics)}
	if len(metrics) == 0 {
		return s
	}

	pressures := make([]float64, len(metrics))
	for i, m := range metrics {
		pressures[i] = m.pressure
		switch {
		case m.pressure > 90:
			s.CriticalFacilities++
		case m.pressure > 75:
			s.OverloadedFacilities++
		}
	}
	s.StableFacilities = len(metrics) - s.CriticalFacilities - s.OverloadedFacilities
	s.AvgNetworkPressure = round1(stat.Mean(pressures, nil))

	post := s.AvgNetworkPressure
	if len(recs) > 0 {
		totalReduction := 0.0
		for _, r := range recs {
			totalReduction += r.PressureReduction
		}
		post = math.Max(0, s.AvgNetworkPressure-totalReduction/float64(len(metrics)))
	}
	s.PostTransferPress = round1(post)
	s.PressureImprovement = round1(s.AvgNetworkPressure - s.PostTransferPress)
	return s
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
