package transfer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanket200511/CrisisForge-AI/sim"
)

// overloadedFacility sits well above the default pressure threshold.
func overloadedFacility(name, region string) sim.Facility {
	return sim.Facility{
		Name: name, Region: region,
		TotalBeds: 100, ICUBeds: 10, Ventilators: 5, TotalStaff: 80,
		OccupiedBeds: 98, OccupiedICU: 10, VentilatorsInUse: 5, ActiveStaff: 78,
	}
}

// relaxedFacility has plenty of free capacity and low pressure.
func relaxedFacility(name, region string) sim.Facility {
	return sim.Facility{
		Name: name, Region: region,
		TotalBeds: 200, ICUBeds: 20, Ventilators: 10, TotalStaff: 160,
		OccupiedBeds: 60, OccupiedICU: 4, VentilatorsInUse: 2, ActiveStaff: 100,
	}
}

func TestRecommend_BalancedNetworkYieldsNoTransfers(t *testing.T) {
	facilities := []sim.Facility{
		relaxedFacility("A", "North"),
		relaxedFacility("B", "North"),
		relaxedFacility("C", "South"),
	}
	plan := Recommend(facilities, DefaultOptions())

	assert.Empty(t, plan.Recommendations)
	assert.Equal(t, 0, plan.TotalPatientsToTransfer)
	assert.Equal(t, 0.0, plan.Summary.PressureImprovement)
	assert.Equal(t, 3, plan.Summary.TotalFacilities)
	assert.Len(t, plan.FacilityStatus, 3)
}

func TestRecommend_OverloadedSenderGetsRelief(t *testing.T) {
	facilities := []sim.Facility{
		overloadedFacility("Crowded", "North"),
		relaxedFacility("Spare", "North"),
	}
	plan := Recommend(facilities, DefaultOptions())

	require.NotEmpty(t, plan.Recommendations)
	rec := plan.Recommendations[0]
	assert.Equal(t, "Crowded", rec.FromFacility)
	assert.Equal(t, "Spare", rec.ToFacility)
	assert.Equal(t, rec.PatientsGeneral+rec.PatientsICU, rec.TotalPatients)
	assert.Greater(t, rec.TotalPatients, 0)
	assert.Equal(t, "critical", rec.Priority)
	assert.Greater(t, plan.Summary.PressureImprovement, 0.0)
}

func TestRecommend_VolumesRespectCaps(t *testing.T) {
	facilities := []sim.Facility{
		overloadedFacility("Crowded", "North"),
		relaxedFacility("Spare1", "North"),
		relaxedFacility("Spare2", "South"),
	}
	plan := Recommend(facilities, DefaultOptions())

	// The sender's snapshot excess over the 75% reference line.
	sender := facilities[0]
	excessBeds := sender.OccupiedBeds - int(float64(sender.TotalBeds)*0.75)
	excessICU := sender.OccupiedICU - int(float64(sender.ICUBeds)*0.75)

	for _, rec := range plan.Recommendations {
		assert.LessOrEqual(t, rec.PatientsGeneral, maxGeneralPerTransfer)
		assert.LessOrEqual(t, rec.PatientsICU, maxICUPerTransfer)
		assert.LessOrEqual(t, rec.PatientsGeneral, excessBeds)
		assert.LessOrEqual(t, rec.PatientsICU, excessICU)
		assert.GreaterOrEqual(t, rec.PatientsGeneral, 0)
		assert.GreaterOrEqual(t, rec.PatientsICU, 0)
	}
}

func TestRecommend_HonorsMaxTransfers(t *testing.T) {
	var facilities []sim.Facility
	names := []string{"A", "B", "C", "D", "E", "F"}
	for _, n := range names[:3] {
		facilities = append(facilities, overloadedFacility("Over"+n, "North"))
	}
	for _, n := range names {
		facilities = append(facilities, relaxedFacility("Spare"+n, "South"))
	}

	opts := DefaultOptions()
	opts.MaxTransfers = 2
	plan := Recommend(facilities, opts)
	assert.LessOrEqual(t, len(plan.Recommendations), 2)
}

func TestRecommend_DoesNotMutateSnapshot(t *testing.T) {
	facilities := []sim.Facility{
		overloadedFacility("Crowded", "North"),
		relaxedFacility("Spare", "North"),
	}
	before := make([]sim.Facility, len(facilities))
	copy(before, facilities)

	Recommend(facilities, DefaultOptions())
	assert.Equal(t, before, facilities)
}

func TestRecommend_ReceiverStatusReflectsInboundPatients(t *testing.T) {
	facilities := []sim.Facility{
		overloadedFacility("Crowded", "North"),
		relaxedFacility("Spare", "North"),
	}
	plan := Recommend(facilities, DefaultOptions())
	require.NotEmpty(t, plan.Recommendations)

	inbound := 0
	for _, rec := range plan.Recommendations {
		if rec.ToFacility == "Spare" {
			inbound += rec.PatientsGeneral
		}
	}
	for _, st := range plan.FacilityStatus {
		if st.Name == "Spare" {
			want := relaxedFacility("Spare", "North").TotalBeds - relaxedFacility("Spare", "North").OccupiedBeds - inbound
			assert.Equal(t, want, st.AvailableBeds)
		}
	}
}

func TestRecommend_EmptyNetwork(t *testing.T) {
	plan := Recommend(nil, DefaultOptions())
	assert.Empty(t, plan.Recommendations)
	assert.Equal(t, 0, plan.Summary.TotalFacilities)
	assert.Equal(t, 0.0, plan.Summary.AvgNetworkPressure)
}

func TestDistanceMatrix_Deterministic(t *testing.T) {
	facilities := []sim.Facility{
		{Name: "A", Region: "North"},
		{Name: "B", Region: "North"},
		{Name: "C", Region: "South"},
	}
	d1 := DistanceMatrix(facilities, rand.New(rand.NewSource(42)))
	d2 := DistanceMatrix(facilities, rand.New(rand.NewSource(42)))
	assert.Equal(t, d1, d2)
}

func TestDistanceMatrix_RegionBands(t *testing.T) {
	facilities := []sim.Facility{
		{Name: "A", Region: "North"},
		{Name: "B", Region: "North"},
		{Name: "C", Region: "South"},
	}
	d := DistanceMatrix(facilities, rand.New(rand.NewSource(1)))

	assert.Equal(t, 0.0, d["A"]["A"])

	sameRegion := d["A"]["B"]
	assert.GreaterOrEqual(t, sameRegion, 5.0)
	assert.LessOrEqual(t, sameRegion, 25.0)

	crossRegion := d["A"]["C"]
	assert.GreaterOrEqual(t, crossRegion, 30.0)
	assert.LessOrEqual(t, crossRegion, 80.0)
}

func TestTransferPriority_Bands(t *testing.T) {
	assert.Equal(t, "critical", transferPriority(91))
	assert.Equal(t, "high", transferPriority(85))
	assert.Equal(t, "medium", transferPriority(78))
}

func TestClampTransfer(t *testing.T) {
	assert.Equal(t, 5, clampTransfer(5, 10, 15), "excess binds")
	assert.Equal(t, 3, clampTransfer(5, 3, 15), "availability binds")
	assert.Equal(t, 15, clampTransfer(40, 50, 15), "cap binds")
	assert.Equal(t, 0, clampTransfer(-2, 10, 15), "negative excess clamps to zero")
}
