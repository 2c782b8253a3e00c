package sim

import "testing"

func TestProjectResources_ConstantInflowReachesSteadyState(t *testing.T) {
	inflow := make([]float64, 12)
	for i := range inflow {
		inflow[i] = 10
	}
	proj := ProjectResources(inflow, DefaultProjectionRates)

	// Active patients accumulate until the first cohort discharges on day 6
	// (index 5), then hold at inflow*stay = 50.
	wantBeds := []float64{8.5, 17, 25.5, 34, 42.5, 42.5, 42.5, 42.5, 42.5, 42.5, 42.5, 42.5}
	for i, want := range wantBeds {
		if proj.BedsNeeded[i] != want {
			t.Errorf("BedsNeeded[%d] = %v, want %v", i, proj.BedsNeeded[i], want)
		}
	}

	// Steady-state checks for the remaining resource streams
	last := len(inflow) - 1
	if proj.ICUNeeded[last] != 7.5 {
		t.Errorf("ICUNeeded = %v, want 7.5", proj.ICUNeeded[last])
	}
	if proj.VentilatorsNeeded[last] != 4 {
		t.Errorf("VentilatorsNeeded = %v, want 4", proj.VentilatorsNeeded[last])
	}
	if proj.StaffNeeded[last] != 25 {
		t.Errorf("StaffNeeded = %v, want 25", proj.StaffNeeded[last])
	}
}

func TestProjectResources_LengthsAndDayNumbers(t *testing.T) {
	proj := ProjectResources([]float64{5, 5, 5}, DefaultProjectionRates)
	if len(proj.Days) != 3 || len(proj.BedsNeeded) != 3 {
		t.Fatalf("lengths = %d/%d, want 3", len(proj.Days), len(proj.BedsNeeded))
	}
	for i, d := range proj.Days {
		if d != i+1 {
			t.Errorf("Days[%d] = %d, want %d", i, d, i+1)
		}
	}
}

func TestProjectResources_EmptyInflow(t *testing.T) {
	proj := ProjectResources(nil, DefaultProjectionRates)
	if len(proj.Days) != 0 {
		t.Fatalf("empty inflow produced %d days", len(proj.Days))
	}
}

func TestProjectResources_DemandNeverNegative(t *testing.T) {
	// A spike followed by near-zero inflow must not drive active below zero.
	inflow := []float64{100, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	proj := ProjectResources(inflow, DefaultProjectionRates)
	for i := range inflow {
		if proj.BedsNeeded[i] < 0 || proj.StaffNeeded[i] < 0 {
			t.Errorf("day %d: negative demand (beds=%v staff=%v)", i, proj.BedsNeeded[i], proj.StaffNeeded[i])
		}
	}
}

func TestProjectResources_RoundsToOneDecimal(t *testing.T) {
	proj := ProjectResources([]float64{3.33}, DefaultProjectionRates)
	// 3.33 * 0.85 = 2.8305, rounded to 2.8
	if proj.BedsNeeded[0] != 2.8 {
		t.Errorf("BedsNeeded[0] = %v, want 2.8", proj.BedsNeeded[0])
	}
}
