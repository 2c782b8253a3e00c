package sim

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// round1 rounds to one decimal place, matching the reporting precision used
// throughout the result types.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// round2 rounds to two decimal places (wait times).
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// meanOrZero returns the arithmetic mean of data, or 0 for an empty slice.
func meanOrZero(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

func clampFloat(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
