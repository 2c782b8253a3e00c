package sim

import (
	"fmt"
	"math/rand"
)

// ResourceBudget is the mutable pool available to one allocation pass on one
// simulated day. Policies receive it by value and must never report outcomes
// that would drive any field negative.
type ResourceBudget struct {
	Beds        int `json:"beds"`
	ICU         int `json:"icu"`
	Ventilators int `json:"ventilators"`
}

// AllocationResult is the per-day outcome of one policy pass. Every input
// patient is counted in exactly one of Treated or Denied.
type AllocationResult struct {
	Treated             int     `json:"treated"`
	Denied              int     `json:"denied"`
	ICUTreated          int     `json:"icu_treated"`
	Ventilated          int     `json:"ventilated"`
	CriticalSaved       int     `json:"critical_saved,omitempty"`
	AvgWait             float64 `json:"avg_wait"`
	MortalityEstimate   float64 `json:"mortality_estimate"`
	ResourceUtilization float64 `json:"resource_utilization"`
	EquityScore         float64 `json:"equity_score,omitempty"`
	OptimizationScore   float64 `json:"optimization_score,omitempty"`
}

// AllocationPolicy consumes one day's patient cohort and resource budget.
// Implementations MUST NOT modify the patients slice; sorting policies work
// on a copy so arrival order survives as the implicit tie-break key.
// The rng covers policy-specific sampling (wait times, equity scores); pure
// policies ignore it.
type AllocationPolicy interface {
	Key() string
	Name() string
	Color() string
	Allocate(patients []Patient, budget ResourceBudget, rng *rand.Rand) AllocationResult
}

// Policy keys. The set is closed and enumerable so callers can validate
// requested keys up front.
const (
	PolicyFCFS      = "fcfs"
	PolicySeverity  = "severity"
	PolicyEquity    = "equity"
	PolicyOptimized = "optimized"
)

// AllocationPolicyKeys lists all policy keys in canonical order.
var AllocationPolicyKeys = []string{PolicyFCFS, PolicySeverity, PolicyEquity, PolicyOptimized}

// ValidAllocationPolicies is the set of recognized allocation policy names.
var ValidAllocationPolicies = map[string]bool{
	PolicyFCFS:      true,
	PolicySeverity:  true,
	PolicyEquity:    true,
	PolicyOptimized: true,
}

// IsValidAllocationPolicy reports whether key names a known policy.
func IsValidAllocationPolicy(key string) bool {
	return ValidAllocationPolicies[key]
}

// NewAllocationPolicy creates an allocation policy by key.
// Panics on unrecognized keys; callers handling user input should check
// IsValidAllocationPolicy first (the driver silently skips unknown keys).
func NewAllocationPolicy(key string) AllocationPolicy {
	switch key {
	case PolicyFCFS:
		return &FCFSPolicy{}
	case PolicySeverity:
		return &SeverityPolicy{}
	case PolicyEquity:
		return &EquityPolicy{}
	case PolicyOptimized:
		return &OptimizedPolicy{}
	default:
		panic(fmt.Sprintf("unknown allocation policy %q", key))
	}
}
