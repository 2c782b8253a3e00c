// Package sim provides the core engine for the CrisisForge healthcare
// crisis simulator: demand forecasting, day-stepped allocation simulation,
// and the shared facility pressure model.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - forecast.go: baseline demand curve, crisis surge shapes, Monte-Carlo bands
//   - driver.go: the per-day simulation loop and policy comparison
//   - allocation.go: the allocation policy contract and its closed key set
//
// # Architecture
//
// The sim package owns the data model (DemandSeries, Patient, ResourceBudget,
// Facility) and the pure computation on it. Separable concerns live in
// sub-packages:
//   - sim/transfer/: inter-facility transfer recommendation
//   - sim/demo/: synthetic fixture data (hospital network, historical series)
//
// All randomized routines accept an injectable *rand.Rand; reproducible runs
// derive per-subsystem RNGs from a SimulationKey via PartitionedRNG (rng.go).
//
// # Key Interfaces
//
// The extension point is a single small interface:
//   - AllocationPolicy: consume one day's patient cohort and resource budget,
//     produce an AllocationResult. The set of policies is closed and
//     enumerable (ValidAllocationPolicies) so callers can validate keys.
package sim
