// Package knapsack selects a subset of parcels that maximises total priority
// without exceeding a weight budget (the 0/1 knapsack problem).
//
// Three independent solvers share the same Item and Result model:
//
//   - Greedy: sorts by priority/weight ratio and takes whatever fits. Fast,
//     always feasible, not always optimal.
//   - DP: exact tabulation over discrete weight units. Cost is
//     O(items × capacity units) in time and memory.
//   - BranchAndBound: exact search over include/exclude decisions, pruned by
//     the fractional-relaxation bound.
//
// Solvers are stateless and safe for concurrent use; they never modify the
// caller's slice.
package knapsack
