package knapsack

import (
	"fmt"
	"strings"
)

// Algorithm names a solving strategy.
type Algorithm string

const (
	Greedy             Algorithm = "greedy"
	DynamicProgramming Algorithm = "dp"
	BranchAndBound     Algorithm = "branch_and_bound"
)

// Algorithms lists every strategy in the order they are usually compared.
func Algorithms() []Algorithm {
	return []Algorithm{Greedy, DynamicProgramming, BranchAndBound}
}

// Title is the human readable name used in reports.
func (a Algorithm) Title() string {
	switch a {
	case Greedy:
		return "Greedy Algorithm"
	case DynamicProgramming:
		return "Dynamic Programming"
	case BranchAndBound:
		return "Branch and Bound"
	default:
		return string(a)
	}
}

// ParseAlgorithm resolves a name or common alias to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "greedy":
		return Greedy, nil
	case "dp", "dynamic_programming", "dynamic-programming":
		return DynamicProgramming, nil
	case "branch_and_bound", "branch-and-bound", "bnb", "bb":
		return BranchAndBound, nil
	default:
		return "", fmt.Errorf("%q: %w", name, ErrUnknownAlgorithm)
	}
}

// New returns the solver for alg configured with opts. Options that do not
// apply to the chosen algorithm are ignored.
func New(alg Algorithm, opts ...Option) (Solver, error) {
	switch alg {
	case Greedy:
		return NewGreedy(), nil
	case DynamicProgramming:
		return NewDP(opts...), nil
	case BranchAndBound:
		return NewBranchAndBound(opts...), nil
	default:
		return nil, fmt.Errorf("%q: %w", string(alg), ErrUnknownAlgorithm)
	}
}

// SolveGreedy runs the greedy heuristic with default settings.
func SolveGreedy(items []Item, capacity float64) (Result, error) {
	return NewGreedy().Solve(items, capacity)
}

// SolveDP runs the exact dynamic-programming solver with default settings.
func SolveDP(items []Item, capacity float64) (Result, error) {
	return NewDP().Solve(items, capacity)
}

// SolveBranchAndBound runs the exact branch-and-bound solver with default settings.
func SolveBranchAndBound(items []Item, capacity float64) (Result, error) {
	return NewBranchAndBound().Solve(items, capacity)
}
