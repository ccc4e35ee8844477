package knapsack

import "sort"

type greedySolver struct{}

// NewGreedy creates a Solver that takes items in descending priority/weight order.
func NewGreedy() Solver {
	return greedySolver{}
}

func (greedySolver) Solve(items []Item, capacity float64) (Result, error) {
	if err := Validate(items, capacity); err != nil {
		return Result{}, err
	}

	sorted := sortedByRatio(items)
	selected := make([]Item, 0, len(sorted))
	weight := 0.0
	for _, it := range sorted {
		if weight+it.Weight <= capacity {
			selected = append(selected, it)
			weight += it.Weight
		}
	}

	return newResult(Greedy, selected, len(sorted)), nil
}

// sortedByRatio returns a copy of items ordered by descending ratio.
// Equal ratios keep their input order.
func sortedByRatio(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Ratio() > out[j].Ratio()
	})
	return out
}
