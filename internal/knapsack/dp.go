package knapsack

import (
	"fmt"
	"math"
)

// unitTolerance absorbs binary floating point noise when converting weights
// such as 0.1 × 10 into whole units.
const unitTolerance = 1e-9

// maxUnits keeps the capacity index addressable even when the cell limit is disabled.
const maxUnits = 1 << 40

type dpSolver struct {
	opts options
}

// NewDP creates an exact Solver based on dynamic programming over discrete
// weight units. See WithResolution for how real weights are discretised.
func NewDP(opts ...Option) Solver {
	return &dpSolver{opts: buildOptions(opts)}
}

func (s *dpSolver) Solve(items []Item, capacity float64) (Result, error) {
	if err := Validate(items, capacity); err != nil {
		return Result{}, err
	}
	capUnits, err := capacityUnits(capacity, s.opts.resolution)
	if err != nil {
		return Result{}, err
	}

	n := len(items)
	if n == 0 {
		return newResult(DynamicProgramming, nil, 0), nil
	}

	width := capUnits + 1
	if s.opts.maxCells > 0 && width > s.opts.maxCells/(n+1) {
		return Result{}, fmt.Errorf("%d items x %d units: %w", n, width, ErrTableTooLarge)
	}

	weights := make([]int, n)
	for i, it := range items {
		weights[i] = itemUnits(it.Weight, s.opts.resolution, capUnits)
	}

	// best holds row i of the table while row i+1 is written over it from the
	// right, so best[w-wi] still reads row i. take[i][w] records whether row
	// i+1 differs from row i at w, which is all the walk-back needs.
	best := make([]float64, width)
	take := make([]bool, n*width)
	for i := 0; i < n; i++ {
		wi := weights[i]
		p := items[i].Priority
		row := take[i*width : (i+1)*width]
		for w := capUnits; w >= wi; w-- {
			if cand := best[w-wi] + p; cand > best[w] {
				best[w] = cand
				row[w] = true
			}
		}
	}

	selected := make([]Item, 0)
	w := capUnits
	for i := n - 1; i >= 0; i-- {
		if take[i*width+w] {
			selected = append(selected, items[i])
			w -= weights[i]
		}
	}
	// Walk-back yields items in reverse input order.
	for l, r := 0, len(selected)-1; l < r; l, r = l+1, r-1 {
		selected[l], selected[r] = selected[r], selected[l]
	}

	return newResult(DynamicProgramming, selected, n*width), nil
}

// capacityUnits converts capacity into a whole number of units.
func capacityUnits(capacity, resolution float64) (int, error) {
	scaled := capacity * resolution
	rounded := math.Round(scaled)
	if math.Abs(scaled-rounded) > unitTolerance*math.Max(1, math.Abs(scaled)) {
		return 0, fmt.Errorf("capacity %v is not a whole number of units at resolution %v: %w",
			capacity, resolution, ErrInvalidCapacity)
	}
	if rounded > maxUnits {
		return 0, fmt.Errorf("capacity %v at resolution %v: %w", capacity, resolution, ErrTableTooLarge)
	}
	return int(rounded), nil
}

// itemUnits rounds a weight up to whole units so that any DP selection is also
// feasible for the real weights. Items heavier than the capacity map to
// capUnits+1 and can never be taken.
func itemUnits(weight, resolution float64, capUnits int) int {
	u := math.Ceil(weight*resolution - unitTolerance)
	if u > float64(capUnits) {
		return capUnits + 1
	}
	if u < 1 {
		return 1
	}
	return int(u)
}
