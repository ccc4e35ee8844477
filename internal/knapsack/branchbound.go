package knapsack

import (
	"context"
	"fmt"
	"math"
)

// cancelCheckEvery is how many expansions run between context checks.
const cancelCheckEvery = 1024

type bbSolver struct {
	opts options
}

// NewBranchAndBound creates an exact Solver that explores include/exclude
// decisions over the ratio-sorted items and prunes every node whose
// fractional-relaxation bound cannot beat the incumbent.
func NewBranchAndBound(opts ...Option) ContextSolver {
	return &bbSolver{opts: buildOptions(opts)}
}

// pathLink is one included item on a persistent, parent-linked path. Siblings
// share their common prefix so expanding a node never copies the selection.
type pathLink struct {
	index  int
	parent *pathLink
}

// node is a partial decision over sorted[0..level].
type node struct {
	level    int
	weight   float64
	priority float64
	bound    float64
	path     *pathLink
}

// bbEngine holds the state of one search.
type bbEngine struct {
	sorted   []Item
	capacity float64
	maxQueue int

	queue    searchQueue
	best     float64
	bestPath *pathLink
	explored int
}

func (s *bbSolver) Solve(items []Item, capacity float64) (Result, error) {
	return s.SolveContext(context.Background(), items, capacity)
}

// SolveContext runs the search and gives up with ctx.Err() once ctx is done.
func (s *bbSolver) SolveContext(ctx context.Context, items []Item, capacity float64) (Result, error) {
	if err := Validate(items, capacity); err != nil {
		return Result{}, err
	}

	e := &bbEngine{
		sorted:   sortedByRatio(items),
		capacity: capacity,
		maxQueue: s.opts.maxQueue,
		queue:    newSearchQueue(s.opts.strategy),
	}
	if err := e.run(ctx); err != nil {
		return Result{}, err
	}

	return newResult(BranchAndBound, e.selection(), e.explored), nil
}

func (e *bbEngine) run(ctx context.Context) error {
	root := node{level: -1}
	root.bound = e.bound(root)
	e.queue.push(root)

	n := len(e.sorted)
	for e.queue.Len() > 0 {
		v := e.queue.pop()
		e.explored++
		if (e.explored-1)%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("search stopped after %d expansions: %w", e.explored, err)
			}
		}

		// The incumbent may have improved since v was queued.
		if v.bound <= e.best && v.level >= 0 {
			continue
		}

		next := v.level + 1
		if next >= n {
			continue
		}
		it := e.sorted[next]

		with := node{
			level:    next,
			weight:   v.weight + it.Weight,
			priority: v.priority + it.Priority,
			path:     &pathLink{index: next, parent: v.path},
		}
		if with.weight <= e.capacity && with.priority > e.best {
			e.best = with.priority
			e.bestPath = with.path
		}
		with.bound = e.bound(with)
		if with.bound > e.best {
			e.queue.push(with)
		}

		without := node{
			level:    next,
			weight:   v.weight,
			priority: v.priority,
			path:     v.path,
		}
		without.bound = e.bound(without)
		if without.bound > e.best {
			e.queue.push(without)
		}

		if e.maxQueue > 0 && e.queue.Len() > e.maxQueue {
			return fmt.Errorf("%d live nodes after %d expansions: %w", e.queue.Len(), e.explored, ErrSearchLimit)
		}
	}
	return nil
}

// bound is the best priority reachable from nd when the first item that no
// longer fits may be taken fractionally. Infeasible nodes get -Inf.
func (e *bbEngine) bound(nd node) float64 {
	if nd.weight > e.capacity {
		return math.Inf(-1)
	}

	total := nd.priority
	weight := nd.weight
	j := nd.level + 1
	for ; j < len(e.sorted) && weight+e.sorted[j].Weight <= e.capacity; j++ {
		weight += e.sorted[j].Weight
		total += e.sorted[j].Priority
	}
	if j < len(e.sorted) {
		total += (e.capacity - weight) * e.sorted[j].Ratio()
	}
	return total
}

// selection materialises the incumbent path in ratio order.
func (e *bbEngine) selection() []Item {
	var picked []Item
	for p := e.bestPath; p != nil; p = p.parent {
		picked = append(picked, e.sorted[p.index])
	}
	for l, r := 0, len(picked)-1; l < r; l, r = l+1, r-1 {
		picked[l], picked[r] = picked[r], picked[l]
	}
	return picked
}
