package knapsack

import (
	"context"
	"fmt"
)

// Item is a single parcel that may be loaded. Volume, CustomerDemand and
// DeliveryDeadline are carried for callers but ignored by every solver.
type Item struct {
	ID               string  `json:"id" yaml:"id"`
	Weight           float64 `json:"weight" yaml:"weight"`
	Priority         float64 `json:"priority" yaml:"priority"`
	Volume           float64 `json:"volume,omitempty" yaml:"volume,omitempty"`
	CustomerDemand   float64 `json:"customerDemand,omitempty" yaml:"customer_demand,omitempty"`
	DeliveryDeadline float64 `json:"deliveryDeadline,omitempty" yaml:"delivery_deadline,omitempty"`
}

// Ratio returns priority per unit of weight.
func (it Item) Ratio() float64 {
	return it.Priority / it.Weight
}

func (it Item) String() string {
	return fmt.Sprintf("Package(id='%s', weight=%g, volume=%g, priority=%g, customer_demand=%g, delivery_deadline=%g)",
		it.ID, it.Weight, it.Volume, it.Priority, it.CustomerDemand, it.DeliveryDeadline)
}

// Result is the outcome of a single solve.
// TotalWeight and TotalPriority are always the sums over Selected.
type Result struct {
	Algorithm     Algorithm
	Selected      []Item
	TotalWeight   float64
	TotalPriority float64
	// Explored counts evaluated search states: items scanned (greedy),
	// table cells filled (dp) or nodes dequeued (branch and bound).
	Explored int
}

// Solver describes the behaviour shared by all knapsack strategies.
type Solver interface {
	Solve(items []Item, capacity float64) (Result, error)
}

// ContextSolver is a Solver whose search can be abandoned through a context.
type ContextSolver interface {
	Solver
	SolveContext(ctx context.Context, items []Item, capacity float64) (Result, error)
}

func newResult(alg Algorithm, selected []Item, explored int) Result {
	res := Result{
		Algorithm: alg,
		Selected:  make([]Item, 0, len(selected)),
		Explored:  explored,
	}
	for _, it := range selected {
		res.Selected = append(res.Selected, it)
		res.TotalWeight += it.Weight
		res.TotalPriority += it.Priority
	}
	return res
}
