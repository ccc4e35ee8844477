package knapsack

import (
	"fmt"
	"strings"
)

const (
	defaultResolution = 1.0
	defaultMaxCells   = 100_000_000
)

// Strategy controls the order in which branch-and-bound nodes are expanded.
// Both strategies return the same optimal priority.
type Strategy string

const (
	// FIFO expands nodes breadth-first.
	FIFO Strategy = "fifo"
	// BestFirst expands the node with the highest bound first.
	BestFirst Strategy = "best_first"
)

// ParseStrategy resolves a strategy name.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fifo", "breadth_first":
		return FIFO, nil
	case "best_first", "best-first", "best":
		return BestFirst, nil
	default:
		return "", fmt.Errorf("unknown search strategy %q", name)
	}
}

type options struct {
	resolution float64
	maxCells   int
	strategy   Strategy
	maxQueue   int
}

// Option configures the exact solvers.
type Option func(*options)

// WithResolution sets how many discrete DP units make up one unit of weight.
// Non-positive values are ignored.
func WithResolution(unitsPerWeight float64) Option {
	return func(o *options) {
		if unitsPerWeight > 0 {
			o.resolution = unitsPerWeight
		}
	}
}

// WithMaxCells bounds the size of the DP table. Zero or negative disables the limit.
func WithMaxCells(n int) Option {
	return func(o *options) {
		o.maxCells = n
	}
}

// WithStrategy selects the branch-and-bound expansion order.
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		if s == FIFO || s == BestFirst {
			o.strategy = s
		}
	}
}

// WithMaxQueue caps the number of live branch-and-bound nodes. Zero disables the cap.
func WithMaxQueue(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxQueue = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		resolution: defaultResolution,
		maxCells:   defaultMaxCells,
		strategy:   FIFO,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
