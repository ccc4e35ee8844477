package knapsack

import (
	"fmt"
	"math"
)

// Validate checks items and capacity against the rules every solver relies on.
// An empty item list is valid.
func Validate(items []Item, capacity float64) error {
	if err := validateCapacity(capacity); err != nil {
		return err
	}
	return ValidateItems(items)
}

// ValidateItems checks weights, priorities and id uniqueness.
func ValidateItems(items []Item) error {
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if math.IsNaN(it.Weight) || math.IsInf(it.Weight, 0) || it.Weight <= 0 {
			return fmt.Errorf("item %s (index %d) weight %v: %w", it.ID, i, it.Weight, ErrInvalidWeight)
		}
		if math.IsNaN(it.Priority) || math.IsInf(it.Priority, 0) || it.Priority < 0 {
			return fmt.Errorf("item %s (index %d) priority %v: %w", it.ID, i, it.Priority, ErrInvalidPriority)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("item %q: %w", it.ID, ErrDuplicateID)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}

func validateCapacity(capacity float64) error {
	if math.IsNaN(capacity) || math.IsInf(capacity, 0) || capacity < 0 {
		return fmt.Errorf("capacity %v: %w", capacity, ErrInvalidCapacity)
	}
	return nil
}
