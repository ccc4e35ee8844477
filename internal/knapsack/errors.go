package knapsack

import "errors"

var (
	// ErrInvalidWeight is returned when an item weight is not a finite positive number.
	ErrInvalidWeight = errors.New("item weight must be a finite positive number")
	// ErrInvalidPriority is returned when an item priority is negative or not finite.
	ErrInvalidPriority = errors.New("item priority must be a finite non-negative number")
	// ErrInvalidCapacity is returned when the capacity is negative, not finite, or not
	// expressible as a whole number of weight units for the DP solver.
	ErrInvalidCapacity = errors.New("capacity must be a finite non-negative number")
	// ErrDuplicateID is returned when two items share the same identifier.
	ErrDuplicateID = errors.New("item ids must be unique")
	// ErrUnknownAlgorithm is returned when an algorithm name cannot be resolved.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	// ErrTableTooLarge is returned when the DP table would exceed the configured cell limit.
	ErrTableTooLarge = errors.New("dynamic programming table exceeds cell limit")
	// ErrSearchLimit is returned when the branch-and-bound queue grows past its cap.
	ErrSearchLimit = errors.New("branch and bound queue exceeds limit")
)
