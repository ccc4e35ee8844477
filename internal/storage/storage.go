package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/eugenenazirov/parcel-planner/internal/knapsack"
)

// ErrInvalidCatalog indicates the provided catalog violates validation rules.
var ErrInvalidCatalog = errors.New("invalid package catalog")

const defaultCapacity = 50

var defaultPackages = []knapsack.Item{
	{ID: "PKG-1", Weight: 5.55, Volume: 4.55, Priority: 8.54, CustomerDemand: 0.65, DeliveryDeadline: 16.95},
	{ID: "PKG-2", Weight: 2.25, Volume: 1.55, Priority: 5.14, CustomerDemand: 0.45, DeliveryDeadline: 12.12},
	{ID: "PKG-3", Weight: 7.81, Volume: 0.36, Priority: 8.38, CustomerDemand: 0.24, DeliveryDeadline: 5.36},
	{ID: "PKG-4", Weight: 1.56, Volume: 2.02, Priority: 3.3, CustomerDemand: 0.38, DeliveryDeadline: 26.61},
}

// Catalog is the set of candidate packages together with the weight budget
// used when a solve request does not specify its own.
type Catalog struct {
	Packages []knapsack.Item `json:"packages"`
	Capacity float64         `json:"capacity"`
}

// Storage provides access to the package catalog used by the solvers.
type Storage interface {
	GetCatalog(ctx context.Context) (Catalog, error)
	SetCatalog(ctx context.Context, catalog Catalog) error
}

// DefaultCatalog returns a copy of the demonstration catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		Packages: clonePackages(defaultPackages),
		Capacity: defaultCapacity,
	}
}

// DefaultCapacity is the weight budget of the demonstration catalog.
func DefaultCapacity() float64 {
	return defaultCapacity
}

// Clone returns a deep copy of the catalog.
func (c Catalog) Clone() Catalog {
	return Catalog{Packages: clonePackages(c.Packages), Capacity: c.Capacity}
}

// Validate checks the catalog with the same rules the solvers apply.
// An empty package list is allowed.
func (c Catalog) Validate() error {
	if err := knapsack.Validate(c.Packages, c.Capacity); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return nil
}

// MemoryStorage keeps the catalog in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu      sync.RWMutex
	catalog Catalog
}

// NewMemoryStorage initialises storage with a copy of the default catalog.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{catalog: DefaultCatalog()}
}

// GetCatalog returns a defensive copy of the current catalog.
func (s *MemoryStorage) GetCatalog(_ context.Context) (Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.catalog.Clone(), nil
}

// SetCatalog validates and stores a copy of the provided catalog.
func (s *MemoryStorage) SetCatalog(_ context.Context, catalog Catalog) error {
	if err := catalog.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.catalog = catalog.Clone()
	s.mu.Unlock()

	return nil
}

func clonePackages(src []knapsack.Item) []knapsack.Item {
	out := make([]knapsack.Item, len(src))
	copy(out, src)
	return out
}
