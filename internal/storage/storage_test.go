package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/eugenenazirov/parcel-planner/internal/knapsack"
)

func TestNewMemoryStorageReturnsDefaultCatalog(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	ctx := context.Background()

	got, err := store.GetCatalog(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := DefaultCatalog()
	if got.Capacity != want.Capacity {
		t.Fatalf("expected capacity %v, got %v", want.Capacity, got.Capacity)
	}
	if len(got.Packages) != len(want.Packages) {
		t.Fatalf("expected %d packages, got %d", len(want.Packages), len(got.Packages))
	}

	// ensure mutation safety
	got.Packages[0].Priority = 999
	again, err := store.GetCatalog(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Packages[0].Priority == 999 {
		t.Fatalf("expected defensive copy, got %v", again.Packages[0])
	}
}

func TestSetCatalogUpdatesState(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	ctx := context.Background()
	input := Catalog{
		Packages: []knapsack.Item{{ID: "x", Weight: 3, Priority: 4}},
		Capacity: 12,
	}
	if err := store.SetCatalog(ctx, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	input.Packages[0].Weight = 100

	got, err := store.GetCatalog(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Capacity != 12 || len(got.Packages) != 1 || got.Packages[0].Weight != 3 {
		t.Fatalf("unexpected catalog %+v", got)
	}
}

func TestSetCatalogAcceptsEmptyPackages(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	if err := store.SetCatalog(context.Background(), Catalog{Packages: []knapsack.Item{}, Capacity: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetCatalogRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		catalog Catalog
		wantErr error
	}{
		{Catalog{Packages: []knapsack.Item{{ID: "a", Weight: 0, Priority: 1}}, Capacity: 5}, knapsack.ErrInvalidWeight},
		{Catalog{Packages: []knapsack.Item{{ID: "a", Weight: 1, Priority: -1}}, Capacity: 5}, knapsack.ErrInvalidPriority},
		{Catalog{Packages: []knapsack.Item{{ID: "a", Weight: 1}, {ID: "a", Weight: 2}}, Capacity: 5}, knapsack.ErrDuplicateID},
		{Catalog{Capacity: -1}, knapsack.ErrInvalidCapacity},
		{Catalog{Capacity: math.Inf(1)}, knapsack.ErrInvalidCapacity},
	}

	for idx, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("case_%d", idx), func(t *testing.T) {
			store := NewMemoryStorage()
			err := store.SetCatalog(context.Background(), tc.catalog)
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog for %+v, got %v", tc.catalog, err)
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v for %+v, got %v", tc.wantErr, tc.catalog, err)
			}
		})
	}
}

func TestMemoryStorageConcurrentAccess(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func(offset int) {
			defer wg.Done()
			catalog := Catalog{
				Packages: []knapsack.Item{{ID: "p", Weight: float64(1 + offset), Priority: 1}},
				Capacity: float64(10 + offset),
			}
			if err := store.SetCatalog(ctx, catalog); err != nil {
				t.Errorf("SetCatalog failed: %v", err)
			}
		}(i)

		go func() {
			defer wg.Done()
			if _, err := store.GetCatalog(ctx); err != nil {
				t.Errorf("GetCatalog failed: %v", err)
			}
		}()
	}

	wg.Wait()

	if _, err := store.GetCatalog(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func newMiniredisStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	store, err := NewRedisStorage(context.Background(), "redis://"+srv.Addr())
	if err != nil {
		t.Fatalf("NewRedisStorage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, srv
}

func TestRedisStorageRoundTrip(t *testing.T) {
	t.Parallel()

	store, srv := newMiniredisStorage(t)
	assertRedisRoundTrip(t, store)

	if !srv.Exists(defaultCatalogKey) {
		t.Fatalf("expected catalog under %s", defaultCatalogKey)
	}
}

func TestRedisStorageRoundTripAgainstServer(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	store, err := NewRedisStorage(context.Background(), url)
	if err != nil {
		t.Fatalf("NewRedisStorage: %v", err)
	}
	store.key = "parcel-planner:test:" + t.Name()
	t.Cleanup(func() {
		_ = store.rdb.Del(context.Background(), store.key).Err()
		_ = store.Close()
	})

	assertRedisRoundTrip(t, store)
}

func assertRedisRoundTrip(t *testing.T, store *RedisStorage) {
	t.Helper()
	ctx := context.Background()

	got, err := store.GetCatalog(ctx)
	if err != nil {
		t.Fatalf("GetCatalog on empty key: %v", err)
	}
	if got.Capacity != DefaultCapacity() || len(got.Packages) != len(DefaultCatalog().Packages) {
		t.Fatalf("expected default catalog, got %+v", got)
	}

	seed := Catalog{Packages: []knapsack.Item{{ID: "s", Weight: 1, Priority: 1}}, Capacity: 3}
	if written, err := store.SeedCatalog(ctx, seed); err != nil || !written {
		t.Fatalf("expected first seed to be written, got %v %v", written, err)
	}
	if written, err := store.SeedCatalog(ctx, DefaultCatalog()); err != nil || written {
		t.Fatalf("expected second seed to be skipped, got %v %v", written, err)
	}
	got, err = store.GetCatalog(ctx)
	if err != nil {
		t.Fatalf("GetCatalog after seed: %v", err)
	}
	if got.Capacity != 3 || len(got.Packages) != 1 || got.Packages[0].ID != "s" {
		t.Fatalf("expected seeded catalog, got %+v", got)
	}

	want := Catalog{Packages: []knapsack.Item{{ID: "r", Weight: 2, Priority: 7}}, Capacity: 9}
	if err := store.SetCatalog(ctx, want); err != nil {
		t.Fatalf("SetCatalog: %v", err)
	}
	got, err = store.GetCatalog(ctx)
	if err != nil {
		t.Fatalf("GetCatalog: %v", err)
	}
	if got.Capacity != 9 || len(got.Packages) != 1 || got.Packages[0] != want.Packages[0] {
		t.Fatalf("unexpected catalog %+v", got)
	}

	if err := store.SetCatalog(ctx, Catalog{Capacity: -1}); !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
	if _, err := store.SeedCatalog(ctx, Catalog{Capacity: -1}); !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog from seed, got %v", err)
	}
}

func TestRedisStorageEmptyPackages(t *testing.T) {
	t.Parallel()

	store, _ := newMiniredisStorage(t)
	ctx := context.Background()

	if err := store.SetCatalog(ctx, Catalog{Packages: []knapsack.Item{}, Capacity: 4}); err != nil {
		t.Fatalf("SetCatalog: %v", err)
	}
	got, err := store.GetCatalog(ctx)
	if err != nil {
		t.Fatalf("GetCatalog: %v", err)
	}
	if got.Packages == nil || len(got.Packages) != 0 || got.Capacity != 4 {
		t.Fatalf("expected empty non-nil packages, got %+v", got)
	}
}

func TestRedisStorageCorruptValue(t *testing.T) {
	t.Parallel()

	store, srv := newMiniredisStorage(t)
	if err := srv.Set(defaultCatalogKey, "not json"); err != nil {
		t.Fatalf("seed corrupt value: %v", err)
	}

	if _, err := store.GetCatalog(context.Background()); err == nil {
		t.Fatalf("expected decode error for corrupt catalog")
	}
}

func TestRedisStorageServerDown(t *testing.T) {
	t.Parallel()

	store, srv := newMiniredisStorage(t)
	srv.Close()

	if _, err := store.GetCatalog(context.Background()); err == nil {
		t.Fatalf("expected error once the server is gone")
	}
	if err := store.SetCatalog(context.Background(), DefaultCatalog()); err == nil {
		t.Fatalf("expected error once the server is gone")
	}
}

func TestNewRedisStorageRejectsBadURL(t *testing.T) {
	t.Parallel()

	if _, err := NewRedisStorage(context.Background(), "not-a-url"); err == nil {
		t.Fatalf("expected error for malformed url")
	}
}
