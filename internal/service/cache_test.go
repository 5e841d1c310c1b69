package service

import (
	"context"
	"errors"
	"testing"

	"github.com/simmr/simmr/internal/cache"
	"github.com/simmr/simmr/internal/model"
	"github.com/simmr/simmr/internal/store"
)

// fakeCache is an in-process RecipeCache double.
type fakeCache struct {
	recipes  map[uint64]*model.Recipe
	negative map[uint64]bool
	hits     int
	misses   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		recipes:  make(map[uint64]*model.Recipe),
		negative: make(map[uint64]bool),
	}
}

func (f *fakeCache) GetRecipe(_ context.Context, id uint64) (*model.Recipe, error) {
	if recipe, ok := f.recipes[id]; ok {
		f.hits++
		return recipe.Clone(), nil
	}
	f.misses++
	return nil, cache.ErrCacheMiss
}

func (f *fakeCache) SetRecipe(_ context.Context, recipe *model.Recipe) error {
	f.recipes[recipe.ID] = recipe.Clone()
	delete(f.negative, recipe.ID)
	return nil
}

func (f *fakeCache) DeleteRecipe(_ context.Context, id uint64) error {
	delete(f.recipes, id)
	delete(f.negative, id)
	return nil
}

func (f *fakeCache) IsNegativelyCached(_ context.Context, id uint64) (bool, error) {
	return f.negative[id], nil
}

func (f *fakeCache) SetNegativeCache(_ context.Context, id uint64) error {
	f.negative[id] = true
	return nil
}

func TestGetRecipeBackfillsCache(t *testing.T) {
	t.Parallel()

	fake := newFakeCache()
	m := NewMarket(store.NewMemory(), fake, nil, nil)
	ctx := context.Background()

	owner := mustCreateUser(t, m, "owner", "pw")
	recipe := mustCreateRecipe(t, m, CreateRecipeInput{Title: "Laksa", OwnerID: owner.ID})

	// First read misses and backfills; second read hits.
	if _, err := m.GetRecipe(ctx, recipe.ID); err != nil {
		t.Fatalf("first get: %v", err)
	}
	if fake.misses != 1 {
		t.Errorf("misses = %d, want 1", fake.misses)
	}
	if _, err := m.GetRecipe(ctx, recipe.ID); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if fake.hits != 1 {
		t.Errorf("hits = %d, want 1", fake.hits)
	}
}

func TestGetRecipeNegativeCache(t *testing.T) {
	t.Parallel()

	fake := newFakeCache()
	m := NewMarket(store.NewMemory(), fake, nil, nil)
	ctx := context.Background()

	// A miss on an absent recipe plants a negative marker.
	if _, err := m.GetRecipe(ctx, 7); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("error = %v, want %v", err, ErrRecipeNotFound)
	}
	if !fake.negative[7] {
		t.Fatal("negative marker not planted")
	}

	// Subsequent lookups short-circuit on the marker.
	if _, err := m.GetRecipe(ctx, 7); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("error = %v, want %v", err, ErrRecipeNotFound)
	}
}

func TestCreateRecipeClearsNegativeMarker(t *testing.T) {
	t.Parallel()

	fake := newFakeCache()
	m := NewMarket(store.NewMemory(), fake, nil, nil)
	ctx := context.Background()

	owner := mustCreateUser(t, m, "owner", "pw")

	// Plant a marker for the identity the next recipe will take.
	nextID := owner.ID + 1
	if _, err := m.GetRecipe(ctx, nextID); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("error = %v, want %v", err, ErrRecipeNotFound)
	}

	recipe := mustCreateRecipe(t, m, CreateRecipeInput{Title: "Fresh", OwnerID: owner.ID})
	if recipe.ID != nextID {
		t.Fatalf("identity = %d, want %d", recipe.ID, nextID)
	}

	got, err := m.GetRecipe(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("get after create: %v", err)
	}
	if got.Title != "Fresh" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestPurchaseInvalidatesCachedRecipe(t *testing.T) {
	t.Parallel()

	fake := newFakeCache()
	m := NewMarket(store.NewMemory(), fake, nil, nil)
	ctx := context.Background()

	seller := mustCreateUser(t, m, "seller", "s")
	buyer := mustCreateUser(t, m, "buyer", "b")
	mustInitContract(t, m, "admin")
	mustFund(t, m, buyer.ID, 100, "admin")
	recipe := mustCreateRecipe(t, m, CreateRecipeInput{
		Title: "Ramen", OwnerID: seller.ID, Price: 40, IsForSale: true,
	})

	// Warm the cache with the pre-sale view.
	if _, err := m.GetRecipe(ctx, recipe.ID); err != nil {
		t.Fatalf("warm: %v", err)
	}

	if _, err := m.BuyRecipe(ctx, BuyRecipeInput{RecipeID: recipe.ID, BuyerID: buyer.ID, Password: "b"}); err != nil {
		t.Fatalf("buy: %v", err)
	}

	got, err := m.GetRecipe(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("get after buy: %v", err)
	}
	if got.OwnerID != buyer.ID {
		t.Errorf("cached owner = %d, want %d (stale view served)", got.OwnerID, buyer.ID)
	}
}
