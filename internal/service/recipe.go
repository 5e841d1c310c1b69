package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/simmr/simmr/internal/auth"
	"github.com/simmr/simmr/internal/cache"
	"github.com/simmr/simmr/internal/model"
	"github.com/simmr/simmr/internal/store"
)

// CreateRecipeInput defines input for creating a recipe.
type CreateRecipeInput struct {
	Title       string
	Category    string
	Description string
	Price       uint64
	OwnerID     uint64
	IsCommunity bool
	IsForSale   bool
}

// CreateRecipe persists a new recipe and links it into the owner's
// collection. Owner existence is checked before the identity is minted;
// both writes commit together or not at all.
func (s *Market) CreateRecipe(ctx context.Context, input CreateRecipeInput) (*model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var created *model.Recipe
	err := s.store.Update(ctx, func(tx store.Tx) error {
		owner, ok, err := store.Users.Get(tx, input.OwnerID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}

		id, err := tx.NextID()
		if err != nil {
			return err
		}

		price := input.Price
		if input.IsCommunity {
			price = 0
		}

		recipe := &model.Recipe{
			ID:          id,
			Title:       input.Title,
			Category:    input.Category,
			Description: input.Description,
			Price:       price,
			OwnerID:     input.OwnerID,
			IsCommunity: input.IsCommunity,
			IsForSale:   input.IsForSale,
			Reviews:     []string{},
		}
		if _, err := store.Recipes.Put(tx, id, recipe); err != nil {
			return err
		}

		owner.AddRecipe(id)
		if _, err := store.Users.Put(tx, input.OwnerID, owner); err != nil {
			return err
		}

		created = recipe
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncRecipeCreated()
	// Clear any stale negative-cache marker for the new identity.
	s.invalidateRecipe(ctx, created.ID)
	return created, nil
}

// EditOwnedRecipeInput defines input for editing a non-community recipe.
type EditOwnedRecipeInput struct {
	RecipeID    uint64
	Title       string
	Description string
	IsCommunity bool
	IsForSale   bool
	Price       uint64
	Password    string
}

// EditOwnedRecipe updates a non-community recipe, gated by the owner's
// password. Category and reviews are never touched; the price collapses to
// zero when the edit flips the recipe to community.
func (s *Market) EditOwnedRecipe(ctx context.Context, input EditOwnedRecipeInput) (*model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *model.Recipe
	err := s.store.Update(ctx, func(tx store.Tx) error {
		recipe, ok, err := store.Recipes.Get(tx, input.RecipeID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRecipeNotFound
		}
		if recipe.IsCommunity {
			return ErrCommunityRecipe
		}

		owner, ok, err := store.Users.Get(tx, recipe.OwnerID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}

		match, err := auth.VerifyPassword(input.Password, owner.PasswordHash)
		if err != nil {
			return fmt.Errorf("verify password: %w", err)
		}
		if !match {
			return ErrUnauthorized
		}

		recipe.Title = input.Title
		recipe.Description = input.Description
		recipe.IsCommunity = input.IsCommunity
		recipe.IsForSale = input.IsForSale
		recipe.Price = input.Price
		if recipe.IsCommunity {
			recipe.Price = 0
		}

		if _, err := store.Recipes.Put(tx, recipe.ID, recipe); err != nil {
			return err
		}
		updated = recipe
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncRecipeEdited()
	s.invalidateRecipe(ctx, input.RecipeID)
	return updated, nil
}

// EditCommunityRecipe updates the description of a community recipe. No
// password is required; every other field is carried over unchanged.
func (s *Market) EditCommunityRecipe(ctx context.Context, recipeID uint64, description string) (*model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *model.Recipe
	err := s.store.Update(ctx, func(tx store.Tx) error {
		recipe, ok, err := store.Recipes.Get(tx, recipeID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRecipeNotFound
		}
		if !recipe.IsCommunity {
			return ErrNotCommunityRecipe
		}

		recipe.Description = description
		if _, err := store.Recipes.Put(tx, recipe.ID, recipe); err != nil {
			return err
		}
		updated = recipe
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncRecipeEdited()
	s.invalidateRecipe(ctx, recipeID)
	return updated, nil
}

// AddReview appends a free-text review. Anyone may review; the recipe just
// has to exist. An append that would push the record past its size bound
// fails with the store's oversize error and leaves the recipe untouched.
func (s *Market) AddReview(ctx context.Context, recipeID uint64, review string) (*model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *model.Recipe
	err := s.store.Update(ctx, func(tx store.Tx) error {
		recipe, ok, err := store.Recipes.Get(tx, recipeID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRecipeNotFound
		}

		recipe.Reviews = append(recipe.Reviews, review)
		if _, err := store.Recipes.Put(tx, recipe.ID, recipe); err != nil {
			return err
		}
		updated = recipe
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncReviewAdded()
	s.invalidateRecipe(ctx, recipeID)
	return updated, nil
}

// Reviews returns the review sequence of a recipe.
func (s *Market) Reviews(ctx context.Context, recipeID uint64) ([]string, error) {
	recipe, err := s.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return recipe.Reviews, nil
}

// GetRecipe fetches a recipe, cache-first with negative caching. This is
// the hot read path; mutations never read through the cache.
func (s *Market) GetRecipe(ctx context.Context, id uint64) (*model.Recipe, error) {
	if s.cache != nil {
		cached, err := s.cache.GetRecipe(ctx, id)
		if err == nil {
			s.metrics.IncRecipeCacheHit()
			return cached, nil
		}
		if errors.Is(err, cache.ErrCacheMiss) {
			s.metrics.IncRecipeCacheMiss()
			if negative, _ := s.cache.IsNegativelyCached(ctx, id); negative {
				return nil, ErrRecipeNotFound
			}
		}
		// On any other cache error fall through to the store.
	}

	var recipe *model.Recipe
	err := s.store.View(ctx, func(tx store.Tx) error {
		found, ok, err := store.Recipes.Get(tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRecipeNotFound
		}
		recipe = found
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRecipeNotFound) && s.cache != nil {
			_ = s.cache.SetNegativeCache(ctx, id)
		}
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetRecipe(ctx, recipe)
	}
	return recipe, nil
}

// ListRecipes returns every recipe in identity order. An empty marketplace
// is reported as not-found.
func (s *Market) ListRecipes(ctx context.Context) ([]*model.Recipe, error) {
	return s.listRecipes(ctx, func(*model.Recipe) bool { return true })
}

// ListForSaleRecipes returns recipes currently purchasable.
func (s *Market) ListForSaleRecipes(ctx context.Context) ([]*model.Recipe, error) {
	return s.listRecipes(ctx, (*model.Recipe).Transferable)
}

// SearchRecipes returns recipes whose title or category contains the query,
// case-insensitively.
func (s *Market) SearchRecipes(ctx context.Context, query string) ([]*model.Recipe, error) {
	q := strings.ToLower(query)
	return s.listRecipes(ctx, func(r *model.Recipe) bool {
		return strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.Category), q)
	})
}

func (s *Market) listRecipes(ctx context.Context, keep func(*model.Recipe) bool) ([]*model.Recipe, error) {
	var recipes []*model.Recipe
	err := s.store.View(ctx, func(tx store.Tx) error {
		entries, err := store.Recipes.All(tx)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if keep(e.Record) {
				recipes = append(recipes, e.Record)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, ErrRecipeNotFound
	}
	return recipes, nil
}
