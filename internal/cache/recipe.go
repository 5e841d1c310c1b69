package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/simmr/simmr/internal/model"
)

// Cache key prefixes and TTLs.
const (
	recipeKeyPrefix   = "recipe:"
	negCacheKeySuffix = ":neg"

	// DefaultRecipeTTL is the TTL for cached recipe data.
	DefaultRecipeTTL = 1 * time.Hour

	// NegativeCacheTTL is the TTL for negative cache entries.
	NegativeCacheTTL = 5 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

func recipeKey(id uint64) string {
	return recipeKeyPrefix + strconv.FormatUint(id, 10)
}

// GetRecipe retrieves a recipe from cache by identity.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetRecipe(ctx context.Context, id uint64) (*model.Recipe, error) {
	payload, err := c.client.Get(ctx, recipeKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var recipe model.Recipe
	if err := json.Unmarshal([]byte(payload), &recipe); err != nil {
		// Treat a corrupt entry as a miss so the store stays authoritative.
		c.client.Del(ctx, recipeKey(id))
		return nil, ErrCacheMiss
	}

	return &recipe, nil
}

// SetRecipe stores a recipe in cache and clears any negative marker.
func (c *Cache) SetRecipe(ctx context.Context, recipe *model.Recipe) error {
	key := recipeKey(recipe.ID)

	payload, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("failed to encode recipe: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, payload, DefaultRecipeTTL)
	pipe.Del(ctx, key+negCacheKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache recipe: %w", err)
	}

	return nil
}

// DeleteRecipe removes a recipe and its negative marker from cache.
func (c *Cache) DeleteRecipe(ctx context.Context, id uint64) error {
	key := recipeKey(id)

	pipe := c.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.Del(ctx, key+negCacheKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete recipe from cache: %w", err)
	}

	return nil
}

// IsNegativelyCached checks if a recipe identity is in negative cache.
func (c *Cache) IsNegativelyCached(ctx context.Context, id uint64) (bool, error) {
	exists, err := c.client.Exists(ctx, recipeKey(id)+negCacheKeySuffix).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check negative cache: %w", err)
	}

	return exists > 0, nil
}

// SetNegativeCache marks a recipe identity as not found.
func (c *Cache) SetNegativeCache(ctx context.Context, id uint64) error {
	err := c.client.SetEx(ctx, recipeKey(id)+negCacheKeySuffix, "", NegativeCacheTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to set negative cache: %w", err)
	}

	return nil
}
