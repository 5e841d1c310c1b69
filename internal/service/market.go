// Package service implements the marketplace transaction engine: every
// cross-record mutation (purchase, funding, creation with owner linking,
// edits, reviews) runs as one all-or-nothing unit of work against the
// bounded record store.
package service

import (
	"context"
	"sync"

	"github.com/simmr/simmr/internal/events"
	"github.com/simmr/simmr/internal/metrics"
	"github.com/simmr/simmr/internal/model"
	"github.com/simmr/simmr/internal/store"
)

// RecipeCache is the read-path cache consumed by recipe lookups.
// Implementations return cache.ErrCacheMiss on miss. The store remains the
// source of truth; the cache only ever sees committed state.
type RecipeCache interface {
	GetRecipe(ctx context.Context, id uint64) (*model.Recipe, error)
	SetRecipe(ctx context.Context, recipe *model.Recipe) error
	DeleteRecipe(ctx context.Context, id uint64) error
	IsNegativelyCached(ctx context.Context, id uint64) (bool, error)
	SetNegativeCache(ctx context.Context, id uint64) error
}

// EventPublisher receives market events after a mutation has committed.
// Publication is fire-and-forget and can never fail a core operation.
type EventPublisher interface {
	PublishAsync(event events.MarketEvent)
}

// Market is the transaction engine. Mutating operations are serialized by
// a single mutex, reproducing the one-request-at-a-time executor the
// marketplace semantics assume; reads run concurrently on snapshots.
type Market struct {
	store   store.Backend
	cache   RecipeCache
	events  EventPublisher
	metrics metrics.Recorder

	mu sync.Mutex
}

// NewMarket creates the transaction engine. cache and publisher may be nil
// (unit tests run without Redis); a nil recorder falls back to noop.
func NewMarket(backend store.Backend, cache RecipeCache, publisher EventPublisher, recorder metrics.Recorder) *Market {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Market{
		store:   backend,
		cache:   cache,
		events:  publisher,
		metrics: recorder,
	}
}

// invalidateRecipe drops any cached view of the recipe, including the
// negative-cache marker. Failures are ignored; the cache self-heals.
func (s *Market) invalidateRecipe(ctx context.Context, id uint64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.DeleteRecipe(ctx, id)
}

func (s *Market) publish(event events.MarketEvent) {
	if s.events == nil {
		return
	}
	s.events.PublishAsync(event)
}
