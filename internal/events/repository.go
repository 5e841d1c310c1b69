package events

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StoredEvent is a market event as persisted in postgres.
type StoredEvent struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	RecipeID       uint64    `json:"recipe_id,omitempty"`
	ActorID        uint64    `json:"actor_id"`
	CounterpartyID uint64    `json:"counterparty_id,omitempty"`
	Amount         uint64    `json:"amount"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Repository persists market events outside the bounded record store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an event repository on an existing pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// BulkInsert writes a batch of events. Duplicate IDs (worker redelivery)
// are ignored, making the insert idempotent.
func (r *Repository) BulkInsert(ctx context.Context, batch []MarketEvent) error {
	if len(batch) == 0 {
		return nil
	}

	b := &pgx.Batch{}
	for _, event := range batch {
		// Funding has no recipe or counterparty; identity 0 is a valid
		// user, so absence is encoded as NULL, not zero.
		var recipeID, counterparty *int64
		if event.Type == TypePurchase {
			r := int64(event.RecipeID)
			c := int64(event.CounterpartyID)
			recipeID, counterparty = &r, &c
		}
		b.Queue(
			`INSERT INTO market_events (id, event_type, recipe_id, actor_id, counterparty_id, amount, occurred_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (id) DO NOTHING`,
			event.ID,
			event.Type,
			recipeID,
			int64(event.ActorID),
			counterparty,
			int64(event.Amount),
			time.UnixMilli(event.OccurredAt).UTC(),
		)
	}

	results := r.pool.SendBatch(ctx, b)
	defer results.Close()

	for range batch {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert market event: %w", err)
		}
	}
	return nil
}

// Recent returns the newest events, most recent first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]StoredEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, event_type, recipe_id, actor_id, counterparty_id, amount, occurred_at
		 FROM market_events
		 ORDER BY occurred_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query market events: %w", err)
	}
	defer rows.Close()

	var out []StoredEvent
	for rows.Next() {
		var (
			event        StoredEvent
			recipeID     *int64
			counterparty *int64
			actorID      int64
			amount       int64
		)
		if err := rows.Scan(&event.ID, &event.Type, &recipeID, &actorID, &counterparty, &amount, &event.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan market event: %w", err)
		}
		event.ActorID = uint64(actorID)
		event.Amount = uint64(amount)
		if recipeID != nil {
			event.RecipeID = uint64(*recipeID)
		}
		if counterparty != nil {
			event.CounterpartyID = uint64(*counterparty)
		}
		out = append(out, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query market events: %w", err)
	}
	return out, nil
}
