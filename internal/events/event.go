// Package events provides the market event feed: settled purchases and
// funding operations are published to a Redis stream after commit and
// persisted to postgres by a background worker. The feed is observational
// only; it never participates in core transactions.
package events

import "fmt"

// Event types.
const (
	TypePurchase = "purchase"
	TypeFunding  = "funding"
)

// MarketEvent is the compact wire format carried on the Redis stream.
type MarketEvent struct {
	ID             string `json:"id"`
	Type           string `json:"t"`
	RecipeID       uint64 `json:"r,omitempty"`
	ActorID        uint64 `json:"a"`
	CounterpartyID uint64 `json:"c,omitempty"`
	Amount         uint64 `json:"amt"`
	OccurredAt     int64  `json:"ts"` // Unix milliseconds
}

// Validate checks a market event before it is persisted.
func Validate(event MarketEvent) error {
	if event.ID == "" {
		return fmt.Errorf("id is required")
	}
	switch event.Type {
	case TypePurchase:
		// Recipe identities are minted after at least one user exists, so a
		// purchase of recipe 0 is impossible.
		if event.RecipeID == 0 {
			return fmt.Errorf("purchase event missing recipe")
		}
	case TypeFunding:
	default:
		return fmt.Errorf("unknown event type %q", event.Type)
	}
	if event.OccurredAt <= 0 {
		return fmt.Errorf("occurred_at must be set")
	}
	return nil
}
