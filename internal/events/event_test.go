package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

func validPurchase() MarketEvent {
	return MarketEvent{
		ID:             ulid.Make().String(),
		Type:           TypePurchase,
		RecipeID:       7,
		ActorID:        2,
		CounterpartyID: 1,
		Amount:         50,
		OccurredAt:     time.Now().UnixMilli(),
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*MarketEvent)
		wantErr bool
	}{
		{name: "valid purchase", mutate: func(*MarketEvent) {}},
		{name: "valid funding", mutate: func(e *MarketEvent) {
			e.Type = TypeFunding
			e.RecipeID = 0
			e.CounterpartyID = 0
		}},
		{name: "funding to user zero", mutate: func(e *MarketEvent) {
			e.Type = TypeFunding
			e.ActorID = 0
			e.RecipeID = 0
		}},
		{name: "missing id", mutate: func(e *MarketEvent) { e.ID = "" }, wantErr: true},
		{name: "unknown type", mutate: func(e *MarketEvent) { e.Type = "refund" }, wantErr: true},
		{name: "purchase without recipe", mutate: func(e *MarketEvent) { e.RecipeID = 0 }, wantErr: true},
		{name: "missing timestamp", mutate: func(e *MarketEvent) { e.OccurredAt = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			event := validPurchase()
			tt.mutate(&event)

			err := Validate(event)
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestEventJSONRoundTrip(t *testing.T) {
	t.Parallel()

	original := validPurchase()
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded MarketEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != original {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestDecodeMessage(t *testing.T) {
	t.Parallel()

	event := validPurchase()
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := decodeMessage(redis.XMessage{
		ID:     "1-0",
		Values: map[string]interface{}{"payload": string(payload)},
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != event {
		t.Fatalf("decoded %+v, want %+v", decoded, event)
	}
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values map[string]interface{}
	}{
		{name: "no payload", values: map[string]interface{}{}},
		{name: "payload not string", values: map[string]interface{}{"payload": 42}},
		{name: "payload not json", values: map[string]interface{}{"payload": "{"}},
		{name: "invalid event", values: map[string]interface{}{"payload": `{"id":""}`}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := decodeMessage(redis.XMessage{ID: "1-0", Values: tt.values}); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
