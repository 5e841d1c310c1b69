package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/simmr/simmr/internal/metrics"
)

const (
	// StreamKey is the Redis stream carrying market events.
	StreamKey = "stream:market_events"

	// MaxStreamLen is the approximate max length of the stream.
	MaxStreamLen = 100000

	// PublishTimeout bounds a single publish attempt.
	PublishTimeout = 100 * time.Millisecond
)

// Publisher enqueues market events to the Redis stream.
type Publisher struct {
	redis   *redis.Client
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewPublisher creates a market event publisher.
func NewPublisher(client *redis.Client, logger *slog.Logger, recorder metrics.Recorder) *Publisher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Publisher{
		redis:   client,
		logger:  logger.With("component", "events.publisher"),
		metrics: recorder,
	}
}

// Publish adds an event to the stream synchronously. The event's ID and
// timestamp are assigned here if unset.
func (p *Publisher) Publish(ctx context.Context, event MarketEvent) (string, error) {
	if event.ID == "" {
		event.ID = ulid.Make().String()
	}
	if event.OccurredAt == 0 {
		event.OccurredAt = time.Now().UnixMilli()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	result, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: MaxStreamLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{
			"payload": string(data),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd: %w", err)
	}

	return result, nil
}

// PublishAsync publishes without blocking the caller. Errors are logged
// and counted but never returned; losing a feed entry is acceptable,
// failing a settled purchase is not.
func (p *Publisher) PublishAsync(event MarketEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		defer cancel()

		if _, err := p.Publish(ctx, event); err != nil {
			p.metrics.IncEventPublished("dropped")
			p.logger.Warn("event dropped", "type", event.Type, "error", err)
			return
		}
		p.metrics.IncEventPublished("success")
	}()
}
