package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/simmr/simmr/internal/metrics"
)

const (
	// ConsumerGroup is the Redis consumer group name.
	ConsumerGroup = "event_writers"

	// DefaultBatchSize is the max events per batch.
	DefaultBatchSize = 200

	// DefaultBlockTimeout is how long a read blocks waiting for messages.
	DefaultBlockTimeout = 5 * time.Second
)

// Sink persists consumed market events.
type Sink interface {
	BulkInsert(ctx context.Context, batch []MarketEvent) error
}

// Worker drains the market event stream into the sink.
type Worker struct {
	redis        *redis.Client
	sink         Sink
	logger       *slog.Logger
	metrics      metrics.Recorder
	consumerID   string
	batchSize    int
	blockTimeout time.Duration

	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
}

// NewWorker creates an event worker.
func NewWorker(client *redis.Client, sink Sink, consumerID string, logger *slog.Logger, recorder metrics.Recorder) *Worker {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Worker{
		redis:        client,
		sink:         sink,
		logger:       logger.With("component", "events.worker", "consumer_id", consumerID),
		metrics:      recorder,
		consumerID:   consumerID,
		batchSize:    DefaultBatchSize,
		blockTimeout: DefaultBlockTimeout,
	}
}

// Start launches the consume loop. It creates the consumer group if needed.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return errors.New("worker already started")
	}

	err := w.redis.XGroupCreateMkStream(ctx, StreamKey, ConsumerGroup, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	w.started = true

	go w.run(runCtx)
	w.logger.Info("event worker started")
	return nil
}

// Shutdown stops the consume loop, waiting for the in-flight batch.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return nil
	}
	w.cancel()
	done := w.done
	w.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event worker shutdown: %w", ctx.Err())
	}
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.consumeOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("consume failed", "error", err)
			// Back off briefly so a broken Redis does not spin the loop.
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}
}

// consumeOnce reads one batch, persists it and acknowledges the messages.
func (w *Worker) consumeOnce(ctx context.Context) error {
	streams, err := w.redis.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    ConsumerGroup,
		Consumer: w.consumerID,
		Streams:  []string{StreamKey, ">"},
		Count:    int64(w.batchSize),
		Block:    w.blockTimeout,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil // timed out with nothing to read
		}
		return fmt.Errorf("xreadgroup: %w", err)
	}

	var (
		batch []MarketEvent
		ids   []string
	)
	for _, stream := range streams {
		for _, msg := range stream.Messages {
			event, err := decodeMessage(msg)
			if err != nil {
				// Poison message: ack it away and count the failure.
				w.metrics.IncEventProcessed("failed")
				w.logger.Warn("dropping undecodable event", "stream_id", msg.ID, "error", err)
				ids = append(ids, msg.ID)
				continue
			}
			batch = append(batch, event)
			ids = append(ids, msg.ID)
		}
	}

	if len(batch) > 0 {
		if err := w.sink.BulkInsert(ctx, batch); err != nil {
			// Leave messages pending; they will be redelivered.
			return fmt.Errorf("persist batch: %w", err)
		}
		for range batch {
			w.metrics.IncEventProcessed("success")
		}
		w.metrics.ObserveEventBatchSize(len(batch))
	}

	if len(ids) > 0 {
		if err := w.redis.XAck(ctx, StreamKey, ConsumerGroup, ids...).Err(); err != nil {
			return fmt.Errorf("xack: %w", err)
		}
	}

	if depth, err := w.redis.XLen(ctx, StreamKey).Result(); err == nil {
		w.metrics.SetEventQueueDepth(depth)
	}
	return nil
}

// decodeMessage extracts and validates a market event from a stream entry.
func decodeMessage(msg redis.XMessage) (MarketEvent, error) {
	payload, ok := msg.Values["payload"].(string)
	if !ok {
		return MarketEvent{}, fmt.Errorf("message %s has no payload", msg.ID)
	}
	var event MarketEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return MarketEvent{}, fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := Validate(event); err != nil {
		return MarketEvent{}, fmt.Errorf("invalid event: %w", err)
	}
	return event, nil
}
