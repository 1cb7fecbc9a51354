package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"deskflow/internal/domain/shared/events"
	"deskflow/internal/shared/goroutine"
	"deskflow/internal/shared/logger"
)

const domainEventChannel = "deskflow:events:domain"

// EventEnvelope wraps a domain event for cross-process delivery. The payload
// is the marshaled event itself; consumers pick the fields they need by
// event type.
type EventEnvelope struct {
	EventID     string          `json:"event_id"`
	AggregateID string          `json:"aggregate_id"`
	EventType   string          `json:"event_type"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Version     int             `json:"version"`
	Payload     json.RawMessage `json:"payload"`
}

// RedisEventBus publishes domain events to Redis Pub/Sub. Publishing happens
// after the owning transaction commits; a failed publish is logged and
// swallowed so it can never undo committed work.
type RedisEventBus struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisEventBus(client *redis.Client, logger logger.Interface) *RedisEventBus {
	return &RedisEventBus{
		client: client,
		logger: logger,
	}
}

func (b *RedisEventBus) Publish(event events.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Errorw("failed to marshal domain event",
			"event_type", event.GetEventType(),
			"error", err,
		)
		return nil
	}

	envelope := EventEnvelope{
		EventID:     uuid.NewString(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.GetEventType(),
		OccurredAt:  event.GetOccurredAt(),
		Version:     event.GetVersion(),
		Payload:     payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		b.logger.Errorw("failed to marshal event envelope",
			"event_type", event.GetEventType(),
			"error", err,
		)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.client.Publish(ctx, domainEventChannel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish domain event",
			"event_type", event.GetEventType(),
			"aggregate_id", event.GetAggregateID(),
			"error", err,
		)
		return nil
	}

	b.logger.Debugw("domain event published",
		"event_type", event.GetEventType(),
		"aggregate_id", event.GetAggregateID(),
	)
	return nil
}

func (b *RedisEventBus) PublishAll(evts []events.DomainEvent) error {
	for _, e := range evts {
		if err := b.Publish(e); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe consumes domain event envelopes until the context is canceled,
// reconnecting with exponential backoff on connection loss.
func (b *RedisEventBus) Subscribe(ctx context.Context, handler func(envelope EventEnvelope)) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := b.subscribe(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("event subscription disconnected, reconnecting",
			"channel", domainEventChannel,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (b *RedisEventBus) subscribe(ctx context.Context, handler func(envelope EventEnvelope)) error {
	pubsub := b.client.Subscribe(ctx, domainEventChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", domainEventChannel, err)
	}

	b.logger.Infow("subscribed to domain event channel",
		"channel", domainEventChannel,
	)

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("domain event subscriber stopped",
				"reason", ctx.Err(),
			)
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("domain event channel closed")
				return nil
			}

			var envelope EventEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				b.logger.Warnw("failed to unmarshal event envelope",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			goroutine.SafeGo(b.logger, "domain-event-handler", func() {
				handler(envelope)
			})
		}
	}
}
