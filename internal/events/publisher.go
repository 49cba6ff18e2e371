package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/keymint/keymint/internal/metrics"
	"github.com/redis/go-redis/v9"
)

// Lifecycle event names, used as the pub/sub channel.
const (
	KeyCreated = "key_created"
	KeyUpdated = "key_updated"
	KeyDeleted = "key_deleted"
)

// Publisher is the notification interface. Emit must never block the caller;
// delivery is best-effort and its outcome is observable only via logs.
type Publisher interface {
	Emit(event string, payload any)
	Ping(ctx context.Context) error
	Close() error
}

// RedisPublisher implements the Publisher interface using go-redis/v9 pub/sub.
type RedisPublisher struct {
	client  *redis.Client
	logger  *slog.Logger
	timeout time.Duration
}

// NewRedisPublisher creates a new RedisPublisher from a Redis URL.
func NewRedisPublisher(redisURL string, timeout time.Duration, logger *slog.Logger) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisPublisher{
		client:  redis.NewClient(opts),
		logger:  logger,
		timeout: timeout,
	}, nil
}

func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// Emit publishes payload as JSON on the channel named after the event.
// The dispatch runs detached from the caller with its own timeout; success
// and failure are logged, never returned.
func (p *RedisPublisher) Emit(event string, payload any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()

		body, err := json.Marshal(payload)
		if err != nil {
			p.logger.Error("event payload marshal failed", "event", event, "error", err)
			metrics.EventsPublished.WithLabelValues(event, "error").Inc()
			return
		}

		if err := p.client.Publish(ctx, event, body).Err(); err != nil {
			p.logger.Error("event emit failed", "event", event, "error", err)
			metrics.EventsPublished.WithLabelValues(event, "error").Inc()
			return
		}

		p.logger.Info("event emitted", "event", event)
		metrics.EventsPublished.WithLabelValues(event, "ok").Inc()
	}()
}
