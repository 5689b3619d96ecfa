package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nerveconnect/clinic-api/pkg/circuitbreaker"
	"github.com/nerveconnect/clinic-api/pkg/messaging"
)

type Broker struct {
	client *redis.Client
	cb     *circuitbreaker.CircuitBreaker
	logger zerolog.Logger
}

type Config struct {
	URL          string
	PoolSize     int
	MinIdleConns int
}

func NewBroker(config Config, logger zerolog.Logger) (*Broker, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}
	if config.MinIdleConns > 0 {
		opts.MinIdleConns = config.MinIdleConns
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cb := circuitbreaker.New(circuitbreaker.Settings{
		Name:        "redis-broker",
		MaxFailures: 5,
		Timeout:     10 * time.Second,
	})

	return &Broker{client: client, cb: cb, logger: logger}, nil
}

func (b *Broker) Publish(ctx context.Context, topic string, event *messaging.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = b.cb.Execute(func() error {
		return b.client.Publish(ctx, topic, payload).Err()
	})
	if err != nil {
		b.logger.Warn().Err(err).Str("topic", topic).Str("type", event.Type).
			Msg("event publish failed")
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (b *Broker) Close() error {
	return b.client.Close()
}
