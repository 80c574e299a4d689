// Package redis publishes appended events to a Redis stream with XADD.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/publish"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.EventListener = (*Publisher)(nil)
	_ ports.HealthChecker = (*Publisher)(nil)
)

// Config selects the server and stream.
type Config struct {
	URL    string
	Stream string
	// MaxLen trims the stream to roughly this many entries. Zero keeps all.
	MaxLen int64
}

// Publisher adds one stream entry per appended event. Entries of one append
// are written in a single MULTI/EXEC block.
type Publisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

// New connects to cfg.URL and checks the connection.
func New(ctx context.Context, cfg Config) (*Publisher, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewWithClient(client, cfg.Stream, cfg.MaxLen), nil
}

// NewWithClient publishes through an existing client.
func NewWithClient(client *redis.Client, stream string, maxLen int64) *Publisher {
	if stream == "" {
		stream = "reconciler.events"
	}
	return &Publisher{client: client, stream: stream, maxLen: maxLen}
}

// Name identifies the publisher in metrics and readiness reports.
func (p *Publisher) Name() string {
	return "redis"
}

// Appended implements ports.EventListener.
func (p *Publisher) Appended(ctx context.Context, stream string, events []event.Event) error {
	pipe := p.client.TxPipeline()
	for _, e := range events {
		data, err := publish.Encode(e)
		if err != nil {
			return err
		}
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			MaxLen: p.maxLen,
			Approx: p.maxLen > 0,
			Values: map[string]any{
				"stream":  stream,
				"version": e.Version,
				"kind":    string(e.Kind),
				"event":   data,
			},
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publishing %d events from %s: %w", len(events), stream, err)
	}
	return nil
}

// HealthCheck pings the server.
func (p *Publisher) HealthCheck(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
