// Package kafka publishes appended events to a Kafka topic. Records are keyed
// by stream so every event of one aggregate lands on the same partition in
// order.
package kafka

import (
	"context"
	"fmt"
	"strconv"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/publish"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/event"
	"github.com/jsamuelsen11/resource-reconciler/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.EventListener = (*Publisher)(nil)
	_ ports.HealthChecker = (*Publisher)(nil)
)

// Producer is the part of *kgo.Client the publisher needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Ping(ctx context.Context) error
	Close()
}

// Config selects the brokers and topic.
type Config struct {
	Brokers []string
	Topic   string
}

// Publisher produces one record per appended event.
type Publisher struct {
	producer Producer
	topic    string
}

// New creates a franz-go client for cfg. Connections are opened lazily.
func New(cfg Config) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("creating kafka client: %w", err)
	}
	return NewWithProducer(client, cfg.Topic), nil
}

// NewWithProducer publishes through an existing producer.
func NewWithProducer(p Producer, topic string) *Publisher {
	return &Publisher{producer: p, topic: topic}
}

// Name identifies the publisher in metrics and readiness reports.
func (p *Publisher) Name() string {
	return "kafka"
}

// Appended implements ports.EventListener.
func (p *Publisher) Appended(ctx context.Context, stream string, events []event.Event) error {
	records := make([]*kgo.Record, len(events))
	for i, e := range events {
		data, err := publish.Encode(e)
		if err != nil {
			return err
		}
		records[i] = &kgo.Record{
			Topic: p.topic,
			Key:   []byte(stream),
			Value: data,
			Headers: []kgo.RecordHeader{
				{Key: "kind", Value: []byte(e.Kind)},
				{Key: "version", Value: []byte(strconv.Itoa(e.Version))},
			},
			Timestamp: e.OccurredAt,
		}
	}

	if err := p.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("publishing %d events from %s: %w", len(events), stream, err)
	}
	return nil
}

// HealthCheck pings a broker.
func (p *Publisher) HealthCheck(ctx context.Context) error {
	return p.producer.Ping(ctx)
}

// Close closes the client. ProduceSync has already waited for every record,
// so nothing is left to flush.
func (p *Publisher) Close() error {
	p.producer.Close()
	return nil
}
