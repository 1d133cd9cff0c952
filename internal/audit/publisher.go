package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"groupdeck/internal/platform/config"
)

// KafkaPublisher mirrors mutation records to a Kafka topic for downstream
// consumers. Produces are fire-and-forget: a delivery failure is logged and
// dropped, never retried, matching the trail's diagnostic role.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher connects a producer. Returns nil if no brokers are
// configured (Kafka not in use).
func NewKafkaPublisher(cfg config.KafkaConfig, logger *slog.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: cfg.Topic, logger: logger}, nil
}

// Publish produces one record asynchronously.
func (p *KafkaPublisher) Publish(ctx context.Context, rec Record) {
	if p == nil {
		return
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		p.logger.ErrorContext(ctx, "marshal audit record", "error", err)
		return
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(rec.EntityID),
		Value: payload,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("audit record publish failed",
				"mutation_id", rec.ID,
				"error", err,
			)
		}
	})
}

// Close flushes and shuts the producer down.
func (p *KafkaPublisher) Close() {
	if p == nil {
		return
	}
	p.client.Close()
}
