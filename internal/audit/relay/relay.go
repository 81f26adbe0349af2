// Package relay streams ledger events to Kafka for downstream consumers.
//
// The relay is strictly best-effort: it reads from the recorder's sink
// channel and a broker outage never blocks or fails a mandate operation.
// The database store remains the system of record.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"paychain/internal/audit"
)

const defaultTopic = "mandate.audit.v1"

// Relay consumes audit events from a channel and produces them to Kafka.
type Relay struct {
	client *kgo.Client
	topic  string
	source <-chan audit.Event
	logger *slog.Logger
}

// Option configures the Relay.
type Option func(*Relay)

// WithTopic overrides the destination topic.
func WithTopic(topic string) Option {
	return func(r *Relay) {
		r.topic = topic
	}
}

// WithLogger sets a logger for delivery failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

// New connects to the brokers and ensures the audit topic exists.
// source is the channel handed to the recorder via audit.WithSink.
func New(ctx context.Context, brokers []string, source <-chan audit.Event, opts ...Option) (*Relay, error) {
	r := &Relay{
		topic:  defaultTopic,
		source: source,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(r.topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	r.client = client

	if err := r.ensureTopic(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return r, nil
}

func (r *Relay) ensureTopic(ctx context.Context) error {
	adm := kadm.NewClient(r.client)
	resp, err := adm.CreateTopic(ctx, 1, 1, nil, r.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", r.topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", r.topic, resp.Err)
	}
	return nil
}

// Run drains the source channel until ctx is cancelled or the channel
// closes. Events are keyed by mandate ID so per-mandate ordering is
// preserved within a partition.
func (r *Relay) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-r.source:
			if !ok {
				return nil
			}
			r.produce(ctx, event)
		}
	}
}

func (r *Relay) produce(ctx context.Context, event audit.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.ErrorContext(ctx, "audit relay marshal failed",
			"event_id", event.ID,
			"error", err,
		)
		return
	}
	record := &kgo.Record{
		Key:   []byte(event.MandateID),
		Value: payload,
	}
	r.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			r.logger.Error("audit relay produce failed",
				"event_id", event.ID,
				"mandate_id", event.MandateID,
				"error", err,
			)
		}
	})
}

// Close flushes pending records and releases the client.
func (r *Relay) Close(ctx context.Context) error {
	defer r.client.Close()
	if err := r.client.Flush(ctx); err != nil {
		return fmt.Errorf("flush kafka producer: %w", err)
	}
	return nil
}
