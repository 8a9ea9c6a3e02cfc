package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/couchcryptid/zmanim-etl/internal/config"
	"github.com/couchcryptid/zmanim-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces resolved days to the sink topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	return &Writer{writer: newProducer(cfg.KafkaBrokers, cfg.KafkaSinkTopic), logger: logger}
}

// LoadBatch publishes all messages in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, msgs []domain.OutputMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]kafkago.Message, len(msgs))
	for i := range msgs {
		out[i] = toKafkaMessage(msgs[i])
	}
	if err := w.writer.WriteMessages(ctx, out...); err != nil {
		return fmt.Errorf("write %d days: %w", len(out), err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// EnvelopeWriter publishes collected windows to the source topic.
type EnvelopeWriter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewEnvelopeWriter creates a Kafka producer for the configured source topic.
func NewEnvelopeWriter(cfg *config.Config, logger *slog.Logger) *EnvelopeWriter {
	return &EnvelopeWriter{writer: newProducer(cfg.KafkaBrokers, cfg.KafkaSourceTopic), logger: logger}
}

// Publish writes one envelope keyed by its location.
func (w *EnvelopeWriter) Publish(ctx context.Context, env domain.WindowEnvelope) error {
	msg, err := envelopeToMessage(env)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish window for %s: %w", env.Location.Key(), err)
	}
	w.logger.Debug("published window", "location", env.Location.Key(), "run_id", env.RunID)
	return nil
}

func (w *EnvelopeWriter) Close() error {
	return w.writer.Close()
}

func newProducer(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
}

// toKafkaMessage copies headers in key order so produced messages are stable.
func toKafkaMessage(msg domain.OutputMessage) kafkago.Message {
	keys := make([]string, 0, len(msg.Headers))
	for k := range msg.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make([]kafkago.Header, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(msg.Headers[k])})
	}
	return kafkago.Message{Key: msg.Key, Value: msg.Value, Headers: headers}
}

func envelopeToMessage(env domain.WindowEnvelope) (kafkago.Message, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize window envelope: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(env.Location.Key()),
		Value: data,
		Time:  env.CollectedAt,
		Headers: []kafkago.Header{
			{Key: "collected_at", Value: []byte(env.CollectedAt.Format(time.RFC3339))},
			{Key: "location_key", Value: []byte(env.Location.Key())},
			{Key: "run_id", Value: []byte(env.RunID)},
		},
	}, nil
}
