// Package broker relays outbox messages to Kafka.
package broker

import (
	"context"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

const headerMessageID = "message-id"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher writes to the topic carried by each message. Messages
// with the same key land on the same partition so per-order events keep
// their order.
func NewKafkaPublisher(brokers []string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errs.NewValueIsRequiredError("brokers")
	}
	return newKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}), nil
}

func newKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, messages ...ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}
	batch := make([]kafka.Message, 0, len(messages))
	for _, m := range messages {
		batch = append(batch, toKafka(m))
	}
	return p.writer.WriteMessages(ctx, batch...)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toKafka(m ports.OutboxMessage) kafka.Message {
	return kafka.Message{
		Topic: m.Topic,
		Key:   []byte(m.Key),
		Value: m.Payload,
		Time:  m.CreatedAt,
		Headers: []kafka.Header{
			{Key: headerMessageID, Value: []byte(m.ID.String())},
		},
	}
}

// LogPublisher stands in for Kafka when no brokers are configured.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.With(zap.String("component", "log_publisher"))}
}

func (p *LogPublisher) Publish(ctx context.Context, messages ...ports.OutboxMessage) error {
	for _, m := range messages {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.log.Info("event",
			zap.String("topic", m.Topic),
			zap.String("key", m.Key),
			zap.String("message_id", m.ID.String()),
			zap.ByteString("payload", m.Payload),
		)
	}
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// NewPublisher picks Kafka when brokers is a non-empty comma separated list.
func NewPublisher(brokers string, log *zap.Logger) (ports.MessagePublisher, error) {
	var list []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			list = append(list, b)
		}
	}
	if len(list) == 0 {
		return NewLogPublisher(log), nil
	}
	return NewKafkaPublisher(list)
}
