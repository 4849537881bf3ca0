package events

import (
	"context"
	"encoding/json"
	"time"

	"artwala_backend/internal/logger"

	"github.com/segmentio/kafka-go"
)

// MessageWriter - часть kafka.Writer, которую мы используем
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
		// одно событие на запрос: не ждем накопления пачки
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &KafkaPublisher{Writer: writer}
}

// Publish пишет событие в Kafka с ключом по ID заявки
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	logger.CtxDebug(ctx, "publishing commission event", "type", event.Type, "commission_id", event.CommissionID)

	return p.Writer.WriteMessages(ctx,
		kafka.Message{
			Key:   []byte(event.CommissionID),
			Value: msgBytes,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(event.Type)},
			},
		},
	)
}

func (p *KafkaPublisher) Close() error {
	return p.Writer.Close()
}

// NoopPublisher используется, когда Kafka отключена
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Event) error {
	logger.CtxDebug(ctx, "event publishing disabled", "type", event.Type, "commission_id", event.CommissionID)
	return nil
}

func (NoopPublisher) Close() error { return nil }
