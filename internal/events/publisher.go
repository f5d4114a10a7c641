package events

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"

	"github.com/akylbek/payment-relay/internal/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher emits balance events keyed by customer id so a consumer sees
// one customer's credits in order.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) PublishBalanceCredited(ctx context.Context, event *models.BalanceCreditedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.CustomerID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("BalanceCredited")},
			{Key: "order_id", Value: []byte(event.OrderID)},
		},
	})
}

// NopPublisher is used when no Kafka brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishBalanceCredited(context.Context, *models.BalanceCreditedEvent) error {
	return nil
}
