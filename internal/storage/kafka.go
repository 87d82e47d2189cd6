package storage

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"quickbite/internal/domain"
	"quickbite/internal/service"
)

// MessageWriter is the slice of kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaStatusPublisher fans order status transitions out to a topic so
// other consumers (notification senders, analytics) can react.
type KafkaStatusPublisher struct {
	Writer MessageWriter
}

func NewKafkaStatusPublisher(writer MessageWriter) *KafkaStatusPublisher {
	return &KafkaStatusPublisher{Writer: writer}
}

func (p *KafkaStatusPublisher) PublishStatusChange(ctx context.Context, orderID string, oldStatus, newStatus domain.OrderStatus) error {
	payload, _ := json.Marshal(domain.StatusEvent{
		Type:      "order_status_changed",
		OrderID:   orderID,
		OldStatus: oldStatus.String(),
		NewStatus: newStatus.String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(orderID),
		Value: payload,
	})
}

// Listener adapts the publisher to the store's subscription contract.
// Publish failures are logged; a lost notification must never corrupt
// order state.
func (p *KafkaStatusPublisher) Listener() service.StatusListener {
	return func(orderID string, oldStatus, newStatus domain.OrderStatus) {
		if err := p.PublishStatusChange(context.Background(), orderID, oldStatus, newStatus); err != nil {
			log.Printf("kafka: publishing status change for order %s: %v", orderID, err)
		}
	}
}
