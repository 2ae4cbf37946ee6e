package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/hankjoberg-netizen/voltstore/internal/domain"
)

const ordersTopic = "voltstore.orders"

const (
	EventOrderCreated = "order.created"
	EventOrderPaid    = "order.paid"
)

type OrderEvent struct {
	Type              string    `json:"type"`
	OrderID           string    `json:"order_id"`
	ExternalSessionID string    `json:"session_id"`
	Total             float64   `json:"total"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// Publisher emits order lifecycle events to kafka. Publishing is strictly
// best-effort: a nil Publisher is valid and drops everything, and callers
// only log failures, an unreachable broker must never fail a checkout.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  ordersTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

func (p *Publisher) OrderCreated(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, EventOrderCreated, order)
}

func (p *Publisher) OrderPaid(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, EventOrderPaid, order)
}

func (p *Publisher) publish(ctx context.Context, eventType string, order *domain.Order) error {
	if p == nil {
		return nil
	}

	event := OrderEvent{
		Type:              eventType,
		OrderID:           order.ID,
		ExternalSessionID: order.ExternalSessionID,
		Total:             order.Total,
		OccurredAt:        time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write order event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
