package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hankjoberg-netizen/voltstore/internal/domain"
)

func TestNilPublisher_DropsEverything(t *testing.T) {
	var p *Publisher

	order := &domain.Order{ID: "o1"}
	assert.NoError(t, p.OrderCreated(context.Background(), order))
	assert.NoError(t, p.OrderPaid(context.Background(), order))
	assert.NoError(t, p.Close())
}

func TestOrderEvent_WireShape(t *testing.T) {
	event := OrderEvent{
		Type:              EventOrderPaid,
		OrderID:           "o1",
		ExternalSessionID: "cs_test_1",
		Total:             25.00,
		OccurredAt:        time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "order.paid",
		"order_id": "o1",
		"session_id": "cs_test_1",
		"total": 25,
		"occurred_at": "2026-01-02T03:04:05Z"
	}`, string(data))
}
