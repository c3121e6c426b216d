package listener

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/checkout/internal/constants"
	"github.com/Alturino/checkout/internal/domain"
	"github.com/Alturino/checkout/notification/internal/service"
)

func TestOrderCreatedListener(t *testing.T) {
	payload, err := json.Marshal(domain.OrderCreated{
		OrderID:    42,
		UserID:     7,
		OrderDate:  time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC),
		TotalPrice: decimal.RequireFromString("5499.95"),
		ItemsCount: 1,
	})
	require.NoError(t, err)

	messages := make(chan *redis.Message, 2)
	messages <- &redis.Message{Channel: constants.EVENT_ORDER_CREATED, Payload: "not json"}
	messages <- &redis.Message{Channel: constants.EVENT_ORDER_CREATED, Payload: string(payload)}
	close(messages)

	buf := &bytes.Buffer{}
	c := zerolog.New(buf).WithContext(context.Background())

	err = NewOrderCreatedListener(service.NewNotificationService(), messages).Start(c)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var sent []map[string]any
	failed := 0
	for _, line := range lines {
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		switch entry["message"] {
		case "sent order confirmation":
			sent = append(sent, entry)
		default:
			if entry["level"] == "error" {
				failed++
			}
		}
	}
	assert.Equal(t, 1, failed)
	require.Len(t, sent, 1)
	assert.EqualValues(t, 42, sent[0]["orderId"])
	assert.EqualValues(t, 7, sent[0]["userId"])
	assert.Equal(t, "5499.95", sent[0]["orderTotalPrice"])
}

func TestOrderCreatedListenerStopsOnCancel(t *testing.T) {
	c, cancel := context.WithCancel(context.Background())
	messages := make(chan *redis.Message)
	done := make(chan error, 1)

	go func() {
		done <- NewOrderCreatedListener(service.NewNotificationService(), messages).Start(c)
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("listener did not stop after cancel")
	}
}
