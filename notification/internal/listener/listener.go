package listener

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/checkout/internal/domain"
	"github.com/Alturino/checkout/internal/log"
	"github.com/Alturino/checkout/notification/internal/service"
)

type OrderCreatedListener struct {
	svc      *service.NotificationService
	messages <-chan *redis.Message
}

func NewOrderCreatedListener(
	svc *service.NotificationService,
	messages <-chan *redis.Message,
) *OrderCreatedListener {
	return &OrderCreatedListener{svc: svc, messages: messages}
}

// Start consumes messages until c is done or the channel is closed. Messages
// that fail to decode are logged and skipped.
func (l *OrderCreatedListener) Start(c context.Context) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderCreatedListener Start").
		Str(log.KeyProcess, "consuming order created").
		Logger()

	logger.Info().Msg("start consuming order created")
	for {
		select {
		case <-c.Done():
			logger.Info().Msg("stop consuming order created")
			return nil
		case msg, ok := <-l.messages:
			if !ok {
				logger.Info().Msg("subscription closed")
				return nil
			}
			requestID := uuid.NewString()
			msgLogger := logger.With().
				Str(log.KeyRequestID, requestID).
				Str(log.KeyEventChannel, msg.Channel).
				Logger()
			mc := log.AttachRequestIDToContext(msgLogger.WithContext(c), requestID)

			event := domain.OrderCreated{}
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				err = fmt.Errorf("failed decoding order created with error=%w", err)
				msgLogger.Error().Err(err).Msg(err.Error())
				continue
			}
			l.svc.NotifyOrderCreated(mc, event)
		}
	}
}
