package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Alturino/checkout/internal/domain"
	"github.com/Alturino/checkout/internal/log"
	"github.com/Alturino/checkout/internal/otel"
)

type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyOrderCreated emits the order confirmation for the user who placed the
// order. Delivery is a structured log line for now.
func (svc *NotificationService) NotifyOrderCreated(c context.Context, event domain.OrderCreated) {
	_, span := otel.Tracer.Start(c, "NotificationService NotifyOrderCreated")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationService NotifyOrderCreated").
		Str(log.KeyProcess, "sending order confirmation").
		Int64(log.KeyOrderID, event.OrderID).
		Int64(log.KeyUserID, event.UserID).
		Int(log.KeyOrderItemsCount, event.ItemsCount).
		Str(log.KeyOrderTotalPrice, event.TotalPrice.String()).
		Time("orderDate", event.OrderDate).
		Logger()

	logger.Info().Msg("sent order confirmation")
}
