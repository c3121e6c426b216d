package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/checkout/internal/cache"
	"github.com/Alturino/checkout/internal/constants"
	"github.com/Alturino/checkout/internal/domain"
	errs "github.com/Alturino/checkout/internal/errors"
	"github.com/Alturino/checkout/internal/log"
	"github.com/Alturino/checkout/internal/metrics"
	"github.com/Alturino/checkout/internal/otel"
	"github.com/Alturino/checkout/order/pkg/response"
)

type OrderService struct {
	uow     domain.UnitOfWork
	cache   cache.Cache
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewOrderService(
	uow domain.UnitOfWork,
	cache cache.Cache,
	metrics *metrics.Metrics,
) *OrderService {
	return &OrderService{uow: uow, cache: cache, metrics: metrics, now: time.Now}
}

func (svc *OrderService) observe(operation string, start time.Time, err error) {
	svc.metrics.Observe(operation, start, err, errs.KindOf(err).String())
}

// CreateOrderFromCart turns the cart of userID into a pending order in a single
// unit of work. Stock is decremented per line and the cart is left empty.
func (svc *OrderService) CreateOrderFromCart(c context.Context, userID int64) (res response.Order, err error) {
	start := time.Now()
	c, span := otel.Tracer.Start(c, "OrderService CreateOrderFromCart", trace.WithAttributes(
		attribute.Int64(log.KeyUserID, userID),
	))
	defer span.End()
	defer func() { svc.observe(metrics.OperationCheckout, start, err) }()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService CreateOrderFromCart").
		Int64(log.KeyUserID, userID).
		Str(log.KeyProcess, "creating order from cart").
		Logger()

	logger.Info().Msg("creating order from cart")
	var order domain.Order
	err = svc.uow.WithinTx(c, func(tx domain.Tx) error {
		cart, err := tx.Carts().LockCartByUserId(c, userID)
		if err != nil {
			if errors.Is(err, errs.ErrCartNotFound) {
				return errs.ErrEmptyCart
			}
			return err
		}
		if cart.IsEmpty() {
			return errs.ErrEmptyCart
		}

		for _, item := range cart.Items {
			if err := tx.Products().ReserveStock(c, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("failed reserving productId=%d with error=%w", item.ProductID, err)
			}
		}

		order, err = tx.Orders().InsertOrder(c, domain.NewOrderFromCart(cart, svc.now()))
		if err != nil {
			return err
		}

		if err := tx.Carts().DeleteCartItemsByCartId(c, cart.ID); err != nil {
			return err
		}
		cart.Clear()
		_, err = tx.Carts().UpdateCart(c, cart)
		return err
	})
	if err != nil {
		err = fmt.Errorf("failed creating order from cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger = logger.With().
		Int64(log.KeyOrderID, order.ID).
		Int(log.KeyOrderItemsCount, len(order.Items)).
		Str(log.KeyOrderSubtotal, order.Subtotal.String()).
		Str(log.KeyOrderTax, order.Tax.String()).
		Str(log.KeyOrderTotalPrice, order.TotalPrice.String()).
		Logger()
	logger.Info().Msg("created order from cart")

	c = logger.WithContext(c)
	cache.Invalidate(c, svc.cache, cache.CartKey(userID), cache.OrdersKey(userID))
	svc.metrics.OrderCreated(order.TotalPrice.InexactFloat64())

	logger = logger.With().
		Str(log.KeyProcess, "publishing order created").
		Str(log.KeyEventChannel, constants.EVENT_ORDER_CREATED).
		Logger()
	if err := svc.cache.Publish(c, constants.EVENT_ORDER_CREATED, domain.NewOrderCreated(order)); err != nil {
		err = fmt.Errorf("failed publishing order created with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
	} else {
		logger.Debug().Msg("published order created")
	}

	return response.FromDomain(order), nil
}

// GetUserOrders lists the orders of userID, newest first.
func (svc *OrderService) GetUserOrders(c context.Context, userID int64) (res []response.Order, err error) {
	start := time.Now()
	c, span := otel.Tracer.Start(c, "OrderService GetUserOrders")
	defer span.End()
	defer func() { svc.observe(metrics.OperationGetOrders, start, err) }()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService GetUserOrders").
		Int64(log.KeyUserID, userID).
		Str(log.KeyProcess, "finding orders").
		Logger()

	logger.Info().Msg("finding orders")
	c = logger.WithContext(c)
	res, err = cache.Aside(c, svc.cache, cache.OrdersKey(userID), func(c context.Context) ([]response.Order, error) {
		var orders []domain.Order
		err := svc.uow.WithinTx(c, func(tx domain.Tx) error {
			var err error
			orders, err = tx.Orders().FindOrdersByUserId(c, userID)
			return err
		})
		return response.FromDomains(orders), err
	})
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int(log.KeyOrdersCount, len(res)).Msg("found orders")

	return res, nil
}

// GetOrderById returns the order only when it was placed by userID.
func (svc *OrderService) GetOrderById(
	c context.Context,
	orderID int64,
	userID int64,
) (res response.Order, err error) {
	start := time.Now()
	c, span := otel.Tracer.Start(c, "OrderService GetOrderById", trace.WithAttributes(
		attribute.Int64(log.KeyOrderID, orderID),
		attribute.Int64(log.KeyUserID, userID),
	))
	defer span.End()
	defer func() { svc.observe(metrics.OperationGetOrder, start, err) }()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService GetOrderById").
		Int64(log.KeyOrderID, orderID).
		Int64(log.KeyUserID, userID).
		Str(log.KeyProcess, "finding order").
		Logger()

	logger.Info().Msg("finding order")
	c = logger.WithContext(c)
	res, err = cache.Aside(c, svc.cache, cache.OrderKey(orderID), func(c context.Context) (response.Order, error) {
		var order domain.Order
		err := svc.uow.WithinTx(c, func(tx domain.Tx) error {
			var err error
			order, err = tx.Orders().FindOrderById(c, orderID)
			return err
		})
		return response.FromDomain(order), err
	})
	if err != nil {
		err = fmt.Errorf("failed finding order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "checking order owner").Logger()
	if res.UserID != userID {
		err = errs.Wrap(errs.ErrOrderNotOwned, "orderId=%d", orderID)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("found order")

	return res, nil
}
