package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/checkout/cart/pkg/request"
	"github.com/Alturino/checkout/cart/pkg/response"
	"github.com/Alturino/checkout/internal/cache"
	"github.com/Alturino/checkout/internal/domain"
	errs "github.com/Alturino/checkout/internal/errors"
	"github.com/Alturino/checkout/internal/log"
	"github.com/Alturino/checkout/internal/metrics"
	"github.com/Alturino/checkout/internal/otel"
)

type CartService struct {
	uow     domain.UnitOfWork
	cache   cache.Cache
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewCartService(
	uow domain.UnitOfWork,
	cache cache.Cache,
	metrics *metrics.Metrics,
) *CartService {
	return &CartService{uow: uow, cache: cache, metrics: metrics, now: time.Now}
}

func insufficientStock(p domain.Product) error {
	return errs.Wrap(errs.ErrInsufficientStock, "available %d", p.StockQuantity)
}

func (svc *CartService) observe(operation string, start time.Time, err error) {
	svc.metrics.Observe(operation, start, err, errs.KindOf(err).String())
}

// mutate runs fn against the locked cart of userID, recomputes and stores the
// total, and drops the cached view once the unit of work has committed.
func (svc *CartService) mutate(
	c context.Context,
	userID int64,
	fn func(tx domain.Tx, cart *domain.Cart) error,
) (domain.Cart, error) {
	var saved domain.Cart
	err := svc.uow.WithinTx(c, func(tx domain.Tx) error {
		cart, err := tx.Carts().LockCartByUserId(c, userID)
		if err != nil {
			return err
		}
		if err := fn(tx, &cart); err != nil {
			return err
		}
		cart.Recalculate()
		saved, err = tx.Carts().UpdateCart(c, cart)
		return err
	})
	if err != nil {
		return domain.Cart{}, err
	}
	cache.Invalidate(c, svc.cache, cache.CartKey(userID))
	return saved, nil
}

// CreateCart provisions the cart of a newly registered user. Calling it again
// returns the existing cart.
func (svc *CartService) CreateCart(c context.Context, userID int64) (res response.Cart, err error) {
	start := time.Now()
	c, span := otel.Tracer.Start(c, "CartService CreateCart")
	defer span.End()
	defer func() { svc.observe(metrics.OperationCreateCart, start, err) }()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService CreateCart").
		Int64(log.KeyUserID, userID).
		Str(log.KeyProcess, "inserting cart").
		Logger()

	logger.Info().Msg("inserting cart")
	var cart domain.Cart
	err = svc.uow.WithinTx(c, func(tx domain.Tx) error {
		var err error
		cart, err = tx.Carts().InsertCart(c, userID)
		return err
	})
	if err != nil {
		err = fmt.Errorf("failed inserting cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	cache.Invalidate(c, svc.cache, cache.CartKey(userID))
	logger.Info().Int64(log.KeyCartID, cart.ID).Msg("inserted cart")

	return response.FromDomain(cart), nil
}

func (svc *CartService) GetCart(c context.Context, userID int64) (res response.Cart, err error) {
	start := time.Now()
	c, span := otel.Tracer.Start(c, "CartService GetCart")
	defer span.End()
	defer func() { svc.observe(metrics.OperationGetCart, start, err) }()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService GetCart").
		Int64(log.KeyUserID, userID).
		Str(log.KeyProcess, "finding cart").
		Logger()

	logger.Info().Msg("finding cart")
	c = logger.WithContext(c)
	res, err = cache.Aside(c, svc.cache, cache.CartKey(userID), func(c context.Context) (response.Cart, error) {
		var cart domain.Cart
		err := svc.uow.WithinTx(c, func(tx domain.Tx) error {
			var err error
			cart, err = tx.Carts().FindCartByUserId(c, userID)
			return err
		})
		return response.FromDomain(cart), err
	})
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().
		Int64(log.KeyCartID, res.ID).
		Int(log.KeyCartItemsCount, res.TotalItemCount).
		Msg("found cart")

	return res, nil
}

// AddItem merges into an existing line for the same product. A new line takes
// the current catalog price, a merged line keeps the price it was added with.
func (svc *CartService) AddItem(
	c context.Context,
	userID int64,
	param request.AddCartItem,
) (res response.Cart, err error) {
	start := time.Now()
	c, span := otel.Tracer.Start(c, "CartService AddItem", trace.WithAttributes(
		attribute.Int64(log.KeyUserID, userID),
		attribute.Int64(log.KeyProductID, param.ProductID),
		attribute.Int(log.KeyProductQuantity, int(param.Quantity)),
	))
	defer span.End()
	defer func() { svc.observe(metrics.OperationAddItem, start, err) }()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Int64(log.KeyUserID, userID).
		Int64(log.KeyProductID, param.ProductID).
		Int32(log.KeyProductQuantity, param.Quantity).
		Str(log.KeyProcess, "validating quantity").
		Logger()

	if param.Quantity < 1 {
		err = errs.ErrInvalidQuantity
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "adding item to cart").Logger()
	logger.Info().Msg("adding item to cart")
	cart, err := svc.mutate(c, userID, func(tx domain.Tx, cart *domain.Cart) error {
		product, err := tx.Products().FindProductById(c, param.ProductID)
		if err != nil {
			return err
		}
		if !product.Active {
			return errs.ErrProductInactive
		}
		if !product.HasStock(param.Quantity) {
			return insufficientStock(product)
		}

		item, err := tx.Carts().FindCartItemByCartIdAndProductId(c, cart.ID, product.ID)
		switch {
		case err == nil:
			quantity := int64(item.Quantity) + int64(param.Quantity)
			if quantity > math.MaxInt32 {
				return errs.Wrap(errs.ErrQuantityTooLarge, "merged quantity %d", quantity)
			}
			if !product.HasStock(int32(quantity)) {
				return insufficientStock(product)
			}
			item.SetQuantity(int32(quantity))
		case errors.Is(err, errs.ErrCartItemNotFound):
			item = domain.NewCartItem(domain.CartItemFields{
				CartID:    cart.ID,
				Product:   product,
				Quantity:  param.Quantity,
				CreatedAt: svc.now(),
			})
		default:
			return err
		}

		saved, err := tx.Carts().UpsertCartItem(c, item)
		if err != nil {
			return err
		}
		cart.PutItem(saved)
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed adding item to cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().
		Int64(log.KeyCartID, cart.ID).
		Str(log.KeyCartTotalPrice, cart.TotalPrice.String()).
		Msg("added item to cart")

	return response.FromDomain(cart), nil
}

// UpdateItem sets the quantity of a line. The stored unit price is not
// refreshed from the catalog.
func (svc *CartService) UpdateItem(
	c context.Context,
	userID int64,
	param request.UpdateCartItem,
) (res response.Cart, err error) {
	start := time.Now()
	c, span := otel.Tracer.Start(c, "CartService UpdateItem", trace.WithAttributes(
		attribute.Int64(log.KeyUserID, userID),
		attribute.Int64(log.KeyCartItemID, param.ItemID),
		attribute.Int(log.KeyCartItemQuantity, int(param.Quantity)),
	))
	defer span.End()
	defer func() { svc.observe(metrics.OperationUpdateItem, start, err) }()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateItem").
		Int64(log.KeyUserID, userID).
		Int64(log.KeyCartItemID, param.ItemID).
		Int32(log.KeyCartItemQuantity, param.Quantity).
		Str(log.KeyProcess, "validating quantity").
		Logger()

	if param.Quantity < 1 {
		err = errs.ErrInvalidQuantity
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "updating cart item").Logger()
	logger.Info().Msg("updating cart item")
	cart, err := svc.mutate(c, userID, func(tx domain.Tx, cart *domain.Cart) error {
		item, err := tx.Carts().FindCartItemById(c, param.ItemID)
		if err != nil {
			return err
		}
		if item.CartID != cart.ID {
			return errs.ErrItemNotOwned
		}

		product, err := tx.Products().FindProductById(c, item.ProductID)
		if err != nil {
			return err
		}
		if !product.HasStock(param.Quantity) {
			return insufficientStock(product)
		}

		item.SetQuantity(param.Quantity)
		saved, err := tx.Carts().UpsertCartItem(c, item)
		if err != nil {
			return err
		}
		cart.PutItem(saved)
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed updating cart item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().
		Int64(log.KeyCartID, cart.ID).
		Str(log.KeyCartTotalPrice, cart.TotalPrice.String()).
		Msg("updated cart item")

	return response.FromDomain(cart), nil
}

func (svc *CartService) RemoveItem(
	c context.Context,
	userID int64,
	itemID int64,
) (res response.Cart, err error) {
	start := time.Now()
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()
	defer func() { svc.observe(metrics.OperationRemoveItem, start, err) }()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Int64(log.KeyUserID, userID).
		Int64(log.KeyCartItemID, itemID).
		Str(log.KeyProcess, "removing cart item").
		Logger()

	logger.Info().Msg("removing cart item")
	cart, err := svc.mutate(c, userID, func(tx domain.Tx, cart *domain.Cart) error {
		item, err := tx.Carts().FindCartItemById(c, itemID)
		if err != nil {
			return err
		}
		if item.CartID != cart.ID {
			return errs.ErrItemNotOwned
		}
		if err := tx.Carts().DeleteCartItem(c, item.ID); err != nil {
			return err
		}
		cart.RemoveItem(item.ID)
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed removing cart item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().
		Int64(log.KeyCartID, cart.ID).
		Str(log.KeyCartTotalPrice, cart.TotalPrice.String()).
		Msg("removed cart item")

	return response.FromDomain(cart), nil
}

func (svc *CartService) ClearCart(c context.Context, userID int64) (err error) {
	start := time.Now()
	c, span := otel.Tracer.Start(c, "CartService ClearCart")
	defer span.End()
	defer func() { svc.observe(metrics.OperationClearCart, start, err) }()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ClearCart").
		Int64(log.KeyUserID, userID).
		Str(log.KeyProcess, "clearing cart").
		Logger()

	logger.Info().Msg("clearing cart")
	cart, err := svc.mutate(c, userID, func(tx domain.Tx, cart *domain.Cart) error {
		if err := tx.Carts().DeleteCartItemsByCartId(c, cart.ID); err != nil {
			return err
		}
		cart.Clear()
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Int64(log.KeyCartID, cart.ID).Msg("cleared cart")

	return nil
}
