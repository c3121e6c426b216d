package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/checkout/internal/domain"
	errs "github.com/Alturino/checkout/internal/errors"
	"github.com/Alturino/checkout/internal/log"
	"github.com/Alturino/checkout/internal/otel"
	"github.com/Alturino/checkout/internal/repository"
)

type Store struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, queries: repository.New(pool)}
}

var _ domain.UnitOfWork = (*Store)(nil)

func (s *Store) WithinTx(c context.Context, fn func(tx domain.Tx) error) error {
	c, span := otel.Tracer.Start(c, "postgres WithinTx")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "postgres WithinTx").
		Str(log.KeyProcess, "initializing transaction").
		Logger()

	logger.Trace().Msg("initializing transaction")
	dbTx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("initialized transaction")
	defer rollback(c, dbTx, span, logger)

	if err := fn(&tx{queries: s.queries.WithTx(dbTx)}); err != nil {
		return err
	}

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Trace().Msg("committing transaction")
	if err := dbTx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("committed transaction")
	return nil
}

func rollback(c context.Context, dbTx pgx.Tx, span trace.Span, logger zerolog.Logger) {
	logger = logger.With().Str(log.KeyProcess, "rolling back transaction").Logger()
	err := dbTx.Rollback(c)
	if err == nil {
		span.AddEvent("rolled back transaction")
		logger.Info().Msg("rolled back transaction")
		return
	}
	if errors.Is(err, pgx.ErrTxClosed) {
		return
	}
	err = fmt.Errorf("failed rolling back transaction with error=%w", err)
	otel.RecordError(err, span)
	logger.Error().Err(err).Msg(err.Error())
}

type tx struct {
	queries *repository.Queries
}

func (t *tx) Carts() domain.CartStore         { return cartStore{t.queries} }
func (t *tx) Orders() domain.OrderStore       { return orderStore{t.queries} }
func (t *tx) Products() domain.ProductCatalog { return productCatalog{t.queries} }

// notFound turns pgx.ErrNoRows into the given sentinel and wraps anything
// else as a plain database error.
func notFound(err error, sentinel *errs.Error, format string, args ...any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Wrap(sentinel, format, args...)
	}
	return fmt.Errorf("failed querying %s with error=%w", fmt.Sprintf(format, args...), err)
}

type productCatalog struct{ queries *repository.Queries }

func (p productCatalog) FindProductById(c context.Context, id int64) (domain.Product, error) {
	product, err := p.queries.FindProductById(c, id)
	if err != nil {
		return domain.Product{}, notFound(err, errs.ErrProductNotFound, "productId=%d", id)
	}
	return product.Domain(), nil
}

// ReserveStock relies on the guarded UPDATE, zero affected rows means the
// product is gone or short on stock.
func (p productCatalog) ReserveStock(c context.Context, id int64, quantity int32) error {
	affected, err := p.queries.DecrementProductStock(c, repository.DecrementProductStockParams{
		ID:            id,
		StockQuantity: quantity,
	})
	if err != nil {
		return fmt.Errorf("failed decrementing stock of productId=%d with error=%w", id, err)
	}
	if affected > 0 {
		return nil
	}
	product, err := p.FindProductById(c, id)
	if err != nil {
		return err
	}
	return errs.Wrap(errs.ErrInsufficientStock, "available %d", product.StockQuantity)
}

type cartStore struct{ queries *repository.Queries }

func (s cartStore) materialize(c context.Context, cart repository.Cart) (domain.Cart, error) {
	rows, err := s.queries.FindCartItemsByCartId(c, cart.ID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf(
			"failed finding items of cartId=%d with error=%w",
			cart.ID,
			err,
		)
	}
	items := make([]domain.CartItem, len(rows))
	for i, row := range rows {
		items[i] = row.Domain()
	}
	return cart.Domain(items), nil
}

// InsertCart falls back to the existing row when the user already has a cart,
// the insert uses ON CONFLICT DO NOTHING and returns no row in that case.
func (s cartStore) InsertCart(c context.Context, userID int64) (domain.Cart, error) {
	cart, err := s.queries.InsertCart(c, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.FindCartByUserId(c, userID)
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("failed inserting cart for userId=%d with error=%w", userID, err)
	}
	return cart.Domain(nil), nil
}

func (s cartStore) FindCartByUserId(c context.Context, userID int64) (domain.Cart, error) {
	cart, err := s.queries.FindCartByUserId(c, userID)
	if err != nil {
		return domain.Cart{}, notFound(err, errs.ErrCartNotFound, "userId=%d", userID)
	}
	return s.materialize(c, cart)
}

func (s cartStore) LockCartByUserId(c context.Context, userID int64) (domain.Cart, error) {
	cart, err := s.queries.LockCartByUserId(c, userID)
	if err != nil {
		return domain.Cart{}, notFound(err, errs.ErrCartNotFound, "userId=%d", userID)
	}
	return s.materialize(c, cart)
}

func (s cartStore) UpdateCart(c context.Context, cart domain.Cart) (domain.Cart, error) {
	updated, err := s.queries.UpdateCartTotalPrice(c, repository.UpdateCartTotalPriceParams{
		ID:         cart.ID,
		TotalPrice: repository.Numeric(cart.TotalPrice),
	})
	if err != nil {
		return domain.Cart{}, notFound(err, errs.ErrCartNotFound, "cartId=%d", cart.ID)
	}
	return s.materialize(c, updated)
}

func (s cartStore) FindCartItemById(c context.Context, id int64) (domain.CartItem, error) {
	row, err := s.queries.FindCartItemById(c, id)
	if err != nil {
		return domain.CartItem{}, notFound(err, errs.ErrCartItemNotFound, "cartItemId=%d", id)
	}
	return row.Domain(), nil
}

func (s cartStore) FindCartItemByCartIdAndProductId(
	c context.Context,
	cartID, productID int64,
) (domain.CartItem, error) {
	row, err := s.queries.FindCartItemByCartIdAndProductId(
		c,
		repository.FindCartItemByCartIdAndProductIdParams{CartID: cartID, ProductID: productID},
	)
	if err != nil {
		return domain.CartItem{}, notFound(
			err,
			errs.ErrCartItemNotFound,
			"cartId=%d productId=%d",
			cartID,
			productID,
		)
	}
	return row.Domain(), nil
}

func (s cartStore) UpsertCartItem(c context.Context, item domain.CartItem) (domain.CartItem, error) {
	if item.ID == 0 {
		inserted, err := s.queries.InsertCartItem(c, repository.InsertCartItemParams{
			CartID:    item.CartID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     repository.Numeric(item.Price),
			Subtotal:  repository.Numeric(item.Subtotal),
		})
		if err != nil {
			return domain.CartItem{}, fmt.Errorf(
				"failed inserting item of productId=%d into cartId=%d with error=%w",
				item.ProductID,
				item.CartID,
				err,
			)
		}
		return inserted.Domain(item.ProductName, item.ProductImageURL), nil
	}

	updated, err := s.queries.UpdateCartItemQuantity(c, repository.UpdateCartItemQuantityParams{
		ID:       item.ID,
		Quantity: item.Quantity,
		Subtotal: repository.Numeric(item.Subtotal),
	})
	if err != nil {
		return domain.CartItem{}, notFound(err, errs.ErrCartItemNotFound, "cartItemId=%d", item.ID)
	}
	return updated.Domain(item.ProductName, item.ProductImageURL), nil
}

func (s cartStore) DeleteCartItem(c context.Context, id int64) error {
	affected, err := s.queries.DeleteCartItemById(c, id)
	if err != nil {
		return fmt.Errorf("failed deleting cartItemId=%d with error=%w", id, err)
	}
	if affected == 0 {
		return errs.Wrap(errs.ErrCartItemNotFound, "cartItemId=%d", id)
	}
	return nil
}

func (s cartStore) DeleteCartItemsByCartId(c context.Context, cartID int64) error {
	if _, err := s.queries.DeleteCartItemsByCartId(c, cartID); err != nil {
		return fmt.Errorf("failed deleting items of cartId=%d with error=%w", cartID, err)
	}
	return nil
}

type orderStore struct{ queries *repository.Queries }

func (s orderStore) InsertOrder(c context.Context, order domain.Order) (domain.Order, error) {
	inserted, err := s.queries.InsertOrder(c, repository.InsertOrderParams{
		UserID:     order.UserID,
		OrderDate:  repository.Timestamptz(order.OrderDate),
		Subtotal:   repository.Numeric(order.Subtotal),
		Tax:        repository.Numeric(order.Tax),
		TotalPrice: repository.Numeric(order.TotalPrice),
		Status:     string(order.Status),
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed inserting order for userId=%d with error=%w", order.UserID, err)
	}

	items := make([]domain.OrderItem, len(order.Items))
	for i, item := range order.Items {
		insertedItem, err := s.queries.InsertOrderItem(c, repository.InsertOrderItemParams{
			OrderID:         inserted.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductImageUrl: item.ProductImageURL,
			Quantity:        item.Quantity,
			Price:           repository.Numeric(item.Price),
			Subtotal:        repository.Numeric(item.Subtotal),
		})
		if err != nil {
			return domain.Order{}, fmt.Errorf(
				"failed inserting item of productId=%d into orderId=%d with error=%w",
				item.ProductID,
				inserted.ID,
				err,
			)
		}
		items[i] = insertedItem.Domain()
	}
	return inserted.Domain(items), nil
}

func (s orderStore) itemsByOrder(c context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	byOrder := make(map[int64][]domain.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return byOrder, nil
	}
	rows, err := s.queries.FindOrderItemsByOrderIds(c, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed finding order items with error=%w", err)
	}
	for _, row := range rows {
		byOrder[row.OrderID] = append(byOrder[row.OrderID], row.Domain())
	}
	return byOrder, nil
}

func (s orderStore) FindOrdersByUserId(c context.Context, userID int64) ([]domain.Order, error) {
	rows, err := s.queries.FindOrdersByUserId(c, userID)
	if err != nil {
		return nil, fmt.Errorf("failed finding orders of userId=%d with error=%w", userID, err)
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	items, err := s.itemsByOrder(c, ids)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, len(rows))
	for i, row := range rows {
		orders[i] = row.Domain(items[row.ID])
	}
	return orders, nil
}

func (s orderStore) FindOrderById(c context.Context, id int64) (domain.Order, error) {
	row, err := s.queries.FindOrderById(c, id)
	if err != nil {
		return domain.Order{}, notFound(err, errs.ErrOrderNotFound, "orderId=%d", id)
	}
	items, err := s.itemsByOrder(c, []int64{id})
	if err != nil {
		return domain.Order{}, err
	}
	return row.Domain(items[id]), nil
}
