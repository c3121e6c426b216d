package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alturino/checkout/internal/domain"
	errs "github.com/Alturino/checkout/internal/errors"
)

type state struct {
	products     map[int64]domain.Product
	carts        map[int64]domain.Cart
	cartIDByUser map[int64]int64
	cartItems    map[int64]domain.CartItem
	orders       map[int64]domain.Order

	nextCartID      int64
	nextCartItemID  int64
	nextOrderID     int64
	nextOrderItemID int64
}

func newState() *state {
	return &state{
		products:     map[int64]domain.Product{},
		carts:        map[int64]domain.Cart{},
		cartIDByUser: map[int64]int64{},
		cartItems:    map[int64]domain.CartItem{},
		orders:       map[int64]domain.Order{},
	}
}

func (s *state) clone() *state {
	cp := &state{
		products:        make(map[int64]domain.Product, len(s.products)),
		carts:           make(map[int64]domain.Cart, len(s.carts)),
		cartIDByUser:    make(map[int64]int64, len(s.cartIDByUser)),
		cartItems:       make(map[int64]domain.CartItem, len(s.cartItems)),
		orders:          make(map[int64]domain.Order, len(s.orders)),
		nextCartID:      s.nextCartID,
		nextCartItemID:  s.nextCartItemID,
		nextOrderID:     s.nextOrderID,
		nextOrderItemID: s.nextOrderItemID,
	}
	for k, v := range s.products {
		cp.products[k] = v
	}
	for k, v := range s.carts {
		cp.carts[k] = v
	}
	for k, v := range s.cartIDByUser {
		cp.cartIDByUser[k] = v
	}
	for k, v := range s.cartItems {
		cp.cartItems[k] = v
	}
	for k, v := range s.orders {
		v.Items = append([]domain.OrderItem(nil), v.Items...)
		cp.orders[k] = v
	}
	return cp
}

// Store keeps everything in process. A unit of work holds the store lock and
// mutates a private copy that replaces the live state only on success, so
// concurrent units of work are serialised and failed ones leave no trace.
type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{state: newState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) WithinTx(c context.Context, fn func(tx domain.Tx) error) error {
	if err := c.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&tx{state: snapshot, now: s.now}); err != nil {
		return err
	}
	s.state = snapshot
	return nil
}

// PutProduct seeds or replaces a catalog entry.
func (s *Store) PutProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.products[p.ID] = p
}

func (s *Store) Product(id int64) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.state.products[id]
	return p, ok
}

func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.orders)
}

type tx struct {
	state *state
	now   func() time.Time
}

func (t *tx) Carts() domain.CartStore         { return cartStore{t} }
func (t *tx) Orders() domain.OrderStore       { return orderStore{t} }
func (t *tx) Products() domain.ProductCatalog { return productCatalog{t} }

var _ domain.UnitOfWork = (*Store)(nil)

type productCatalog struct{ *tx }

func (p productCatalog) FindProductById(_ context.Context, id int64) (domain.Product, error) {
	product, ok := p.state.products[id]
	if !ok {
		return domain.Product{}, errs.Wrap(errs.ErrProductNotFound, "productId=%d", id)
	}
	return product, nil
}

func (p productCatalog) ReserveStock(_ context.Context, id int64, quantity int32) error {
	product, ok := p.state.products[id]
	if !ok {
		return errs.Wrap(errs.ErrProductNotFound, "productId=%d", id)
	}
	if !product.HasStock(quantity) {
		return errs.Wrap(errs.ErrInsufficientStock, "available %d", product.StockQuantity)
	}
	product.StockQuantity -= quantity
	p.state.products[id] = product
	return nil
}

type cartStore struct{ *tx }

func (s cartStore) materializeItem(item domain.CartItem) domain.CartItem {
	if product, ok := s.state.products[item.ProductID]; ok {
		item.ProductName = product.Name
		item.ProductImageURL = product.ImageURL
	}
	return item
}

func (s cartStore) materialize(cart domain.Cart) domain.Cart {
	items := []domain.CartItem{}
	for _, item := range s.state.cartItems {
		if item.CartID == cart.ID {
			items = append(items, s.materializeItem(item))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	cart.Items = items
	return cart
}

func (s cartStore) InsertCart(_ context.Context, userID int64) (domain.Cart, error) {
	if id, ok := s.state.cartIDByUser[userID]; ok {
		return s.materialize(s.state.carts[id]), nil
	}
	s.state.nextCartID++
	now := s.now()
	cart := domain.Cart{
		ID:         s.state.nextCartID,
		UserID:     userID,
		TotalPrice: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.state.carts[cart.ID] = cart
	s.state.cartIDByUser[userID] = cart.ID
	return s.materialize(cart), nil
}

func (s cartStore) FindCartByUserId(_ context.Context, userID int64) (domain.Cart, error) {
	id, ok := s.state.cartIDByUser[userID]
	if !ok {
		return domain.Cart{}, errs.Wrap(errs.ErrCartNotFound, "userId=%d", userID)
	}
	return s.materialize(s.state.carts[id]), nil
}

func (s cartStore) LockCartByUserId(c context.Context, userID int64) (domain.Cart, error) {
	return s.FindCartByUserId(c, userID)
}

func (s cartStore) UpdateCart(_ context.Context, cart domain.Cart) (domain.Cart, error) {
	stored, ok := s.state.carts[cart.ID]
	if !ok {
		return domain.Cart{}, errs.Wrap(errs.ErrCartNotFound, "cartId=%d", cart.ID)
	}
	stored.TotalPrice = cart.TotalPrice
	stored.UpdatedAt = s.now()
	s.state.carts[stored.ID] = stored
	return s.materialize(stored), nil
}

func (s cartStore) FindCartItemById(_ context.Context, id int64) (domain.CartItem, error) {
	item, ok := s.state.cartItems[id]
	if !ok {
		return domain.CartItem{}, errs.Wrap(errs.ErrCartItemNotFound, "cartItemId=%d", id)
	}
	return s.materializeItem(item), nil
}

func (s cartStore) FindCartItemByCartIdAndProductId(
	_ context.Context,
	cartID, productID int64,
) (domain.CartItem, error) {
	for _, item := range s.state.cartItems {
		if item.CartID == cartID && item.ProductID == productID {
			return s.materializeItem(item), nil
		}
	}
	return domain.CartItem{}, errs.Wrap(
		errs.ErrCartItemNotFound,
		"cartId=%d productId=%d",
		cartID,
		productID,
	)
}

// UpsertCartItem inserts when item.ID is zero. Updates only touch quantity and
// subtotal, the stored price is never overwritten.
func (s cartStore) UpsertCartItem(_ context.Context, item domain.CartItem) (domain.CartItem, error) {
	now := s.now()
	if item.ID == 0 {
		if _, ok := s.state.carts[item.CartID]; !ok {
			return domain.CartItem{}, errs.Wrap(errs.ErrCartNotFound, "cartId=%d", item.CartID)
		}
		for _, existing := range s.state.cartItems {
			if existing.CartID == item.CartID && existing.ProductID == item.ProductID {
				return domain.CartItem{}, errs.BadRequest(
					"cart item for productId=%d already exists in cartId=%d",
					item.ProductID,
					item.CartID,
				)
			}
		}
		s.state.nextCartItemID++
		item.ID = s.state.nextCartItemID
		item.CreatedAt = now
		item.UpdatedAt = now
		s.state.cartItems[item.ID] = item
		return s.materializeItem(item), nil
	}

	stored, ok := s.state.cartItems[item.ID]
	if !ok {
		return domain.CartItem{}, errs.Wrap(errs.ErrCartItemNotFound, "cartItemId=%d", item.ID)
	}
	stored.SetQuantity(item.Quantity)
	stored.UpdatedAt = now
	s.state.cartItems[stored.ID] = stored
	return s.materializeItem(stored), nil
}

func (s cartStore) DeleteCartItem(_ context.Context, id int64) error {
	if _, ok := s.state.cartItems[id]; !ok {
		return errs.Wrap(errs.ErrCartItemNotFound, "cartItemId=%d", id)
	}
	delete(s.state.cartItems, id)
	return nil
}

func (s cartStore) DeleteCartItemsByCartId(_ context.Context, cartID int64) error {
	for id, item := range s.state.cartItems {
		if item.CartID == cartID {
			delete(s.state.cartItems, id)
		}
	}
	return nil
}

type orderStore struct{ *tx }

func (s orderStore) InsertOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	s.state.nextOrderID++
	order.ID = s.state.nextOrderID
	items := make([]domain.OrderItem, len(order.Items))
	for i, item := range order.Items {
		s.state.nextOrderItemID++
		item.ID = s.state.nextOrderItemID
		item.OrderID = order.ID
		items[i] = item
	}
	order.Items = items
	s.state.orders[order.ID] = order

	out := order
	out.Items = append([]domain.OrderItem(nil), items...)
	return out, nil
}

func (s orderStore) FindOrdersByUserId(_ context.Context, userID int64) ([]domain.Order, error) {
	orders := []domain.Order{}
	for _, order := range s.state.orders {
		if order.UserID != userID {
			continue
		}
		order.Items = append([]domain.OrderItem(nil), order.Items...)
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].OrderDate.Equal(orders[j].OrderDate) {
			return orders[i].OrderDate.After(orders[j].OrderDate)
		}
		return orders[i].ID > orders[j].ID
	})
	return orders, nil
}

func (s orderStore) FindOrderById(_ context.Context, id int64) (domain.Order, error) {
	order, ok := s.state.orders[id]
	if !ok {
		return domain.Order{}, errs.Wrap(errs.ErrOrderNotFound, "orderId=%d", id)
	}
	order.Items = append([]domain.OrderItem(nil), order.Items...)
	return order, nil
}
