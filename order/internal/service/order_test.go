package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/checkout/internal/cache"
	"github.com/Alturino/checkout/internal/constants"
	"github.com/Alturino/checkout/internal/domain"
	errs "github.com/Alturino/checkout/internal/errors"
	"github.com/Alturino/checkout/internal/metrics"
	"github.com/Alturino/checkout/internal/store/memory"
)

const (
	userID      int64 = 1
	otherUserID int64 = 2
	laptopID    int64 = 10
	mouseID     int64 = 11
)

type published struct {
	channel string
	message any
}

type recordingCache struct {
	cache.Noop
	mu     sync.Mutex
	events []published
}

func (r *recordingCache) Publish(_ context.Context, channel string, message any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{channel: channel, message: message})
	return nil
}

type line struct {
	productID int64
	quantity  int32
}

func setup(t *testing.T) (*OrderService, *memory.Store, *recordingCache) {
	t.Helper()
	store := memory.NewStore()
	store.PutProduct(domain.Product{
		ID:            laptopID,
		Name:          "Laptop",
		Price:         decimal.RequireFromString("999.99"),
		StockQuantity: 10,
		Active:        true,
	})
	store.PutProduct(domain.Product{
		ID:            mouseID,
		Name:          "Mouse",
		Price:         decimal.RequireFromString("25.50"),
		StockQuantity: 100,
		Active:        true,
	})

	events := &recordingCache{}
	svc := NewOrderService(store, events, metrics.New(prometheus.NewRegistry()))
	return svc, store, events
}

func seedCart(t *testing.T, store *memory.Store, userID int64, lines ...line) {
	t.Helper()
	c := context.Background()
	err := store.WithinTx(c, func(tx domain.Tx) error {
		cart, err := tx.Carts().InsertCart(c, userID)
		if err != nil {
			return err
		}
		for _, l := range lines {
			product, err := tx.Products().FindProductById(c, l.productID)
			if err != nil {
				return err
			}
			item, err := tx.Carts().UpsertCartItem(c, domain.NewCartItem(domain.CartItemFields{
				CartID:    cart.ID,
				Product:   product,
				Quantity:  l.quantity,
				CreatedAt: time.Now(),
			}))
			if err != nil {
				return err
			}
			cart.PutItem(item)
		}
		cart.Recalculate()
		_, err = tx.Carts().UpdateCart(c, cart)
		return err
	})
	require.NoError(t, err)
}

func findCart(t *testing.T, store *memory.Store, userID int64) domain.Cart {
	t.Helper()
	c := context.Background()
	var cart domain.Cart
	err := store.WithinTx(c, func(tx domain.Tx) error {
		var err error
		cart, err = tx.Carts().FindCartByUserId(c, userID)
		return err
	})
	require.NoError(t, err)
	return cart
}

func TestCreateOrderFromCart(t *testing.T) {
	svc, store, events := setup(t)
	seedCart(t, store, userID, line{productID: laptopID, quantity: 5})
	orderDate := time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return orderDate }

	order, err := svc.CreateOrderFromCart(context.Background(), userID)
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, string(domain.OrderStatusPending), order.Status)
	assert.True(t, orderDate.Equal(order.OrderDate))
	assert.True(t, decimal.RequireFromString("4999.95").Equal(order.Subtotal), order.Subtotal.String())
	assert.True(t, decimal.RequireFromString("500.00").Equal(order.Tax), order.Tax.String())
	assert.True(t, decimal.RequireFromString("5499.95").Equal(order.TotalPrice), order.TotalPrice.String())
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Laptop", order.Items[0].ProductName)
	assert.EqualValues(t, 5, order.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("999.99").Equal(order.Items[0].Price))

	cart := findCart(t, store, userID)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalPrice.IsZero())

	laptop, ok := store.Product(laptopID)
	require.True(t, ok)
	assert.EqualValues(t, 5, laptop.StockQuantity)

	require.Len(t, events.events, 1)
	assert.Equal(t, constants.EVENT_ORDER_CREATED, events.events[0].channel)
	event, ok := events.events[0].message.(domain.OrderCreated)
	require.True(t, ok)
	assert.Equal(t, order.ID, event.OrderID)
	assert.Equal(t, 1, event.ItemsCount)
}

func TestCreateOrderFromEmptyCart(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, store *memory.Store)
	}{
		{
			name:  "given cart without items should fail",
			setup: func(t *testing.T, store *memory.Store) { seedCart(t, store, userID) },
		},
		{
			name:  "given user without cart should fail",
			setup: func(*testing.T, *memory.Store) {},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc, store, events := setup(t)
			test.setup(t, store)

			_, err := svc.CreateOrderFromCart(context.Background(), userID)

			require.ErrorIs(t, err, errs.ErrEmptyCart)
			assert.Equal(t, errs.KindIllegalState, errs.KindOf(err))
			assert.Equal(t, "cannot create order from empty cart", errs.Message(err))
			assert.Zero(t, store.OrderCount())
			assert.Empty(t, events.events)
		})
	}
}

func TestCreateOrderWithInsufficientStockRollsBack(t *testing.T) {
	svc, store, events := setup(t)
	seedCart(t, store, userID,
		line{productID: mouseID, quantity: 2},
		line{productID: laptopID, quantity: 5},
	)
	laptop, _ := store.Product(laptopID)
	laptop.StockQuantity = 3
	store.PutProduct(laptop)

	_, err := svc.CreateOrderFromCart(context.Background(), userID)

	require.ErrorIs(t, err, errs.ErrInsufficientStock)
	assert.Equal(t, errs.KindBadRequest, errs.KindOf(err))
	assert.Zero(t, store.OrderCount())
	assert.Empty(t, events.events)

	mouse, _ := store.Product(mouseID)
	assert.EqualValues(t, 100, mouse.StockQuantity)
	laptop, _ = store.Product(laptopID)
	assert.EqualValues(t, 3, laptop.StockQuantity)
	assert.Len(t, findCart(t, store, userID).Items, 2)
}

func TestGetUserOrders(t *testing.T) {
	svc, store, _ := setup(t)
	c := context.Background()
	base := time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)

	var ids []int64
	for i := range 3 {
		seedCart(t, store, userID, line{productID: mouseID, quantity: int32(i + 1)})
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		order, err := svc.CreateOrderFromCart(c, userID)
		require.NoError(t, err)
		ids = append(ids, order.ID)
	}

	orders, err := svc.GetUserOrders(c, userID)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, []int64{orders[0].ID, orders[1].ID, orders[2].ID})

	orders, err = svc.GetUserOrders(c, otherUserID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestGetOrderById(t *testing.T) {
	svc, store, _ := setup(t)
	c := context.Background()
	seedCart(t, store, userID, line{productID: mouseID, quantity: 4})
	created, err := svc.CreateOrderFromCart(c, userID)
	require.NoError(t, err)

	t.Run("given owner should return order", func(t *testing.T) {
		order, err := svc.GetOrderById(c, created.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, order.ID)
		assert.True(t, decimal.RequireFromString("102.00").Equal(order.Subtotal))
		assert.True(t, decimal.RequireFromString("10.20").Equal(order.Tax))
		assert.True(t, decimal.RequireFromString("112.20").Equal(order.TotalPrice))
	})

	t.Run("given other user should fail", func(t *testing.T) {
		_, err := svc.GetOrderById(c, created.ID, otherUserID)
		require.ErrorIs(t, err, errs.ErrOrderNotOwned)
		assert.Equal(t, errs.KindIllegalState, errs.KindOf(err))
	})

	t.Run("given unknown order should fail", func(t *testing.T) {
		_, err := svc.GetOrderById(c, created.ID+100, userID)
		require.ErrorIs(t, err, errs.ErrOrderNotFound)
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})
}
