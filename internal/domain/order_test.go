package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTax(t *testing.T) {
	tests := []struct {
		subtotal string
		expected string
	}{
		{subtotal: "4999.95", expected: "500.00"},
		{subtotal: "102.00", expected: "10.20"},
		{subtotal: "0.05", expected: "0.01"},
		{subtotal: "0.04", expected: "0.00"},
		{subtotal: "0", expected: "0"},
	}
	for _, test := range tests {
		t.Run(test.subtotal, func(t *testing.T) {
			got := ComputeTax(decimal.RequireFromString(test.subtotal))
			assert.True(t, decimal.RequireFromString(test.expected).Equal(got), "got %s", got)
		})
	}
}

func TestNewOrderFromCart(t *testing.T) {
	item := NewCartItem(CartItemFields{CartID: 1, Product: laptop, Quantity: 5})
	item.ID = 4
	cart := Cart{ID: 1, UserID: 7}
	cart.PutItem(item)
	orderDate := time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)

	order := NewOrderFromCart(cart, orderDate)

	assert.Equal(t, int64(7), order.UserID)
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, orderDate, order.OrderDate)
	assert.True(t, decimal.RequireFromString("4999.95").Equal(order.Subtotal))
	assert.True(t, decimal.RequireFromString("500.00").Equal(order.Tax))
	assert.True(t, decimal.RequireFromString("5499.95").Equal(order.TotalPrice))
	require.Len(t, order.Items, 1)
	assert.Zero(t, order.Items[0].ID)
	assert.Equal(t, laptop.ID, order.Items[0].ProductID)
	assert.Equal(t, "Laptop", order.Items[0].ProductName)
	assert.Len(t, cart.Items, 1)

	event := NewOrderCreated(order)
	assert.Equal(t, 1, event.ItemsCount)
	assert.True(t, order.TotalPrice.Equal(event.TotalPrice))
}
