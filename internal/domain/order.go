package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// OrderStatusPending is the only status produced here. The remaining values
// belong to fulfillment and are listed so stored orders round trip.
const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

var TaxRate = decimal.RequireFromString("0.10")

const moneyScale = 2

type Order struct {
	ID         int64
	UserID     int64
	OrderDate  time.Time
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	TotalPrice decimal.Decimal
	Status     OrderStatus
	Items      []OrderItem
}

type OrderItem struct {
	ID              int64
	OrderID         int64
	ProductID       int64
	ProductName     string
	ProductImageURL string
	Quantity        int32
	Price           decimal.Decimal
	Subtotal        decimal.Decimal
}

// ComputeTax rounds half-up to cents.
func ComputeTax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(moneyScale)
}

// NewOrderFromCart copies every cart line into a frozen order item. The cart is
// not modified.
func NewOrderFromCart(cart Cart, orderDate time.Time) Order {
	subtotal := cart.TotalPrice
	tax := ComputeTax(subtotal)
	items := make([]OrderItem, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = OrderItem{
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductImageURL: item.ProductImageURL,
			Quantity:        item.Quantity,
			Price:           item.Price,
			Subtotal:        item.Subtotal,
		}
	}
	return Order{
		UserID:     cart.UserID,
		OrderDate:  orderDate,
		Subtotal:   subtotal,
		Tax:        tax,
		TotalPrice: subtotal.Add(tax),
		Status:     OrderStatusPending,
		Items:      items,
	}
}
