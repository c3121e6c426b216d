package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderCreated is broadcast after a checkout commits.
type OrderCreated struct {
	OrderID    int64           `json:"orderId"`
	UserID     int64           `json:"userId"`
	OrderDate  time.Time       `json:"orderDate"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	ItemsCount int             `json:"itemsCount"`
}

func NewOrderCreated(o Order) OrderCreated {
	return OrderCreated{
		OrderID:    o.ID,
		UserID:     o.UserID,
		OrderDate:  o.OrderDate,
		TotalPrice: o.TotalPrice,
		ItemsCount: len(o.Items),
	}
}
