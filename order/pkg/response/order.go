package response

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alturino/checkout/internal/domain"
)

type OrderItem struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductImageURL string          `json:"productImageUrl"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int32           `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

type Order struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"userId"`
	OrderDate  time.Time       `json:"orderDate"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     string          `json:"status"`
	Items      []OrderItem     `json:"items"`
}

func FromDomain(o domain.Order) Order {
	items := make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItem{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductImageURL: item.ProductImageURL,
			Price:           item.Price,
			Quantity:        item.Quantity,
			Subtotal:        item.Subtotal,
		}
	}
	return Order{
		ID:         o.ID,
		UserID:     o.UserID,
		OrderDate:  o.OrderDate,
		Subtotal:   o.Subtotal,
		Tax:        o.Tax,
		TotalPrice: o.TotalPrice,
		Status:     string(o.Status),
		Items:      items,
	}
}

func FromDomains(orders []domain.Order) []Order {
	res := make([]Order, len(orders))
	for i, o := range orders {
		res[i] = FromDomain(o)
	}
	return res
}
