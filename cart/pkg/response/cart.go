package response

import (
	"github.com/shopspring/decimal"

	"github.com/Alturino/checkout/internal/domain"
)

type CartItem struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductImageURL string          `json:"productImageUrl"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int32           `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

type Cart struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"userId"`
	Items          []CartItem      `json:"items"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
	TotalItemCount int             `json:"totalItemCount"`
}

// FromDomain counts lines, not units, in TotalItemCount.
func FromDomain(cart domain.Cart) Cart {
	items := make([]CartItem, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItem{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductImageURL: item.ProductImageURL,
			Price:           item.Price,
			Quantity:        item.Quantity,
			Subtotal:        item.Subtotal,
		}
	}
	return Cart{
		ID:             cart.ID,
		UserID:         cart.UserID,
		Items:          items,
		TotalPrice:     cart.TotalPrice,
		TotalItemCount: len(items),
	}
}
