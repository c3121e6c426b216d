package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID         int64
	UserID     int64
	Items      []CartItem
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CartItem struct {
	ID        int64
	CartID    int64
	ProductID int64
	// ProductName and ProductImageURL are read from the catalog on fetch, they are
	// not stored on the item.
	ProductName     string
	ProductImageURL string
	Quantity        int32
	Price           decimal.Decimal
	Subtotal        decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CartItemFields struct {
	CartID    int64
	Product   Product
	Quantity  int32
	CreatedAt time.Time
}

// NewCartItem snapshots the current product price into a new line.
func NewCartItem(f CartItemFields) CartItem {
	item := CartItem{
		CartID:          f.CartID,
		ProductID:       f.Product.ID,
		ProductName:     f.Product.Name,
		ProductImageURL: f.Product.ImageURL,
		Price:           f.Product.Price,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.CreatedAt,
	}
	item.SetQuantity(f.Quantity)
	return item
}

// SetQuantity keeps the price snapshot and only recomputes the subtotal.
func (i *CartItem) SetQuantity(quantity int32) {
	i.Quantity = quantity
	i.Subtotal = i.Price.Mul(decimal.NewFromInt32(quantity))
}

func (c *Cart) Recalculate() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal)
	}
	c.TotalPrice = total
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// PutItem replaces the line with the same id or appends a new one, then
// recomputes the total.
func (c *Cart) PutItem(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ID == item.ID {
			c.Items[i] = item
			c.Recalculate()
			return
		}
	}
	c.Items = append(c.Items, item)
	c.Recalculate()
}

func (c *Cart) RemoveItem(id int64) {
	items := c.Items[:0]
	for _, item := range c.Items {
		if item.ID != id {
			items = append(items, item)
		}
	}
	c.Items = items
	c.Recalculate()
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.TotalPrice = decimal.Zero
}
