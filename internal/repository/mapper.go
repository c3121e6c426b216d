package repository

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/Alturino/checkout/internal/domain"
)

func Numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:              d.Coefficient(),
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		NaN:              false,
		Valid:            true,
	}
}

func Decimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func Timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, InfinityModifier: pgtype.Finite, Valid: true}
}

func (p Product) Domain() domain.Product {
	return domain.Product{
		ID:            p.ID,
		Name:          p.Name,
		Price:         Decimal(p.Price),
		StockQuantity: p.StockQuantity,
		Active:        p.Active,
		ImageURL:      p.ImageUrl,
	}
}

func (c Cart) Domain(items []domain.CartItem) domain.Cart {
	if items == nil {
		items = []domain.CartItem{}
	}
	return domain.Cart{
		ID:         c.ID,
		UserID:     c.UserID,
		Items:      items,
		TotalPrice: Decimal(c.TotalPrice),
		CreatedAt:  c.CreatedAt.Time,
		UpdatedAt:  c.UpdatedAt.Time,
	}
}

func (i CartItem) Domain(productName, productImageUrl string) domain.CartItem {
	return domain.CartItem{
		ID:              i.ID,
		CartID:          i.CartID,
		ProductID:       i.ProductID,
		ProductName:     productName,
		ProductImageURL: productImageUrl,
		Quantity:        i.Quantity,
		Price:           Decimal(i.Price),
		Subtotal:        Decimal(i.Subtotal),
		CreatedAt:       i.CreatedAt.Time,
		UpdatedAt:       i.UpdatedAt.Time,
	}
}

func (r FindCartItemsByCartIdRow) Domain() domain.CartItem {
	return CartItem{
		ID:        r.ID,
		CartID:    r.CartID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		Price:     r.Price,
		Subtotal:  r.Subtotal,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}.Domain(r.ProductName, r.ProductImageUrl)
}

func (r FindCartItemByIdRow) Domain() domain.CartItem {
	return FindCartItemsByCartIdRow(r).Domain()
}

func (r FindCartItemByCartIdAndProductIdRow) Domain() domain.CartItem {
	return FindCartItemsByCartIdRow(r).Domain()
}

func (o Order) Domain(items []domain.OrderItem) domain.Order {
	if items == nil {
		items = []domain.OrderItem{}
	}
	return domain.Order{
		ID:         o.ID,
		UserID:     o.UserID,
		OrderDate:  o.OrderDate.Time,
		Subtotal:   Decimal(o.Subtotal),
		Tax:        Decimal(o.Tax),
		TotalPrice: Decimal(o.TotalPrice),
		Status:     domain.OrderStatus(o.Status),
		Items:      items,
	}
}

func (i OrderItem) Domain() domain.OrderItem {
	return domain.OrderItem{
		ID:              i.ID,
		OrderID:         i.OrderID,
		ProductID:       i.ProductID,
		ProductName:     i.ProductName,
		ProductImageURL: i.ProductImageUrl,
		Quantity:        i.Quantity,
		Price:           Decimal(i.Price),
		Subtotal:        Decimal(i.Subtotal),
	}
}
