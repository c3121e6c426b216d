package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID            int64
	Name          string
	Price         decimal.Decimal
	StockQuantity int32
	Active        bool
	ImageURL      string
}

func (p Product) HasStock(quantity int32) bool {
	return p.StockQuantity >= quantity
}
