package domain

import "context"

// ProductCatalog is the read side of the catalog plus the stock decrement used
// at checkout. Missing products yield errors.ErrProductNotFound.
type ProductCatalog interface {
	FindProductById(c context.Context, id int64) (Product, error)
	// ReserveStock decrements stock only when at least quantity units remain and
	// returns errors.ErrInsufficientStock otherwise.
	ReserveStock(c context.Context, id int64, quantity int32) error
}

// CartStore returns fully materialized carts, items included.
type CartStore interface {
	InsertCart(c context.Context, userID int64) (Cart, error)
	FindCartByUserId(c context.Context, userID int64) (Cart, error)
	// LockCartByUserId behaves like FindCartByUserId and additionally blocks other
	// units of work touching the same cart until the current one ends.
	LockCartByUserId(c context.Context, userID int64) (Cart, error)
	UpdateCart(c context.Context, cart Cart) (Cart, error)
	FindCartItemById(c context.Context, id int64) (CartItem, error)
	FindCartItemByCartIdAndProductId(c context.Context, cartID, productID int64) (CartItem, error)
	UpsertCartItem(c context.Context, item CartItem) (CartItem, error)
	DeleteCartItem(c context.Context, id int64) error
	DeleteCartItemsByCartId(c context.Context, cartID int64) error
}

// OrderStore is append only.
type OrderStore interface {
	InsertOrder(c context.Context, order Order) (Order, error)
	FindOrdersByUserId(c context.Context, userID int64) ([]Order, error)
	FindOrderById(c context.Context, id int64) (Order, error)
}

type Tx interface {
	Carts() CartStore
	Orders() OrderStore
	Products() ProductCatalog
}

// UnitOfWork commits only when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	WithinTx(c context.Context, fn func(tx Tx) error) error
}
