package request

type AddCartItem struct {
	ProductID int64 `validate:"required,gt=0" json:"productId"`
	Quantity  int32 `json:"quantity"`
}

type UpdateCartItem struct {
	ItemID   int64 `validate:"required,gt=0"`
	Quantity int32
}
