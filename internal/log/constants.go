package log

const (
	KeyAppName            = "app"
	KeyRequestID          = "requestId"
	KeyTraceID            = "traceId"
	KeySpanID             = "spanId"
	KeyProcess            = "process"
	KeyToken              = "token"
	KeyTag                = "tag"
	KeyRequest            = "request"
	KeyRequestBody        = "requestBody"
	KeyRequestHeader      = "requestHeader"
	KeyRequestHost        = "host"
	KeyRequestIp          = "requesterIP"
	KeyRequestMethod      = "requestMethod"
	KeyRequestProcessedAt = "requestProcessedAt"
	KeyRequestURI         = "requestURI"
	KeyRequestURL         = "requestURL"
	KeyConfig             = "config"
	KeyDbURL              = "dbUrl"
	KeyCacheKey           = "cacheKey"

	KeyUserID           = "userId"
	KeyCartID           = "cartId"
	KeyCartItemID       = "cartItemId"
	KeyCartItemQuantity = "cartItemQuantity"
	KeyCartItemsCount   = "cartItemsCount"
	KeyCartTotalPrice   = "cartTotalPrice"
	KeyProductID        = "productId"
	KeyProductQuantity  = "productQuantity"
	KeyOrderID          = "orderId"
	KeyOrderItemsCount  = "orderItemsCount"
	KeyOrderSubtotal    = "orderSubtotal"
	KeyOrderTax         = "orderTax"
	KeyOrderTotalPrice  = "orderTotalPrice"
	KeyOrdersCount      = "ordersCount"
	KeyEventChannel     = "eventChannel"
)
