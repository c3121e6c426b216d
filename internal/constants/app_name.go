package constants

const (
	APP_MAIN_CHECKOUT        = "checkout"
	APP_CART_SERVICE         = "cart-service"
	APP_ORDER_SERVICE        = "order-service"
	APP_NOTIFICATION_SERVICE = "notification-service"
	APP_MIGRATE              = "migrate"
)

const (
	EVENT_ORDER_CREATED = "order.created"
)
