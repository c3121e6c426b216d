package http

const (
	KeyHeaderContentType       = "Content-Type"
	KeyHeaderRequestID         = "X-Request-Id"
	KeyHeaderAuthorization     = "Authorization"
	ValueHeaderApplicationJson = "application/json"
	ValueAuthorizationBearer   = "bearer "
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

const MessageInternalServerError = "internal server error"
