package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/checkout/internal"
	"github.com/Alturino/checkout/internal/config"
	"github.com/Alturino/checkout/internal/errors"
	inHttp "github.com/Alturino/checkout/internal/http"
	"github.com/Alturino/checkout/internal/log"
)

// Auth verifies the bearer token and attaches it to the request context for
// internal.UserIdFromJwtToken.
func Auth(cfg config.Auth) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).With().Str(log.KeyTag, "middleware Auth").Logger()
			c := logger.WithContext(r.Context())

			authorization := r.Header.Get(inHttp.KeyHeaderAuthorization)
			prefix := len(inHttp.ValueAuthorizationBearer)
			if len(authorization) <= prefix ||
				!strings.EqualFold(authorization[:prefix], inHttp.ValueAuthorizationBearer) {
				logger.Error().Err(errors.ErrEmptyAuth).Msg(errors.ErrEmptyAuth.Error())
				inHttp.WriteFailure(c, w, http.StatusUnauthorized, errors.ErrEmptyAuth.Error())
				return
			}

			token, err := internal.VerifyToken(c, authorization[prefix:], cfg)
			if err != nil {
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteFailure(c, w, http.StatusUnauthorized, errors.ErrTokenInvalid.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(internal.AttachJwtToken(c, token)))
		})
	}
}
