package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/checkout/internal"
	"github.com/Alturino/checkout/internal/config"
	inHttp "github.com/Alturino/checkout/internal/http"
	"github.com/Alturino/checkout/internal/log"
)

var authConfig = config.Auth{SecretKey: "secret", Issuer: "user-service", Audience: "audience-user"}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    authConfig.Issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{authConfig.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte(authConfig.SecretKey))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuth(t *testing.T) {
	var gotUserID int64
	handler := Auth(authConfig)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := internal.UserIdFromJwtToken(r.Context())
		require.NoError(t, err)
		gotUserID = userID
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name          string
		authorization string
		wantStatus    int
	}{
		{name: "valid bearer", authorization: bearer(t, "7"), wantStatus: http.StatusNoContent},
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authorization: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", authorization: "Bearer abc", wantStatus: http.StatusUnauthorized},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/carts", nil)
			if test.authorization != "" {
				req.Header.Set(inHttp.KeyHeaderAuthorization, test.authorization)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, test.wantStatus, rec.Code)
		})
	}
	assert.EqualValues(t, 7, gotUserID)
}

func TestLoggingAttachesRequestID(t *testing.T) {
	var requestID string
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = log.RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/carts/items", strings.NewReader(`{"productId":1}`))
	req.Header.Set(inHttp.KeyHeaderRequestID, "req-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, "req-1", rec.Header().Get(inHttp.KeyHeaderRequestID))
}

func TestRecoverPanic(t *testing.T) {
	handler := RecoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
