package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/checkout/cart/internal/service"
	"github.com/Alturino/checkout/cart/pkg/response"
	"github.com/Alturino/checkout/internal/cache"
	"github.com/Alturino/checkout/internal/config"
	"github.com/Alturino/checkout/internal/domain"
	"github.com/Alturino/checkout/internal/metrics"
	"github.com/Alturino/checkout/internal/middleware"
	"github.com/Alturino/checkout/internal/store/memory"
)

var authConfig = config.Auth{SecretKey: "secret", Issuer: "user-service", Audience: "audience-user"}

type envelope struct {
	Status     string        `json:"status"`
	StatusCode int           `json:"statusCode"`
	Message    string        `json:"message"`
	Data       response.Cart `json:"data"`
}

func newRouter(t *testing.T) *mux.Router {
	t.Helper()
	store := memory.NewStore()
	store.PutProduct(domain.Product{
		ID:            1,
		Name:          "Laptop",
		Price:         decimal.RequireFromString("999.99"),
		StockQuantity: 10,
		Active:        true,
	})
	svc := service.NewCartService(store, cache.Noop{}, metrics.New(prometheus.NewRegistry()))

	router := mux.NewRouter()
	router.Use(middleware.Auth(authConfig))
	AttachCartController(router, svc)
	return router
}

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

func do(t *testing.T, router http.Handler, method, target, body, subject string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", bearer(t, subject))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	got := envelope{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return rec.Code, got
}

func TestCartController(t *testing.T) {
	router := newRouter(t)

	code, body := do(t, router, http.MethodGet, "/carts", "", "7")
	assert.Equal(t, http.StatusNotFound, code, "cart not provisioned yet")

	code, body = do(t, router, http.MethodPost, "/carts", "", "7")
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "cart created", body.Message)
	cartID := body.Data.ID

	code, body = do(t, router, http.MethodPost, "/carts", "", "7")
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, cartID, body.Data.ID, "provisioning twice returns the same cart")

	code, body = do(t, router, http.MethodGet, "/carts", "", "7")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, cartID, body.Data.ID)
	assert.Equal(t, "success", body.Status)
	assert.Empty(t, body.Data.Items)

	code, body = do(t, router, http.MethodPost, "/carts/items", `{"productId":1,"quantity":2}`, "7")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body.Data.Items, 1)
	assert.True(t, decimal.RequireFromString("1999.98").Equal(body.Data.TotalPrice))
	assert.Equal(t, 1, body.Data.TotalItemCount)
	itemID := body.Data.Items[0].ID

	code, body = do(t, router, http.MethodPost, "/carts/items", `{"productId":1,"quantity":20}`, "7")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "failed", body.Status)
	assert.Contains(t, body.Message, "insufficient stock")

	code, body = do(t, router, http.MethodPut, "/carts/items/"+itoa(itemID)+"?quantity=3", "", "7")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, body.Data.Items[0].Quantity)

	code, _ = do(t, router, http.MethodPut, "/carts/items/"+itoa(itemID)+"?quantity=abc", "", "7")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, router, http.MethodDelete, "/carts/items/"+itoa(itemID), "", "8")
	assert.Equal(t, http.StatusNotFound, code, "user 8 has no cart")

	code, body = do(t, router, http.MethodDelete, "/carts/items/"+itoa(itemID), "", "7")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body.Data.Items)

	code, _ = do(t, router, http.MethodDelete, "/carts/items/999", "", "7")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, router, http.MethodDelete, "/carts", "", "7")
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, router, http.MethodPost, "/carts/items", `{"quantity":2}`, "7")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCartControllerRequiresToken(t *testing.T) {
	router := newRouter(t)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/carts", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
