package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/Alturino/checkout/internal/errors"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: errs.Wrap(errs.ErrCartNotFound, "userId=1"), want: http.StatusNotFound},
		{name: "bad request", err: errs.ErrInvalidQuantity, want: http.StatusBadRequest},
		{name: "illegal state", err: errs.ErrEmptyCart, want: http.StatusConflict},
		{
			name: "wrapped kind",
			err:  fmt.Errorf("failed checkout with error=%w", errs.ErrEmptyCart),
			want: http.StatusConflict,
		},
		{name: "unknown", err: errors.New("db down"), want: http.StatusInternalServerError},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, StatusCode(test.err))
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(context.Background(), rec, errs.ErrOrderNotOwned)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ValueHeaderApplicationJson, rec.Header().Get(KeyHeaderContentType))

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, StatusFailed, body["status"])
	assert.EqualValues(t, http.StatusConflict, body["statusCode"])
	assert.Equal(t, "order does not belong to user", body["message"])
}

func TestWriteErrorHidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(context.Background(), rec, fmt.Errorf("failed finding cart with error=%w", errors.New("pgx: connection refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, MessageInternalServerError, body["message"])
	assert.NotContains(t, rec.Body.String(), "pgx")
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteSuccess(context.Background(), rec, http.StatusCreated, "created order", map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, StatusSuccess, body["status"])
	assert.Equal(t, map[string]any{"id": float64(1)}, body["data"])
}
