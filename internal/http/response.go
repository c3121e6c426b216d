package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Alturino/checkout/internal/errors"
	"github.com/Alturino/checkout/internal/log"
	"github.com/Alturino/checkout/internal/otel"
)

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	header map[string]string,
	body map[string]interface{},
) {
	c, span := otel.Tracer.Start(c, "WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "WriteJsonResponse").Logger()

	w.Header().Set(KeyHeaderContentType, ValueHeaderApplicationJson)
	for k, v := range header {
		w.Header().Add(k, v)
	}

	if v, ok := body["statusCode"].(int); ok {
		w.WriteHeader(v)
	}

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
}

func WriteSuccess(c context.Context, w http.ResponseWriter, statusCode int, message string, data any) {
	WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     StatusSuccess,
		"statusCode": statusCode,
		"message":    message,
		"data":       data,
	})
}

// WriteError picks the status from the error kind and uses the error text as
// the message. Errors without a kind get a generic message.
func WriteError(c context.Context, w http.ResponseWriter, err error) {
	statusCode := StatusCode(err)
	if statusCode == http.StatusInternalServerError {
		WriteFailure(c, w, statusCode, MessageInternalServerError)
		return
	}
	WriteFailure(c, w, statusCode, errors.Message(err))
}

func WriteFailure(c context.Context, w http.ResponseWriter, statusCode int, message string) {
	WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     StatusFailed,
		"statusCode": statusCode,
		"message":    message,
	})
}

func StatusCode(err error) int {
	switch errors.KindOf(err) {
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindBadRequest:
		return http.StatusBadRequest
	case errors.KindIllegalState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
