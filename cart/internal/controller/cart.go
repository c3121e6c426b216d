package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/checkout/cart/internal/service"
	"github.com/Alturino/checkout/cart/pkg/request"
	"github.com/Alturino/checkout/internal"
	inHttp "github.com/Alturino/checkout/internal/http"
	"github.com/Alturino/checkout/internal/log"
	"github.com/Alturino/checkout/internal/otel"
)

type CartController struct {
	service  *service.CartService
	validate *validator.Validate
}

func AttachCartController(router *mux.Router, service *service.CartService) {
	controller := CartController{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	carts := router.PathPrefix("/carts").Subrouter()
	carts.HandleFunc("", controller.CreateCart).Methods(http.MethodPost)
	carts.HandleFunc("", controller.GetCart).Methods(http.MethodGet)
	carts.HandleFunc("", controller.ClearCart).Methods(http.MethodDelete)
	carts.HandleFunc("/items", controller.AddItem).Methods(http.MethodPost)
	carts.HandleFunc("/items/{itemId}", controller.UpdateItem).Methods(http.MethodPut)
	carts.HandleFunc("/items/{itemId}", controller.RemoveItem).Methods(http.MethodDelete)
}

func pathInt64(r *http.Request, name string) (int64, error) {
	value := mux.Vars(r)[name]
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed parsing %s=%s with error=%w", name, value, err)
	}
	return id, nil
}

func (ctrl CartController) CreateCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController CreateCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController CreateCart").
		Str(log.KeyProcess, "getting userId from jwtToken").
		Logger()

	userID, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from jwtToken with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusUnauthorized, err.Error())
		return
	}
	logger = logger.With().Int64(log.KeyUserID, userID).Str(log.KeyProcess, "creating cart").Logger()

	logger.Info().Msg("creating cart")
	c = logger.WithContext(c)
	cart, err := ctrl.service.CreateCart(c, userID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Int64(log.KeyCartID, cart.ID).Msg("created cart")

	inHttp.WriteSuccess(c, w, http.StatusCreated, "cart created", cart)
}

func (ctrl CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController GetCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController GetCart").
		Str(log.KeyProcess, "getting userId from jwtToken").
		Logger()

	userID, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from jwtToken with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusUnauthorized, err.Error())
		return
	}
	logger = logger.With().Int64(log.KeyUserID, userID).Str(log.KeyProcess, "finding cart").Logger()

	logger.Info().Msg("finding cart")
	c = logger.WithContext(c)
	cart, err := ctrl.service.GetCart(c, userID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("found cart")

	inHttp.WriteSuccess(c, w, http.StatusOK, "cart found", cart)
}

func (ctrl CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController AddItem").
		Str(log.KeyProcess, "decoding request body").
		Logger()

	logger.Trace().Msg("decoding request body")
	reqBody := request.AddCartItem{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusBadRequest, err.Error())
		return
	}

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	if err := ctrl.validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusBadRequest, err.Error())
		return
	}
	logger.Trace().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "getting userId from jwtToken").Logger()
	userID, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from jwtToken with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusUnauthorized, err.Error())
		return
	}
	logger = logger.With().
		Int64(log.KeyUserID, userID).
		Str(log.KeyProcess, "adding item to cart").
		Logger()

	logger.Info().Msg("adding item to cart")
	c = logger.WithContext(c)
	cart, err := ctrl.service.AddItem(c, userID, reqBody)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("added item to cart")

	inHttp.WriteSuccess(c, w, http.StatusOK, "item added to cart", cart)
}

func (ctrl CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController UpdateItem").
		Str(log.KeyProcess, "parsing request").
		Logger()

	itemID, err := pathInt64(r, "itemId")
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusBadRequest, err.Error())
		return
	}
	rawQuantity := r.URL.Query().Get("quantity")
	quantity, err := strconv.ParseInt(rawQuantity, 10, 32)
	if err != nil {
		err = fmt.Errorf("failed parsing quantity=%s with error=%w", rawQuantity, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusBadRequest, err.Error())
		return
	}
	param := request.UpdateCartItem{ItemID: itemID, Quantity: int32(quantity)}
	if err := ctrl.validate.StructCtx(c, param); err != nil {
		err = fmt.Errorf("failed validating request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusBadRequest, err.Error())
		return
	}

	logger = logger.With().Str(log.KeyProcess, "getting userId from jwtToken").Logger()
	userID, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from jwtToken with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusUnauthorized, err.Error())
		return
	}
	logger = logger.With().
		Int64(log.KeyUserID, userID).
		Int64(log.KeyCartItemID, itemID).
		Str(log.KeyProcess, "updating cart item").
		Logger()

	logger.Info().Msg("updating cart item")
	c = logger.WithContext(c)
	cart, err := ctrl.service.UpdateItem(c, userID, param)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("updated cart item")

	inHttp.WriteSuccess(c, w, http.StatusOK, "cart item updated", cart)
}

func (ctrl CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController RemoveItem").
		Str(log.KeyProcess, "parsing itemId").
		Logger()

	itemID, err := pathInt64(r, "itemId")
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusBadRequest, err.Error())
		return
	}

	logger = logger.With().Str(log.KeyProcess, "getting userId from jwtToken").Logger()
	userID, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from jwtToken with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusUnauthorized, err.Error())
		return
	}
	logger = logger.With().
		Int64(log.KeyUserID, userID).
		Int64(log.KeyCartItemID, itemID).
		Str(log.KeyProcess, "removing cart item").
		Logger()

	logger.Info().Msg("removing cart item")
	c = logger.WithContext(c)
	cart, err := ctrl.service.RemoveItem(c, userID, itemID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("removed cart item")

	inHttp.WriteSuccess(c, w, http.StatusOK, "item removed from cart", cart)
}

func (ctrl CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ClearCart").
		Str(log.KeyProcess, "getting userId from jwtToken").
		Logger()

	userID, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId from jwtToken with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusUnauthorized, err.Error())
		return
	}
	logger = logger.With().Int64(log.KeyUserID, userID).Str(log.KeyProcess, "clearing cart").Logger()

	logger.Info().Msg("clearing cart")
	c = logger.WithContext(c)
	if err := ctrl.service.ClearCart(c, userID); err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("cleared cart")

	inHttp.WriteSuccess(c, w, http.StatusOK, "cart cleared", nil)
}
