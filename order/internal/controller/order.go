package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/checkout/internal"
	inHttp "github.com/Alturino/checkout/internal/http"
	"github.com/Alturino/checkout/internal/log"
	"github.com/Alturino/checkout/internal/otel"
	"github.com/Alturino/checkout/order/internal/service"
)

type OrderController struct {
	service *service.OrderService
}

func AttachOrderController(router *mux.Router, service *service.OrderService) {
	controller := OrderController{service: service}

	orders := router.PathPrefix("/orders").Subrouter()
	orders.HandleFunc("", controller.CreateOrder).Methods(http.MethodPost)
	orders.HandleFunc("", controller.FindOrders).Methods(http.MethodGet)
	orders.HandleFunc("/{orderId}", controller.FindOrderById).Methods(http.MethodGet)
}

func (ctrl OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController CreateOrder").
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
	logger = logger.With().Int64(log.KeyUserID, userID).Str(log.KeyProcess, "checking out cart").Logger()

	logger.Info().Msg("checking out cart")
	c = logger.WithContext(c)
	order, err := ctrl.service.CreateOrderFromCart(c, userID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Int64(log.KeyOrderID, order.ID).Msg("checked out cart")

	inHttp.WriteSuccess(c, w, http.StatusCreated, "order created", order)
}

func (ctrl OrderController) FindOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindOrders").
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
	logger = logger.With().Int64(log.KeyUserID, userID).Str(log.KeyProcess, "finding orders").Logger()

	logger.Info().Msg("finding orders")
	c = logger.WithContext(c)
	orders, err := ctrl.service.GetUserOrders(c, userID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Int(log.KeyOrdersCount, len(orders)).Msg("found orders")

	inHttp.WriteSuccess(c, w, http.StatusOK, "orders found", orders)
}

func (ctrl OrderController) FindOrderById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindOrderById").
		Str(log.KeyProcess, "validating orderId").
		Logger()

	rawOrderID := mux.Vars(r)["orderId"]
	orderID, err := strconv.ParseInt(rawOrderID, 10, 64)
	if err != nil {
		err = fmt.Errorf("failed validating orderId=%s with error=%w", rawOrderID, err)
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
		Int64(log.KeyOrderID, orderID).
		Str(log.KeyProcess, "finding order").
		Logger()

	logger.Info().Msg("finding order")
	c = logger.WithContext(c)
	order, err := ctrl.service.GetOrderById(c, orderID, userID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("found order")

	inHttp.WriteSuccess(c, w, http.StatusOK, "order found", order)
}
