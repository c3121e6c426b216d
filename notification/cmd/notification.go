package cmd

import (
	"context"
	"fmt"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Alturino/checkout/internal/config"
	"github.com/Alturino/checkout/internal/constants"
	inHttp "github.com/Alturino/checkout/internal/http"
	"github.com/Alturino/checkout/internal/infra"
	"github.com/Alturino/checkout/internal/log"
	"github.com/Alturino/checkout/internal/middleware"
	"github.com/Alturino/checkout/internal/otel"
	"github.com/Alturino/checkout/notification/internal/listener"
	"github.com/Alturino/checkout/notification/internal/service"
)

func RunNotificationService(c context.Context) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.APP_NOTIFICATION_SERVICE).
		Str(log.KeyTag, "main RunNotificationService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.APP_NOTIFICATION_SERVICE)
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	shutdownFuncs, err := otel.InitOtelSdk(c, constants.APP_NOTIFICATION_SERVICE, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		if err := otel.ShutdownOtel(context.WithoutCancel(c), shutdownFuncs); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cacheClient := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		logger.Info().Msg("shutting down cache")
		if err := cacheClient.Close(); err != nil {
			err = fmt.Errorf("failed shutting down cache with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown cache")
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().
		Str(log.KeyProcess, "subscribing order created").
		Str(log.KeyEventChannel, constants.EVENT_ORDER_CREATED).
		Logger()
	logger.Info().Msg("subscribing order created")
	pubsub := cacheClient.Subscribe(c, constants.EVENT_ORDER_CREATED)
	defer pubsub.Close()
	if _, err := pubsub.Receive(c); err != nil {
		err = fmt.Errorf("failed subscribing order created with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("subscribed order created")

	router := mux.NewRouter()
	router.Use(middleware.RecoverPanic, middleware.Logging)
	router.Handle("/metrics", promhttp.Handler())

	c = logger.WithContext(c)
	orderCreated := listener.NewOrderCreatedListener(service.NewNotificationService(), pubsub.Channel())
	g, gc := errgroup.WithContext(c)
	g.Go(func() error { return orderCreated.Start(gc) })
	g.Go(func() error { return inHttp.Serve(gc, inHttp.NewServer(gc, cfg.Application, router)) })
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("notification service completely shutdown")
}
