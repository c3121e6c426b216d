package cmd

import (
	"context"
	"fmt"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Alturino/checkout/cart/internal/controller"
	"github.com/Alturino/checkout/cart/internal/service"
	"github.com/Alturino/checkout/internal/cache"
	"github.com/Alturino/checkout/internal/config"
	"github.com/Alturino/checkout/internal/constants"
	inHttp "github.com/Alturino/checkout/internal/http"
	"github.com/Alturino/checkout/internal/infra"
	"github.com/Alturino/checkout/internal/log"
	"github.com/Alturino/checkout/internal/metrics"
	"github.com/Alturino/checkout/internal/middleware"
	"github.com/Alturino/checkout/internal/otel"
	"github.com/Alturino/checkout/internal/store/postgres"
)

func RunCartService(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunCartService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.APP_CART_SERVICE).
		Str(log.KeyTag, "main RunCartService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.APP_CART_SERVICE)
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.APP_CART_SERVICE, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		if err := otel.ShutdownOtel(context.WithoutCancel(c), otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	c = logger.WithContext(c)
	db := infra.NewDatabaseClient(c, cfg.Database)
	defer func() {
		logger.Info().Msg("shutting down database")
		db.Close()
		logger.Info().Msg("shutdown database")
	}()
	logger.Info().Msg("initialized database")

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

	logger = logger.With().Str(log.KeyProcess, "initializing cart service").Logger()
	logger.Info().Msg("initializing cart service")
	cartService := service.NewCartService(
		postgres.NewStore(db),
		cache.NewRedis(cacheClient, cfg.Cache.TTL),
		metrics.New(prometheus.DefaultRegisterer),
	)
	logger.Info().Msg("initialized cart service")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Use(otelmux.Middleware(constants.APP_CART_SERVICE), middleware.RecoverPanic, middleware.Logging)
	router.Handle("/metrics", otelhttp.NewHandler(promhttp.Handler(), "metrics"))
	api := router.NewRoute().Subrouter()
	api.Use(middleware.Auth(cfg.Auth))
	controller.AttachCartController(api, cartService)
	logger.Info().Msg("initialized router")

	c = logger.WithContext(c)
	if err := inHttp.Serve(c, inHttp.NewServer(c, cfg.Application, router)); err != nil {
		otel.RecordError(err, span)
	}
}
