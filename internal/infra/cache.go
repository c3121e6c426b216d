package infra

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Alturino/checkout/internal/config"
	"github.com/Alturino/checkout/internal/log"
	"github.com/Alturino/checkout/internal/otel"
)

func NewCacheClient(c context.Context, cfg config.Cache) *redis.Client {
	c, span := otel.Tracer.Start(c, "main NewCacheClient")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main NewCacheClient").
		Str(log.KeyProcess, "initializing redis client").
		Logger()

	logger.Info().Msg("initializing redis client")
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.Database,
	})
	logger.Info().Msg("initialized redis client")

	logger = logger.With().Str(log.KeyProcess, "initializing redis otel").Logger()
	if err := redisotel.InstrumentTracing(client, redisotel.WithAttributes(semconv.DBSystemRedis)); err != nil {
		err = fmt.Errorf("failed initializing otel redis tracing with error=%w", err)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	if err := redisotel.InstrumentMetrics(client, redisotel.WithAttributes(semconv.DBSystemRedis)); err != nil {
		err = fmt.Errorf("failed initializing otel redis metric with error=%w", err)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("initialized redis otel")

	logger = logger.With().Str(log.KeyProcess, "pinging connection to redis").Logger()
	if err := client.Ping(c).Err(); err != nil {
		err = fmt.Errorf("failed to pinging to redis with error=%w", err)
		otel.RecordError(err, span)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("pinged connection to redis")

	return client
}
