package infra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Alturino/checkout/internal/config"
	"github.com/Alturino/checkout/internal/log"
)

const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

func NewDatabaseClient(c context.Context, dbConfig config.Database) *pgxpool.Pool {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main NewDatabaseClient").
		Str(log.KeyProcess, "initializing pgx config").
		Logger()

	logger.Info().Msg("initializing pgx config")
	pgxConfig, err := pgxpool.ParseConfig(dbConfig.URL())
	if err != nil {
		err = fmt.Errorf("failed creating pgx config with error=%w", err)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	if dbConfig.MaxConnections > 0 {
		pgxConfig.MaxConns = dbConfig.MaxConnections
	}
	if dbConfig.MinConnections > 0 {
		pgxConfig.MinConns = dbConfig.MinConnections
	}
	pgxConfig.MaxConnLifetime = 15 * time.Minute
	pgxConfig.MaxConnIdleTime = 5 * time.Minute
	pgxConfig.ConnConfig.Tracer = otelpgx.NewTracer(
		otelpgx.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	logger.Info().Msg("initialized pgx config")

	logger = logger.With().Str(log.KeyProcess, "creating connection pool").Logger()
	logger.Info().Msg("creating connection pool")
	pool, err := pgxpool.NewWithConfig(c, pgxConfig)
	if err != nil {
		err = fmt.Errorf("failed creating connection pool with error=%w", err)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("created connection pool")

	logger = logger.With().Str(log.KeyProcess, "ping db").Logger()
	logger.Info().Msg("ping db")
	if err = pool.Ping(c); err != nil {
		err = fmt.Errorf("failed ping db with error=%w", err)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("successed ping db")

	if err = Migrate(c, dbConfig, MigrateUp); err != nil {
		logger.Fatal().Err(err).Msg(err.Error())
	}

	return pool
}

// Migrate runs the golang-migrate files at dbConfig.MigrationPath through the
// lib/pq driver.
func Migrate(c context.Context, dbConfig config.Database, direction string) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main Migrate").
		Str(log.KeyProcess, "migration "+direction).
		Logger()

	db, err := sql.Open("postgres", dbConfig.URL())
	if err != nil {
		return fmt.Errorf("failed opening sql.DB for migration with error=%w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed creating postgres driver to do migration with error=%w", err)
	}

	migration, err := migrate.NewWithDatabaseInstance(dbConfig.MigrationPath, dbConfig.Name, driver)
	if err != nil {
		return fmt.Errorf("failed initializing migration with error=%w", err)
	}

	logger.Info().Msg("migration " + direction)
	switch direction {
	case MigrateUp:
		err = migration.Up()
	case MigrateDown:
		err = migration.Down()
	default:
		return fmt.Errorf("unknown migration direction=%s", direction)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed migration %s with error=%w", direction, err)
	}
	logger.Info().Msg("successed migration " + direction)
	return nil
}
