package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alturino/checkout/internal/config"
	"github.com/Alturino/checkout/internal/log"
)

const shutdownTimeout = 15 * time.Second

func NewServer(c context.Context, cfg config.Application, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      handler,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
}

// Serve blocks until c is cancelled or the listener fails, then shuts the
// server down gracefully.
func Serve(c context.Context, server *http.Server) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main Serve").
		Str(log.KeyProcess, "start server").
		Logger()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Msgf("start listening request at %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("error=%w occured while server is running", err)
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error().Err(err).Msg(err.Error())
		}
		return err
	case <-c.Done():
	}

	logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
	logger.Info().Msg("received interuption signal shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("shutdown http server")
	return <-serverErr
}
