// Command edge serves the client-facing proxy in front of the bookstore API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookstore/bookstore/internal/edge"
	"github.com/bookstore/bookstore/internal/infrastructure/config"
	"github.com/bookstore/bookstore/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadEdge(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "bookstore-edge",
	})
	if cfg.IsDevelopment() {
		log.Warn().Msg("development mode: canned responses are served when the backend is unavailable")
	}

	backend := edge.NewBackend(edge.BackendConfig{BaseURL: cfg.BackendURL, Timeout: cfg.Timeout})
	e := edge.NewRouter(edge.RouterDeps{
		Proxy:         edge.NewProxy(backend, edge.NewFallbackPolicy(cfg.IsDevelopment()), log),
		Backend:       backend,
		Log:           log,
		Development:   cfg.IsDevelopment(),
		AuthRateLimit: cfg.RateLimit,
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("backend", cfg.BackendURL).Msg("edge listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("edge server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
