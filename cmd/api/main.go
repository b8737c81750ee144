// Command api serves the bookstore REST API.
//
// @title           Bookstore API
// @version         1.0
// @description     Catalog CRUD with email/password auth and admin-gated writes.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
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

	"github.com/rs/zerolog"

	"github.com/bookstore/bookstore/internal/api"
	"github.com/bookstore/bookstore/internal/api/handler"
	"github.com/bookstore/bookstore/internal/api/metrics"
	"github.com/bookstore/bookstore/internal/core/ports"
	"github.com/bookstore/bookstore/internal/core/service"
	"github.com/bookstore/bookstore/internal/infrastructure/config"
	"github.com/bookstore/bookstore/internal/infrastructure/db/memory"
	dbmongo "github.com/bookstore/bookstore/internal/infrastructure/db/mongo"
	dbredis "github.com/bookstore/bookstore/internal/infrastructure/db/redis"
	"github.com/bookstore/bookstore/internal/infrastructure/db/resilient"
	"github.com/bookstore/bookstore/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "bookstore-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("api stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.IsDevelopment())
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	for _, w := range cfg.Warnings() {
		log.Warn().Msg(w)
	}

	var (
		users   ports.UserRepository
		catalog ports.BookRepository
		checks  []handler.Check
	)

	switch cfg.Catalog.Driver {
	case config.DriverMemory:
		if cfg.IsDevelopment() {
			devUsers, err := memory.NewDevUserStore(cfg.Auth.BcryptCost)
			if err != nil {
				return fmt.Errorf("seed dev accounts: %w", err)
			}
			users = devUsers
		} else {
			users = memory.NewUserStore()
		}
		catalog = memory.NewSeededBookStore()
		log.Info().Msg("using in-memory stores")

	default:
		client, db, err := dbmongo.Open(ctx, dbmongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(shutdownCtx)
		}()

		userRepo := dbmongo.NewUserRepository(db)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("could not ensure user indexes, mongo may be down")
		}
		bookRepo := dbmongo.NewBookRepository(db)
		if err := bookRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("could not ensure book indexes")
		}
		users, catalog = userRepo, bookRepo
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo stores")
	}

	var fallback ports.BookRepository
	if cfg.CatalogFallback() {
		fallback = memory.NewSeededBookStore()
		log.Info().Msg("in-memory catalog fallback enabled")
	}
	books := resilient.NewBookStore(catalog, fallback, resilient.Options{
		ProbeTimeout: cfg.Auth.ProbeTimeout,
		OnFallback: func(op string) {
			metrics.FallbackServedTotal.WithLabelValues("api", op).Inc()
		},
	}, log)

	checks = append(checks,
		handler.Check{Name: "users", Critical: !cfg.TrustClaimsOffline(), Ping: users.Ping},
		handler.ReachabilityCheck("catalog", fallback == nil, books.Reachable),
	)

	var limiter ports.LoginLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := dbredis.Connect(ctx, dbredis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB, Timeout: cfg.Redis.Timeout})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
		} else {
			defer rdb.Close()
			limiter = dbredis.NewLoginLimiter(rdb, ports.LoginLimits{
				MaxAttempts: cfg.Auth.LoginMaxAttempts,
				Lockout:     cfg.Auth.LoginLockout,
			})
			checks = append(checks, handler.Check{Name: "redis", Ping: func(ctx context.Context) error {
				return dbredis.Ping(ctx, rdb, cfg.Redis.Timeout)
			}})
		}
	}

	authSvc := service.NewAuthService(users, tokens, limiter, service.AuthOptions{
		BcryptCost:         cfg.Auth.BcryptCost,
		TrustClaimsOffline: cfg.TrustClaimsOffline(),
		ProbeTimeout:       cfg.Auth.ProbeTimeout,
	}, log)
	bookSvc := service.NewBookService(books, log)

	e := api.NewRouter(api.Deps{
		Auth:        authSvc,
		Books:       bookSvc,
		Checks:      checks,
		Log:         log,
		Development: cfg.IsDevelopment(),
		CORSOrigins: cfg.CORSOrigins,
	})

	return serve(ctx, e, ":"+cfg.Port, log)
}

type server interface {
	Start(address string) error
	Shutdown(ctx context.Context) error
}

// serve runs the server until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv server, addr string, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
