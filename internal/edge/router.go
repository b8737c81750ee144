package edge

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/unrolled/secure"

	"github.com/bookstore/bookstore/internal/api/handler"
	"github.com/bookstore/bookstore/internal/api/middleware"
)

// RouterDeps wires the edge router.
type RouterDeps struct {
	Proxy   *Proxy
	Backend *Backend
	Log     zerolog.Logger

	Development bool
	// AuthRateLimit is the per-IP request budget per minute on auth routes.
	AuthRateLimit int

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds the edge echo instance.
func NewRouter(d RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if d.AuthRateLimit <= 0 {
		d.AuthRateLimit = 60
	}

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'",
		IsDevelopment:         d.Development,
	})

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echo.WrapMiddleware(secureMiddleware.Handler))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "bookstore",
		Subsystem:  "edge",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	authLimiter := echo.WrapMiddleware(httprate.Limit(d.AuthRateLimit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=UTF-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "too many requests"})
		}),
	))

	api := e.Group("/api")
	api.POST("/auth/login", d.Proxy.Login, authLimiter)
	api.POST("/auth/signup", d.Proxy.Signup, authLimiter)
	api.GET("/books", d.Proxy.ListBooks)
	api.POST("/books", d.Proxy.CreateBook)
	api.GET("/books/:id", d.Proxy.GetBook)
	api.PUT("/books/:id", d.Proxy.UpdateBook)
	api.DELETE("/books/:id", d.Proxy.DeleteBook)

	e.GET("/health", handler.NewHealthHandler().Liveness)
	if d.Backend != nil {
		ready := handler.NewReadinessHandler(3*time.Second, handler.Check{
			Name:     "backend",
			Critical: !d.Development,
			Ping:     d.Backend.Ping,
		})
		e.GET("/health/ready", ready.Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))

	return e
}
