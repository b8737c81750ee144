package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler handles GET /health, the liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Check is a named dependency probe. A failing Critical check makes the
// service not ready; other failures only mark it degraded.
type Check struct {
	Name     string
	Critical bool
	Ping     func(ctx context.Context) error
}

// ReachabilityCheck adapts a boolean reachability probe into a Check.
func ReachabilityCheck(name string, critical bool, reachable func(ctx context.Context) bool) Check {
	return Check{
		Name:     name,
		Critical: critical,
		Ping: func(ctx context.Context) error {
			if !reachable(ctx) {
				return fmt.Errorf("%s unreachable", name)
			}
			return nil
		},
	}
}

// ReadinessHandler handles GET /health/ready.
type ReadinessHandler struct {
	checks  []Check
	timeout time.Duration
}

func NewReadinessHandler(timeout time.Duration, checks ...Check) *ReadinessHandler {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &ReadinessHandler{checks: checks, timeout: timeout}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	status := "ok"
	httpStatus := http.StatusOK

	for _, chk := range h.checks {
		if err := chk.Ping(ctx); err != nil {
			deps[chk.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			status = "degraded"
			if chk.Critical {
				httpStatus = http.StatusServiceUnavailable
			}
			continue
		}
		deps[chk.Name] = dependencyStatus{Status: "ok"}
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
