package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookstore/bookstore/internal/api/metrics"
	"github.com/bookstore/bookstore/internal/core/domain"
	"github.com/bookstore/bookstore/internal/core/ports"
)

// Context keys set by Auth.
const (
	KeyUserID   = "user_id"
	KeyEmail    = "email"
	KeyRole     = "role"
	KeyIdentity = "identity"
)

// Auth resolves the bearer token into an identity and injects it into context.
// Token and store errors are returned as domain errors for the central
// error handler to map.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			identity, err := auth.Authenticate(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				return err
			}
			metrics.IdentitiesResolvedTotal.WithLabelValues(string(identity.Source)).Inc()

			c.Set(KeyUserID, identity.UserID)
			c.Set(KeyEmail, identity.Email)
			c.Set(KeyRole, identity.Role)
			c.Set(KeyIdentity, identity)

			return next(c)
		}
	}
}

// IdentityFrom returns the identity attached by Auth, if any.
func IdentityFrom(c echo.Context) (*domain.Identity, bool) {
	id, ok := c.Get(KeyIdentity).(*domain.Identity)
	return id, ok && id != nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrUnauthenticated):
		return "invalid_token"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}
