package edge

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookstore/bookstore/internal/api/metrics"
)

// HeaderFallback is set on responses produced without the backend.
const HeaderFallback = "X-Fallback"

// Proxy forwards client routes to the backend API.
type Proxy struct {
	backend *Backend
	policy  FallbackPolicy
	log     zerolog.Logger
}

func NewProxy(backend *Backend, policy FallbackPolicy, log zerolog.Logger) *Proxy {
	return &Proxy{backend: backend, policy: policy, log: log}
}

func (p *Proxy) Login(c echo.Context) error {
	return p.forward(c, OpLogin, http.MethodPost, "/auth/login", false)
}

func (p *Proxy) Signup(c echo.Context) error {
	return p.forward(c, OpSignup, http.MethodPost, "/auth/signup", false)
}

func (p *Proxy) ListBooks(c echo.Context) error {
	return p.forward(c, OpListBooks, http.MethodGet, "/books", true)
}

func (p *Proxy) CreateBook(c echo.Context) error {
	return p.forward(c, OpCreateBook, http.MethodPost, "/books", true)
}

func (p *Proxy) GetBook(c echo.Context) error {
	return p.forward(c, OpGetBook, http.MethodGet, bookPath(c), true)
}

func (p *Proxy) UpdateBook(c echo.Context) error {
	return p.forward(c, OpUpdateBook, http.MethodPut, bookPath(c), true)
}

func (p *Proxy) DeleteBook(c echo.Context) error {
	return p.forward(c, OpDeleteBook, http.MethodDelete, bookPath(c), true)
}

func bookPath(c echo.Context) string {
	return "/books/" + url.PathEscape(c.Param("id"))
}

func (p *Proxy) forward(c echo.Context, op Operation, method, path string, requireAuth bool) error {
	req := c.Request()

	header := http.Header{}
	if requireAuth {
		auth := req.Header.Get(echo.HeaderAuthorization)
		if !hasBearer(auth) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}
		header.Set(echo.HeaderAuthorization, auth)
	}
	if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
		header.Set(echo.HeaderXRequestID, rid)
	}

	var body []byte
	if method == http.MethodPost || method == http.MethodPut {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		}
		header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	start := time.Now()
	up, err := p.backend.Do(req.Context(), method, path, header, body)
	metrics.UpstreamDuration.WithLabelValues(outcome(up, err)).Observe(time.Since(start).Seconds())
	if err != nil {
		p.log.Warn().Err(err).Str("operation", string(op)).Str("path", path).Msg("backend unreachable")
	}

	res := p.policy.Resolve(Call{Op: op, ID: c.Param("id"), Body: body}, up, err)
	if res.Fallback {
		metrics.FallbackServedTotal.WithLabelValues("edge", string(op)).Inc()
		p.log.Info().Str("operation", string(op)).Msg("served canned response")
		c.Response().Header().Set(HeaderFallback, "true")
	}

	contentType := res.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return c.Blob(res.Status, contentType, res.Body)
}

func hasBearer(header string) bool {
	parts := strings.SplitN(header, " ", 2)
	return len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && strings.TrimSpace(parts[1]) != ""
}

func outcome(up *Upstream, err error) string {
	switch {
	case err != nil:
		return "transport_error"
	case up.Status >= 300:
		return "error_status"
	default:
		return "ok"
	}
}
