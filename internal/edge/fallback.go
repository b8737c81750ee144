package edge

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bookstore/bookstore/internal/core/domain"
	"github.com/bookstore/bookstore/internal/core/service"
)

// Operation names a proxied route.
type Operation string

const (
	OpLogin      Operation = "login"
	OpSignup     Operation = "signup"
	OpListBooks  Operation = "list"
	OpGetBook    Operation = "get"
	OpCreateBook Operation = "create"
	OpUpdateBook Operation = "update"
	OpDeleteBook Operation = "delete"
)

func (op Operation) isRead() bool {
	return op == OpListBooks || op == OpGetBook
}

// Call describes the client request being proxied.
type Call struct {
	Op   Operation
	ID   string
	Body []byte
}

// FallbackPolicy is the single place that decides what the client receives
// for a backend result.
type FallbackPolicy interface {
	Resolve(call Call, up *Upstream, err error) *Upstream
}

// NewFallbackPolicy returns the policy for the deployment mode.
func NewFallbackPolicy(development bool) FallbackPolicy {
	if development {
		return &devPolicy{now: time.Now, newID: uuid.NewString}
	}
	return relayPolicy{}
}

// relayPolicy passes backend responses through untouched. Transport
// failures become a generic 500.
type relayPolicy struct{}

func (relayPolicy) Resolve(_ Call, up *Upstream, err error) *Upstream {
	if err != nil {
		return jsonResponse(http.StatusInternalServerError, map[string]string{"error": "internal server error"}, false)
	}
	return up
}

// devPolicy substitutes canned, non-persistent responses so the UI keeps
// working while the API is down.
type devPolicy struct {
	now   func() time.Time
	newID func() string
}

func (p *devPolicy) Resolve(call Call, up *Upstream, err error) *Upstream {
	if !needsFallback(call.Op, up, err) {
		return up
	}
	return p.canned(call)
}

// needsFallback: transport failures always fall back; reads also fall back
// on any non-success status except a 404 for a single book.
func needsFallback(op Operation, up *Upstream, err error) bool {
	if err != nil || up == nil {
		return true
	}
	if !op.isRead() || up.Status < 300 {
		return false
	}
	return !(op == OpGetBook && up.Status == http.StatusNotFound)
}

func (p *devPolicy) canned(call Call) *Upstream {
	now := p.now().UTC()

	switch call.Op {
	case OpLogin:
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.Unmarshal(call.Body, &req)
		for _, acc := range domain.DevAccounts() {
			if strings.EqualFold(acc.Email, strings.TrimSpace(req.Email)) && acc.Password == req.Password {
				return jsonResponse(http.StatusOK, map[string]any{
					"token": service.MockTokenPrefix + acc.ID,
					"user":  map[string]string{"id": acc.ID, "email": acc.Email, "role": acc.Role},
				}, true)
			}
		}
		return jsonResponse(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"}, true)

	case OpSignup:
		var req struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		}
		_ = json.Unmarshal(call.Body, &req)
		email := strings.ToLower(strings.TrimSpace(req.Email))
		for _, acc := range domain.DevAccounts() {
			if acc.Email == email {
				return jsonResponse(http.StatusBadRequest, map[string]string{"error": "user already exists"}, true)
			}
		}
		role := req.Role
		if role == "" {
			role = domain.RoleUser
		}
		return jsonResponse(http.StatusCreated, map[string]any{
			"message": "user created successfully",
			"user":    map[string]string{"id": p.newID(), "email": email, "role": role},
		}, true)

	case OpListBooks:
		return jsonResponse(http.StatusOK, domain.SeedBooks(now), true)

	case OpGetBook:
		return jsonResponse(http.StatusOK, domain.Book{
			ID:        call.ID,
			Title:     "Sample Book",
			Author:    "Sample Author",
			Price:     19.99,
			Stock:     10,
			CreatedAt: now,
			UpdatedAt: now,
		}, true)

	case OpCreateBook:
		fields, ok := decodeObject(call.Body)
		if !ok {
			return jsonResponse(http.StatusBadRequest, map[string]string{"error": "invalid payload"}, true)
		}
		fields["id"] = p.newID()
		fields["created_at"] = now
		fields["updated_at"] = now
		return jsonResponse(http.StatusCreated, fields, true)

	case OpUpdateBook:
		fields, ok := decodeObject(call.Body)
		if !ok {
			return jsonResponse(http.StatusBadRequest, map[string]string{"error": "invalid payload"}, true)
		}
		fields["id"] = call.ID
		fields["updated_at"] = now
		return jsonResponse(http.StatusOK, fields, true)

	case OpDeleteBook:
		return jsonResponse(http.StatusOK, map[string]string{"message": "book deleted successfully"}, true)
	}

	return jsonResponse(http.StatusInternalServerError, map[string]string{"error": "internal server error"}, true)
}

func decodeObject(body []byte) (map[string]any, bool) {
	fields := map[string]any{}
	if len(strings.TrimSpace(string(body))) == 0 {
		return fields, true
	}
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

func jsonResponse(status int, v any, fallback bool) *Upstream {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal server error"}`)
	}
	h := http.Header{}
	h.Set("Content-Type", "application/json; charset=UTF-8")
	if fallback {
		h.Set(HeaderFallback, "true")
	}
	return &Upstream{Status: status, Header: h, Body: body, Fallback: fallback}
}
