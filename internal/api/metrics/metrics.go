// Package metrics defines the custom Prometheus metrics for the bookstore
// API and edge proxy. HTTP request metrics come from echoprometheus; the
// counters here cover auth, catalog writes and fallback decisions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookstore"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthFailuresTotal counts requests rejected by the auth middleware.
// Label:
//   - reason: "missing_token", "invalid_token", "store_unavailable", "forbidden" or "error"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected during authentication or authorization.",
	},
	[]string{"reason"},
)

// IdentitiesResolvedTotal counts authenticated requests by identity source.
// Label:
//   - source: "store", "claims" or "mock"
var IdentitiesResolvedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identities_resolved_total",
		Help:      "Total number of authenticated requests, by identity source.",
	},
	[]string{"source"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// BookWritesTotal counts successful catalog mutations.
// Label:
//   - operation: "create", "update" or "delete"
var BookWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "book_writes_total",
		Help:      "Total number of successful catalog writes, by operation.",
	},
	[]string{"operation"},
)

// FallbackServedTotal counts operations answered by a fallback instead of
// the primary.
// Labels:
//   - tier: "api" (in-memory catalog) or "edge" (canned response)
//   - operation: e.g. "list", "get", "login"
var FallbackServedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallback_served_total",
		Help:      "Total number of operations served by a fallback, by tier and operation.",
	},
	[]string{"tier", "operation"},
)

// UpstreamDuration measures edge-to-backend round trips.
// Label:
//   - outcome: "ok", "error_status" or "transport_error"
var UpstreamDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "edge_upstream_duration_seconds",
		Help:      "Duration of requests forwarded by the edge proxy to the backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)
