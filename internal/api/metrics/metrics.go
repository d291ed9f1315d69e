// Package metrics defines and registers all custom Prometheus metrics for the
// hospital portal. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP server metrics come from echoprometheus in the router.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portal"

// ── Backend client metrics ───────────────────────────────────────────────────

// BackendRequestsTotal counts calls made to the REST backend.
// Labels:
//   - code: HTTP status code returned by the backend
//   - method: HTTP method
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the REST backend.",
	},
	[]string{"code", "method"},
)

// BackendRequestDuration measures the round trip of a backend call.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests sent to the REST backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// InstrumentTransport wraps rt so every backend round trip is counted and
// timed. A nil rt means http.DefaultTransport.
func InstrumentTransport(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(BackendRequestsTotal,
		promhttp.InstrumentRoundTripperDuration(BackendRequestDuration, rt))
}

// ── Session metrics ──────────────────────────────────────────────────────────

// SessionsResolvedTotal counts how incoming sessions were resolved.
// Label:
//   - result: "anonymous" (no token), "authenticated", or "purged" (stored token rejected)
var SessionsResolvedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_resolved_total",
		Help:      "Total number of sessions resolved per request, by outcome.",
	},
	[]string{"result"},
)

// LoginsTotal counts login and registration attempts.
// Labels:
//   - kind: "login" or "register"
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login and registration attempts.",
	},
	[]string{"kind", "result"},
)

// ── Domain metrics ───────────────────────────────────────────────────────────

// AppointmentsBookedTotal counts bookings accepted by the backend.
var AppointmentsBookedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_booked_total",
		Help:      "Total number of appointments booked through the portal.",
	},
)

// PushSubscriptionsTotal counts subscription calls forwarded to the backend.
// Labels:
//   - action: "save" or "delete"
//   - result: "success" or "failure"
var PushSubscriptionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "push_subscriptions_total",
		Help:      "Total number of push subscription calls forwarded to the backend.",
	},
	[]string{"action", "result"},
)

// BlogWritesTotal counts blog mutations.
// Label:
//   - op: "create", "update" or "delete"
var BlogWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blog_writes_total",
		Help:      "Total number of blog posts written, by operation.",
	},
	[]string{"op"},
)

// Result maps an error to the "success"/"failure" label value.
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
