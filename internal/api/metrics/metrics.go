// Package metrics defines the custom Prometheus metrics of the API. It is
// the single source of truth for metric names, labels and help strings.
//
// HTTP request metrics (latency, size, count per route) come from the
// echoprometheus middleware; the collectors here cover business outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "base_api"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "invalid_credentials"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── CRUD metrics ──────────────────────────────────────────────────────────────

// CrudOperationsTotal counts generic CRUD operations.
// Labels:
//   - resource: entity route name (e.g. "users")
//   - operation: "list", "paged", "get", "create", "update", "delete"
//   - result: "ok" or "error"
var CrudOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "crud_operations_total",
		Help:      "Total number of CRUD operations, by resource, operation and result.",
	},
	[]string{"resource", "operation", "result"},
)

// ── Error metrics ─────────────────────────────────────────────────────────────

// HTTPErrorsTotal counts error envelopes rendered by the error handler.
// Labels:
//   - status: HTTP status code (e.g. "404")
//   - category: "client" for 4xx, "server" for 5xx
var HTTPErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_errors_total",
		Help:      "Total number of error responses, by status and category.",
	},
	[]string{"status", "category"},
)

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
