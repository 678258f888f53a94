// Package metrics defines and registers all custom Prometheus metrics for the
// admin console. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics self-register with the default registry via promauto at package
// load; the /metrics endpoint is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "admin_console"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "forbidden", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionRestoresTotal counts session revalidations after a reload or restart.
// Label:
//   - result: "success" or "expired"
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of session restore attempts, by result.",
	},
	[]string{"result"},
)

// ── Data metrics ──────────────────────────────────────────────────────────────

// ReloadsTotal counts full collection reloads.
// Label:
//   - trigger: what caused the reload (e.g. "setup", "manual", "create_product")
var ReloadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reloads_total",
		Help:      "Total number of full collection reloads, by trigger.",
	},
	[]string{"trigger"},
)

// StaleViewsTotal counts product pages served from the offline snapshot
// because the storefront was unreachable at load time.
var StaleViewsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_views_total",
		Help:      "Total number of product pages answered from the offline snapshot.",
	},
)

// TableQueriesTotal counts table view computations.
// Label:
//   - collection: "products" or "users"
var TableQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "table_queries_total",
		Help:      "Total number of table page computations, by collection.",
	},
	[]string{"collection"},
)

// MutationsTotal counts CRUD and moderation calls forwarded to the storefront.
// Labels:
//   - operation: e.g. "create_product", "ban_user"
//   - result: "success" or "error"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of storefront mutations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Broadcast metrics ─────────────────────────────────────────────────────────

// BroadcastsTotal counts admin broadcast attempts.
// Label:
//   - result: "sent", "channel_down", "invalid", or "error"
var BroadcastsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcasts_total",
		Help:      "Total number of admin broadcast attempts, by result.",
	},
	[]string{"result"},
)
