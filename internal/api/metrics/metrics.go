// Package metrics defines and registers all custom Prometheus metrics for
// the admin panel API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at init time via
// promauto; expose them by mounting promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "adminpanel"

// LoginsTotal counts login attempts.
// Labels:
//   - role: "admin", "manager", or "employee"
//   - result: "success", "invalid_credentials", "deactivated", "bad_request", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by role and result.",
	},
	[]string{"role", "result"},
)

// TokenVerificationsTotal counts session resolution attempts in the Auth middleware.
// Label:
//   - result: "ok", "missing", "malformed", "invalid", "rejected"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer-token verifications, by result.",
	},
	[]string{"result"},
)

// ResetRequestsTotal counts password-reset initiations.
// Labels:
//   - role: the partition addressed
//   - variant: "code" (6-digit email code) or "token" (hashed URL token)
var ResetRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_requests_total",
		Help:      "Total number of password-reset requests, by role and variant.",
	},
	[]string{"role", "variant"},
)

// IdentitiesCreatedTotal counts successfully created identities.
// Label:
//   - role: the role of the new identity
var IdentitiesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identities_created_total",
		Help:      "Total number of identities created, by role.",
	},
	[]string{"role"},
)

// MailQueueDepth tracks the number of messages waiting in each mail worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of messages pending in each mail dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// MailDeliveriesTotal counts delivery attempts made by the mail dispatcher.
// Label:
//   - result: "ok", "error", or "dropped" (worker queue full)
var MailDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_deliveries_total",
		Help:      "Total number of outbound mail delivery attempts, by result.",
	},
	[]string{"result"},
)
