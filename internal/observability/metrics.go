package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "membership"

// HTTPRequestsTotal counts handled requests by route, method and status.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"route", "method", "status"},
)

// HTTPRequestDuration measures request latency.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route", "method"},
)

// HTTPErrorsTotal counts error responses by domain error code.
var HTTPErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_errors_total",
		Help:      "Total number of error responses, by error code.",
	},
	[]string{"route", "method", "code"},
)

// AuthEventsTotal counts auth service outcomes.
// Labels:
//   - operation: login, create_staff, request_reset, verify_otp, reset_password, change_password
//   - result: ok or the error code
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of auth operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// NotificationsTotal counts dispatch attempts by kind and result (sent/failed).
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notification dispatch attempts.",
	},
	[]string{"kind", "result"},
)

// BirthdayRunsTotal counts scheduler runs by outcome (sent, no_birthdays, no_admins, failed).
var BirthdayRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "birthday_runs_total",
		Help:      "Total number of birthday reminder runs, by outcome.",
	},
	[]string{"outcome"},
)
