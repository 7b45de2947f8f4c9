// Package metrics defines the custom Prometheus metrics of the attendance
// tracker. Metrics are registered with the default registry on import via
// promauto and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "attendance"

// ── Attendance metrics ───────────────────────────────────────────────────────

// MarksTotal counts check-in and check-out attempts.
// Labels:
//   - kind: "checkIn" or "checkOut"
//   - result: "ok" or the rejection reason (e.g. "already_checked_in", "error")
var MarksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "marks_total",
		Help:      "Total number of attendance marks, by kind and result.",
	},
	[]string{"kind", "result"},
)

// MarkQueueDepth tracks queued marks waiting in each dispatcher worker channel.
var MarkQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mark_queue_depth",
		Help:      "Current number of queued attendance marks per dispatcher worker.",
	},
	[]string{"worker_id"},
)

// MarkDuration measures a single mark from request to commit.
var MarkDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mark_duration_seconds",
		Help:      "Duration of an attendance mark including the store transaction.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ── Account metrics ──────────────────────────────────────────────────────────

// RegistrationsTotal counts employee registrations.
// Label:
//   - result: "ok", "duplicate_username" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of employee registrations, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Labels:
//   - role: the requested role ("admin", "employee" or "any")
//   - result: "ok", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by requested role and result.",
	},
	[]string{"role", "result"},
)

var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of sessions currently logged in.",
	},
)

// ── Report metrics ───────────────────────────────────────────────────────────

// ReportExportsTotal counts exported reports.
// Labels:
//   - format: "csv" or "xlsx"
//   - period: "daily", "monthly" or "yearly"
var ReportExportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_exports_total",
		Help:      "Total number of attendance reports exported, by format and period.",
	},
	[]string{"format", "period"},
)
