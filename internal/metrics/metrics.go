// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dompet"

// Entry kinds used as label values.
const (
	KindExpense = "expense"
	KindIncome  = "income"
)

// ─── HTTP ───────────────────────────────────────────────────────────────────

var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests by route, method and status code.",
}, []string{"route", "method", "code"})

var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency. Page loads include the spreadsheet round trip.",
	Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
}, []string{"route", "method"})

var RateLimited = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "rate_limited_total",
	Help:      "Requests rejected by the per-client rate limiter.",
})

// ─── Entries ────────────────────────────────────────────────────────────────

var EntriesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "entries",
	Name:      "created_total",
	Help:      "Entries stored, by kind.",
}, []string{"kind"})

var EntriesDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "entries",
	Name:      "deleted_total",
	Help:      "Entries deleted, by kind.",
}, []string{"kind"})

var EntriesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "entries",
	Name:      "rejected_total",
	Help:      "Submissions rejected by validation, by kind and reason.",
}, []string{"kind", "reason"})

var StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "store",
	Name:      "errors_total",
	Help:      "Failed store operations, by operation.",
}, []string{"op"})

// ─── Sync worker ────────────────────────────────────────────────────────────

var SyncMessages = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "sync",
	Name:      "messages_total",
	Help:      "Sync messages handled, by action, kind and outcome.",
}, []string{"action", "kind", "outcome"})

var SyncSweepRows = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "sync",
	Name:      "sweep_rows_total",
	Help:      "Pending rows mirrored by the periodic sweep, by kind and outcome.",
}, []string{"kind", "outcome"})
