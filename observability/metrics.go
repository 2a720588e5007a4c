package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daylog",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests processed, labelled by method, route and status.",
	}, []string{"method", "route", "status"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "daylog",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency distribution.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	activitiesCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daylog",
		Subsystem: "activities",
		Name:      "created_total",
		Help:      "Activities successfully created, labelled by category.",
	}, []string{"category"})

	budgetRejections = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "daylog",
		Subsystem: "activities",
		Name:      "budget_rejections_total",
		Help:      "Writes rejected because they would exceed the 1440-minute daily budget.",
	})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, activitiesCreated, budgetRejections)
}

// ObserveRequest records one completed HTTP request.
func ObserveRequest(method, route, status string, elapsed time.Duration) {
	requestsTotal.WithLabelValues(method, route, status).Inc()
	requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordActivityCreated counts a successful activity insert.
func RecordActivityCreated(category string) {
	activitiesCreated.WithLabelValues(category).Inc()
}

// RecordBudgetRejection counts a write refused by the daily budget check.
func RecordBudgetRejection() {
	budgetRejections.Inc()
}
