package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plantledger_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plantledger_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plantledger_mutations_total",
		Help: "Count of state mutations by kind and result",
	}, []string{"kind", "result"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plantledger_login_attempts_total",
		Help: "Count of login attempts by result",
	}, []string{"result"})

	syncCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plantledger_sync_cycles_total",
		Help: "Count of sync cycles by result",
	}, []string{"result"})

	syncedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plantledger_synced_records_total",
		Help: "Count of records acknowledged by the remote store",
	}, []string{"kind"})

	unsyncedRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "plantledger_unsynced_records",
		Help: "Number of records still awaiting sync",
	})

	unreadNotifications = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "plantledger_notifications_unread",
		Help: "Number of unread notifications",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveMutation counts a mutation attempt with its result label.
func ObserveMutation(kind, result string) {
	mutationsTotal.WithLabelValues(kind, result).Inc()
}

// ObserveLogin counts a login attempt.
func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

// ObserveSyncCycle counts a sync cycle with its result label.
func ObserveSyncCycle(result string) {
	syncCycles.WithLabelValues(result).Inc()
}

// ObserveSyncedRecords counts records confirmed by the remote store.
func ObserveSyncedRecords(kind string, count int) {
	syncedRecords.WithLabelValues(kind).Add(float64(count))
}

// SetUnsynced sets the pending-record gauge.
func SetUnsynced(count int) {
	if count < 0 {
		count = 0
	}
	unsyncedRecords.Set(float64(count))
}

// SetUnreadNotifications sets the unread-notification gauge.
func SetUnreadNotifications(count int) {
	if count < 0 {
		count = 0
	}
	unreadNotifications.Set(float64(count))
}
