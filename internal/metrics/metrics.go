package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	UsersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "users_created_total",
			Help: "Total number of users created",
		},
	)

	// Logins counts login attempts by result (success, failure).
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_logins_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	// UsersStored is the number of records in the store, refreshed periodically.
	UsersStored = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "users_stored",
			Help: "Number of user records currently held in memory",
		},
	)

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

var initOnce sync.Once

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, UsersCreated, Logins, UsersStored, RateLimited)
	})
}

// RecordRequest records duration and count for an HTTP request. path should be
// the route pattern, not the raw URL, to keep label cardinality bounded.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

func IncUsersCreated() {
	UsersCreated.Inc()
}

// IncLogins increments the login counter for result ("success" or "failure").
func IncLogins(result string) {
	Logins.WithLabelValues(result).Inc()
}

func SetUsersStored(n int) {
	UsersStored.Set(float64(n))
}

func IncRateLimited() {
	RateLimited.Inc()
}
