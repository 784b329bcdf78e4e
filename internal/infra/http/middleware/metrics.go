package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	jobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_job_runs_total",
			Help: "Total number of batch job passes",
		},
		[]string{"job", "result"},
	)

	jobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engine_job_duration_seconds",
			Help:    "Duration of batch job passes in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)

	alertsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_alerts_created_total",
			Help: "Total number of inactivity alerts created",
		},
	)

	followupsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_followups_processed_total",
			Help: "Total number of followups driven to a terminal state",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordJobRun(job string, err error, seconds float64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	jobRuns.WithLabelValues(job, result).Inc()
	jobDuration.WithLabelValues(job).Observe(seconds)
}

func RecordAlertsCreated(n int) {
	alertsCreated.Add(float64(n))
}

func RecordFollowupsProcessed(n int) {
	followupsProcessed.Add(float64(n))
}
