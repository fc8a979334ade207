// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// AuthEventsTotal counts auth flow steps (signup, verify_otp, login, ...) by outcome.
	AuthEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Total number of authentication flow events",
		},
		[]string{"event", "outcome"},
	)

	VerificationCodesIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "verification_codes_issued_total",
			Help: "Total number of email verification codes issued",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total number of outbound emails by delivery outcome",
		},
		[]string{"outcome"},
	)

	// PaymentsTotal counts gateway interactions. stage is "order" or "verify".
	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Total number of payment gateway operations",
		},
		[]string{"stage", "outcome"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// RecordAuthEvent counts one auth flow step; a nil err counts as success.
func RecordAuthEvent(event string, err error) {
	AuthEventsTotal.WithLabelValues(event, outcome(err)).Inc()
}

func RecordCodeIssued() {
	VerificationCodesIssuedTotal.Inc()
}

func RecordEmail(err error) {
	EmailsSentTotal.WithLabelValues(outcome(err)).Inc()
}

func RecordPayment(stage string, err error) {
	PaymentsTotal.WithLabelValues(stage, outcome(err)).Inc()
}

// ObserveHTTPRequest records a finished request. route should be the chi
// route pattern, not the raw path, to keep label cardinality bounded.
func ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
