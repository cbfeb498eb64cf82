// Package metrics holds the service's Prometheus collectors.
//
// Labels stay low-cardinality: routes are chi patterns ("/reading-lists/{id}"),
// never raw paths or user ids.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recommendation outcomes besides the failure kinds.
const (
	OutcomeOK        = "ok"
	OutcomeShortList = "short_list"
	OutcomeTruncated = "truncated"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookrec_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookrec_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"route", "method"},
	)

	RecommendationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookrec_recommendation_outcomes_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	RecommendationIssues = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookrec_recommendation_invalid_fields_total",
			Help: "Problems found in recommendation entries passed through to callers",
		},
	)
)

// RecordHTTPRequest records one served request. An empty route is reported as "unmatched".
func RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordRecommendation counts one recommendation outcome.
func RecordRecommendation(outcome string) {
	RecommendationOutcomes.WithLabelValues(outcome).Inc()
}

// RecordRecommendationIssues counts problems found in returned recommendation entries.
func RecordRecommendationIssues(n int) {
	RecommendationIssues.Add(float64(n))
}
