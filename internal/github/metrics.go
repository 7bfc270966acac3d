package github

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	actionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stagehand_action_duration_seconds",
			Help:    "Duration of GitHub actions",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action", "outcome"},
	)

	actionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stagehand_actions_total",
			Help: "Total GitHub action runs by outcome",
		},
		[]string{"action", "outcome"},
	)

	responseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stagehand_github_responses_total",
			Help: "GitHub API responses by status code class",
		},
		[]string{"class"},
	)
)

// Outcome labels. api_error means GitHub answered with a non-success
// status; error means the request never produced a response.
const (
	outcomeSuccess  = "success"
	outcomeAPIError = "api_error"
	outcomeError    = "error"
)

// recordMetrics records one action run
func recordMetrics(action, outcome string, duration time.Duration) {
	actionDuration.WithLabelValues(action, outcome).Observe(duration.Seconds())
	actionTotal.WithLabelValues(action, outcome).Inc()
}

// recordResponse counts one API response by status class (2xx, 4xx, ...)
func recordResponse(status int) {
	responseTotal.WithLabelValues(statusClass(status)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
