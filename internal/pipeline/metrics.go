package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stagehand_pipeline_runs_total",
			Help: "Pipeline runs by terminal status",
		},
		[]string{"pipeline", "status"},
	)

	stepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stagehand_pipeline_steps_total",
			Help: "Pipeline steps by action and status",
		},
		[]string{"action", "status"},
	)

	stepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stagehand_pipeline_step_duration_seconds",
			Help:    "Duration of pipeline steps",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)
)

func recordRun(pipeline string, status Status) {
	runsTotal.WithLabelValues(pipeline, string(status)).Inc()
}

func recordStep(actionRef string, status Status, duration time.Duration) {
	stepsTotal.WithLabelValues(actionRef, string(status)).Inc()
	stepDuration.WithLabelValues(actionRef).Observe(duration.Seconds())
}
