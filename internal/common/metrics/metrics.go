// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReportRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_requests_total",
			Help: "Total number of report generation requests by outcome",
		},
		[]string{"outcome"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of pipeline stage execution in seconds",
		},
		[]string{"stage"},
	)

	StageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_failures_total",
			Help: "Total number of stage failures by stage and error code",
		},
		[]string{"stage", "error_code"},
	)

	LinkChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_checks_total",
			Help: "Total number of product link checks by result",
		},
		[]string{"result"},
	)
)
