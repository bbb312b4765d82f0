// Package monitoring holds the Prometheus collectors for the service.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sells-group/glance/internal/resilience"
)

// Call outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

var (
	CollaboratorCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glance_collaborator_calls_total",
			Help: "Outbound collaborator calls by kind, outcome and error class",
		},
		[]string{"kind", "outcome", "class"},
	)

	CollaboratorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "glance_collaborator_call_duration_seconds",
			Help:    "Duration of outbound collaborator calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"kind"},
	)

	Fallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glance_retrieval_fallbacks_total",
			Help: "Retrieval slots that fell back, by category and reason",
		},
		[]string{"category", "reason"},
	)

	Extractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glance_extractions_total",
			Help: "Extraction results by outcome",
		},
		[]string{"mode", "outcome"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "glance_pipeline_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"stage"},
	)

	LLMTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glance_llm_tokens_total",
			Help: "LLM tokens by provider, stage and direction",
		},
		[]string{"provider", "stage", "direction"},
	)

	LLMCost = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glance_llm_cost_usd_total",
			Help: "Estimated LLM spend in USD by provider and stage",
		},
		[]string{"provider", "stage"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glance_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "glance_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

// ObserveCall records one collaborator call. Errors are labelled with
// their transient/permanent class.
func ObserveCall(kind string, start time.Time, err error) {
	CollaboratorDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	outcome := OutcomeOK
	class := "none"
	if err != nil {
		k := resilience.Classify(err)
		class = string(k)
		outcome = OutcomeError
		if k == resilience.KindTimeout {
			outcome = OutcomeTimeout
		}
	}
	CollaboratorCalls.WithLabelValues(kind, outcome, class).Inc()
}

// ObserveStage records the duration of one pipeline stage.
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// ObserveUsage records the token counts and estimated cost of one LLM call.
func ObserveUsage(provider, stage string, input, output int64, usd float64) {
	LLMTokens.WithLabelValues(provider, stage, "input").Add(float64(input))
	LLMTokens.WithLabelValues(provider, stage, "output").Add(float64(output))
	if usd > 0 {
		LLMCost.WithLabelValues(provider, stage).Add(usd)
	}
}
