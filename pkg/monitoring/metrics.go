package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

// Domain-specific metric collectors.
//
// These complement the generic controller-runtime metrics (reconcile counts,
// durations, work queue depth, etc.) with operator-specific state that the
// framework cannot know about.
var (
	inferenceServiceInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "medconnect_operator_inferenceservice_info",
			Help: "Info-style metric for InferenceService discovery and phase tracking. Always 1.",
		},
		[]string{"name", "namespace", "phase"},
	)

	inferenceServiceReplicas = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "medconnect_operator_inferenceservice_replicas",
			Help: "Inference pod replica counts by state (desired, ready).",
		},
		[]string{"name", "namespace", "state"},
	)

	validationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medconnect_operator_validation_total",
			Help: "Total number of bundle validations by result.",
		},
		[]string{"namespace", "result"},
	)

	appliedObjectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medconnect_operator_applied_objects_total",
			Help: "Total number of objects written by the reconciler by kind and action.",
		},
		[]string{"kind", "action"},
	)

	webhookRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medconnect_operator_webhook_request_total",
			Help: "Total number of webhook admission requests.",
		},
		[]string{"operation", "resource", "result"},
	)

	webhookRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medconnect_operator_webhook_request_duration_seconds",
			Help:    "Latency of webhook admission handling in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "resource"},
	)
)

func init() {
	metrics.Registry.MustRegister(Collectors()...)
}

// Collectors returns all registered metric collectors. This is useful for
// testing that metrics are properly registered.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		inferenceServiceInfo,
		inferenceServiceReplicas,
		validationTotal,
		appliedObjectsTotal,
		webhookRequestTotal,
		webhookRequestDuration,
	}
}
