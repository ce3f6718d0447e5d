// Package monitoring provides Prometheus metrics, OpenTelemetry tracing and
// recording helpers for the MedConnect inference operator. The metrics
// complement the generic controller-runtime metrics already registered by
// the framework.
//
// All metrics follow the naming convention medconnect_operator_<metric>_<unit>
// and are registered against controller-runtime's default Prometheus registry
// on import.
//
// Usage in controllers:
//
//	monitoring.SetInferenceServiceInfo(isvc.Name, isvc.Namespace, string(isvc.Status.Phase))
//	monitoring.SetInferenceServiceReplicas(isvc.Name, isvc.Namespace, desired, ready)
//
// Usage in webhooks:
//
//	monitoring.RecordWebhookRequest("CREATE", "InferenceService", err, elapsed)
package monitoring
