package monitoring

import "time"

// SetInferenceServiceInfo sets the info-style gauge for an InferenceService.
// Old phase labels are cleaned up via DeletePartialMatch.
func SetInferenceServiceInfo(name, namespace, phase string) {
	inferenceServiceInfo.DeletePartialMatch(map[string]string{
		"name":      name,
		"namespace": namespace,
	})
	inferenceServiceInfo.WithLabelValues(name, namespace, phase).Set(1)
}

// SetInferenceServiceReplicas sets the desired and ready replica gauges.
func SetInferenceServiceReplicas(name, namespace string, desired, ready int32) {
	inferenceServiceReplicas.WithLabelValues(name, namespace, "desired").Set(float64(desired))
	inferenceServiceReplicas.WithLabelValues(name, namespace, "ready").Set(float64(ready))
}

// DeleteInferenceService drops every series of a deleted InferenceService.
func DeleteInferenceService(name, namespace string) {
	labels := map[string]string{"name": name, "namespace": namespace}
	inferenceServiceInfo.DeletePartialMatch(labels)
	inferenceServiceReplicas.DeletePartialMatch(labels)
}

// RecordValidation counts a bundle validation outcome.
func RecordValidation(namespace string, valid bool) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	validationTotal.WithLabelValues(namespace, result).Inc()
}

// RecordApply counts an object written by the reconciler. action is one of
// create, update or delete.
func RecordApply(kind, action string) {
	appliedObjectsTotal.WithLabelValues(kind, action).Inc()
}

// RecordWebhookRequest records a webhook admission request's result and duration.
func RecordWebhookRequest(operation, resource string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
	}
	webhookRequestTotal.WithLabelValues(operation, resource, result).Inc()
	webhookRequestDuration.WithLabelValues(operation, resource).Observe(duration.Seconds())
}
