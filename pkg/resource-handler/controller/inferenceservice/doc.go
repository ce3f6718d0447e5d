// Package inferenceservice reconciles InferenceService resources.
//
// An InferenceService expands into one Bundle: a ServiceAccount bound to an
// external cloud role, a Deployment running the inference container, a
// ClusterIP Service in front of it, an optional Ingress routing the predict
// path and an optional HorizontalPodAutoscaler. The builders in this package
// are pure functions of a resolved InferenceService; the reconciler resolves
// defaults, validates the resulting bundle and applies it.
package inferenceservice
