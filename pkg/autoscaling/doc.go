// Package autoscaling implements the replica arithmetic applied to an
// inference workload by the platform: the utilization-driven desired
// replica count of a HorizontalPodAutoscaler and the bounds of a rolling
// update.
//
// Both are pure functions. The operator uses them to report the replica
// count it expects the autoscaler to converge on, and the CLI uses them to
// plan capacity ahead of a deploy.
package autoscaling
