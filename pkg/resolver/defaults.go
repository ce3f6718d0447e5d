package resolver

import (
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/api/resource"
)

const (
	// DefaultImage is the default container image for the inference workload.
	DefaultImage = "medconnect/ml-inference:latest"

	// DefaultImagePullPolicy is the default image pull policy.
	DefaultImagePullPolicy = corev1.PullIfNotPresent

	// DefaultReplicas is the default number of inference pods.
	DefaultReplicas int32 = 2

	// DefaultMaxSurge is the default number of pods created above the desired count during a rollout.
	DefaultMaxSurge int32 = 1

	// DefaultMaxUnavailable is the default number of pods allowed to be unavailable during a rollout.
	// Zero makes every rollout surge-only.
	DefaultMaxUnavailable int32 = 0

	// DefaultContainerPort is the port the inference container listens on.
	DefaultContainerPort int32 = 8080

	// DefaultServicePort is the port exposed by the Service.
	DefaultServicePort int32 = 80

	// DefaultServiceType is the default Service exposure.
	DefaultServiceType = corev1.ServiceTypeClusterIP

	// DefaultHealthPath is probed by both liveness and readiness checks.
	DefaultHealthPath = "/health"

	// DefaultPredictPath is routed by the Ingress.
	DefaultPredictPath = "/predict"

	// DefaultIngressPathType is the default ingress path matching.
	DefaultIngressPathType = networkingv1.PathTypePrefix

	// ServiceAccountSuffix is appended to the InferenceService name to form the default ServiceAccount name.
	ServiceAccountSuffix = "-sa"

	// DefaultMinReplicas is the default lower autoscaling bound.
	DefaultMinReplicas int32 = 2

	// DefaultMaxReplicas is the default upper autoscaling bound.
	DefaultMaxReplicas int32 = 10

	// DefaultTargetCPUUtilization is the default average CPU utilization target (percent).
	DefaultTargetCPUUtilization int32 = 70

	// DefaultTargetMemoryUtilization is the default average memory utilization target (percent).
	DefaultTargetMemoryUtilization int32 = 80
)

const (
	// DefaultEnvironment is the deployment stage used when none is configured.
	DefaultEnvironment = "dev"

	// DefaultLogLevel is the log level of the inference process.
	DefaultLogLevel = "INFO"

	// DefaultAWSRegion is the region of the backing tables and streams.
	DefaultAWSRegion = "us-east-1"

	// DefaultMLPredictionStream is the stream predictions are published to.
	DefaultMLPredictionStream = "med-connect-ml-prediction"

	// DefaultNotificationStream is the stream notifications are published to.
	DefaultNotificationStream = "med-connect-notification"
)

// Probe timings.
const (
	DefaultLivenessInitialDelaySeconds  int32 = 30
	DefaultLivenessPeriodSeconds        int32 = 10
	DefaultLivenessTimeoutSeconds       int32 = 5
	DefaultLivenessFailureThreshold     int32 = 3
	DefaultReadinessInitialDelaySeconds int32 = 5
	DefaultReadinessPeriodSeconds       int32 = 5
	DefaultReadinessTimeoutSeconds      int32 = 3
	DefaultReadinessFailureThreshold    int32 = 3
)

// TableName returns the default table name for a kind of record in an environment,
// e.g. TableName("patients", "dev") = "med-connect-patients-dev".
func TableName(kind, environment string) string {
	return "med-connect-" + kind + "-" + environment
}

// DefaultResources returns the default resource requests and limits for the inference container.
// It requests 500m CPU and 1Gi memory, with limits of 1 CPU and 2Gi memory.
func DefaultResources() corev1.ResourceRequirements {
	return corev1.ResourceRequirements{
		Requests: corev1.ResourceList{
			corev1.ResourceCPU:    resource.MustParse("500m"),
			corev1.ResourceMemory: resource.MustParse("1Gi"),
		},
		Limits: corev1.ResourceList{
			corev1.ResourceCPU:    resource.MustParse("1"),
			corev1.ResourceMemory: resource.MustParse("2Gi"),
		},
	}
}
