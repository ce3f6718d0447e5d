package resolver

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
)

// Options carries operator-level defaults that override the hardcoded ones.
type Options struct {
	// Image overrides DefaultImage.
	Image string
	// Environment overrides DefaultEnvironment.
	Environment string
	// AWSRegion overrides DefaultAWSRegion.
	AWSRegion string
}

// Resolver handles the logic for calculating defaults.
// It serves as the single source of truth for defaulting logic across the operator.
type Resolver struct {
	// Image is the container image used when the spec leaves it empty.
	Image string
	// Environment is the deployment stage used when the spec leaves it empty.
	Environment string
	// AWSRegion is the region used when the spec leaves it empty.
	AWSRegion string
}

// NewResolver creates a new Resolver.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{
		Image:       DefaultImage,
		Environment: DefaultEnvironment,
		AWSRegion:   DefaultAWSRegion,
	}
	if opts.Image != "" {
		r.Image = opts.Image
	}
	if opts.Environment != "" {
		r.Environment = opts.Environment
	}
	if opts.AWSRegion != "" {
		r.AWSRegion = opts.AWSRegion
	}
	return r
}

// Resolve returns a deep copy of isvc with every default materialized.
// The input is never modified.
func (r *Resolver) Resolve(
	isvc *medconnectv1alpha1.InferenceService,
) *medconnectv1alpha1.InferenceService {
	out := isvc.DeepCopy()
	r.PopulateDefaults(out)
	return out
}

// PopulateDefaults applies every default to isvc in place. It is idempotent.
func (r *Resolver) PopulateDefaults(isvc *medconnectv1alpha1.InferenceService) {
	spec := &isvc.Spec

	if spec.Image == "" {
		spec.Image = r.Image
	}
	if spec.ImagePullPolicy == "" {
		spec.ImagePullPolicy = DefaultImagePullPolicy
	}
	if spec.ContainerPort == 0 {
		spec.ContainerPort = DefaultContainerPort
	}
	if spec.ServicePort == 0 {
		spec.ServicePort = DefaultServicePort
	}
	if spec.ServiceType == "" {
		spec.ServiceType = DefaultServiceType
	}
	if isResourcesZero(spec.Resources) {
		spec.Resources = DefaultResources()
	}

	r.defaultRollout(spec)
	r.defaultEnvironment(&spec.Environment)
	spec.LivenessProbe = defaultProbe(spec.LivenessProbe, probeDefaults{
		initialDelay: DefaultLivenessInitialDelaySeconds,
		period:       DefaultLivenessPeriodSeconds,
		timeout:      DefaultLivenessTimeoutSeconds,
		failures:     DefaultLivenessFailureThreshold,
	})
	spec.ReadinessProbe = defaultProbe(spec.ReadinessProbe, probeDefaults{
		initialDelay: DefaultReadinessInitialDelaySeconds,
		period:       DefaultReadinessPeriodSeconds,
		timeout:      DefaultReadinessTimeoutSeconds,
		failures:     DefaultReadinessFailureThreshold,
	})

	if spec.ServiceAccount == nil {
		spec.ServiceAccount = &medconnectv1alpha1.ServiceAccountSpec{}
	}
	if spec.ServiceAccount.Name == "" {
		spec.ServiceAccount.Name = isvc.Name + ServiceAccountSuffix
	}

	defaultIngress(spec)
	defaultAutoscaling(spec)

	// Replicas default last so it can be clamped into the autoscaling bounds.
	if spec.Replicas == nil {
		replicas := DefaultReplicas
		if AutoscalingEnabled(spec) {
			replicas = max(replicas, *spec.Autoscaling.MinReplicas)
			replicas = min(replicas, *spec.Autoscaling.MaxReplicas)
		}
		spec.Replicas = ptr.To(replicas)
	}
}

// IngressEnabled reports whether the spec asks for an Ingress. A nil
// Ingress or Enabled field counts as enabled.
func IngressEnabled(spec *medconnectv1alpha1.InferenceServiceSpec) bool {
	return spec.Ingress == nil || spec.Ingress.Enabled == nil || *spec.Ingress.Enabled
}

// AutoscalingEnabled reports whether the spec asks for an autoscaler. A nil
// Autoscaling or Enabled field counts as enabled.
func AutoscalingEnabled(spec *medconnectv1alpha1.InferenceServiceSpec) bool {
	return spec.Autoscaling == nil || spec.Autoscaling.Enabled == nil || *spec.Autoscaling.Enabled
}

func (r *Resolver) defaultRollout(spec *medconnectv1alpha1.InferenceServiceSpec) {
	if spec.Rollout == nil {
		spec.Rollout = &medconnectv1alpha1.RolloutSpec{}
	}
	if spec.Rollout.MaxSurge == nil {
		spec.Rollout.MaxSurge = ptr.To(intstr.FromInt32(DefaultMaxSurge))
	}
	if spec.Rollout.MaxUnavailable == nil {
		spec.Rollout.MaxUnavailable = ptr.To(intstr.FromInt32(DefaultMaxUnavailable))
	}
}

func (r *Resolver) defaultEnvironment(env *medconnectv1alpha1.WorkloadEnvironment) {
	if env.Environment == "" {
		env.Environment = r.Environment
	}
	if env.LogLevel == "" {
		env.LogLevel = DefaultLogLevel
	}
	if env.PatientTableName == "" {
		env.PatientTableName = TableName("patients", env.Environment)
	}
	if env.ObservationTableName == "" {
		env.ObservationTableName = TableName("observations", env.Environment)
	}
	if env.PredictionTableName == "" {
		env.PredictionTableName = TableName("predictions", env.Environment)
	}
	if env.MLPredictionStream == "" {
		env.MLPredictionStream = DefaultMLPredictionStream
	}
	if env.NotificationStream == "" {
		env.NotificationStream = DefaultNotificationStream
	}
	if env.AWSRegion == "" {
		env.AWSRegion = r.AWSRegion
	}
}

type probeDefaults struct {
	initialDelay, period, timeout, failures int32
}

func defaultProbe(
	probe *medconnectv1alpha1.HTTPProbeSpec,
	d probeDefaults,
) *medconnectv1alpha1.HTTPProbeSpec {
	if probe == nil {
		probe = &medconnectv1alpha1.HTTPProbeSpec{}
	}
	if probe.Path == "" {
		probe.Path = DefaultHealthPath
	}
	if probe.InitialDelaySeconds == nil {
		probe.InitialDelaySeconds = ptr.To(d.initialDelay)
	}
	if probe.PeriodSeconds == nil {
		probe.PeriodSeconds = ptr.To(d.period)
	}
	if probe.TimeoutSeconds == nil {
		probe.TimeoutSeconds = ptr.To(d.timeout)
	}
	if probe.FailureThreshold == nil {
		probe.FailureThreshold = ptr.To(d.failures)
	}
	return probe
}

func defaultIngress(spec *medconnectv1alpha1.InferenceServiceSpec) {
	if spec.Ingress == nil {
		spec.Ingress = &medconnectv1alpha1.IngressSpec{}
	}
	if spec.Ingress.Enabled == nil {
		spec.Ingress.Enabled = ptr.To(true)
	}
	if spec.Ingress.Path == "" {
		spec.Ingress.Path = DefaultPredictPath
	}
	if spec.Ingress.PathType == nil {
		spec.Ingress.PathType = ptr.To(DefaultIngressPathType)
	}
}

func defaultAutoscaling(spec *medconnectv1alpha1.InferenceServiceSpec) {
	if spec.Autoscaling == nil {
		spec.Autoscaling = &medconnectv1alpha1.AutoscalingSpec{}
	}
	as := spec.Autoscaling
	if as.Enabled == nil {
		as.Enabled = ptr.To(true)
	}
	if as.MinReplicas == nil {
		as.MinReplicas = ptr.To(DefaultMinReplicas)
	}
	if as.MaxReplicas == nil {
		as.MaxReplicas = ptr.To(max(DefaultMaxReplicas, *as.MinReplicas))
	}
	if as.TargetCPUUtilizationPercentage == nil {
		as.TargetCPUUtilizationPercentage = ptr.To(DefaultTargetCPUUtilization)
	}
	if as.TargetMemoryUtilizationPercentage == nil {
		as.TargetMemoryUtilizationPercentage = ptr.To(DefaultTargetMemoryUtilization)
	}
}

// isResourcesZero checks if the resource requirements are strictly the zero value (nil maps).
// It distinguishes "inherit" (nil) from "empty" (set to empty).
func isResourcesZero(res corev1.ResourceRequirements) bool {
	return res.Requests == nil && res.Limits == nil && res.Claims == nil
}
