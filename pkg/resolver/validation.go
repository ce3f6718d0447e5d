package resolver

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
	"github.com/medconnect/inference-operator/pkg/workloadenv"
)

// ValidateSpec checks rules that concern the InferenceService spec alone.
// It expects a resolved object (see Resolve); unset optional fields are
// skipped rather than reported.
func ValidateSpec(isvc *medconnectv1alpha1.InferenceService) field.ErrorList {
	var errs field.ErrorList
	spec := &isvc.Spec
	specPath := field.NewPath("spec")

	for _, p := range []struct {
		name  string
		value int32
	}{
		{"containerPort", spec.ContainerPort},
		{"servicePort", spec.ServicePort},
	} {
		if p.value != 0 && (p.value < 1 || p.value > 65535) {
			errs = append(errs, field.Invalid(specPath.Child(p.name), p.value, "must be between 1 and 65535"))
		}
	}

	if spec.Replicas != nil && *spec.Replicas < 1 {
		errs = append(errs, field.Invalid(specPath.Child("replicas"), *spec.Replicas, "must be at least 1"))
	}

	for i, env := range spec.ExtraEnv {
		if workloadenv.IsContractName(env.Name) {
			errs = append(errs, field.Forbidden(
				specPath.Child("extraEnv").Index(i).Child("name"),
				"may not shadow "+env.Name+"; set it through spec.environment",
			))
		}
	}

	for _, probe := range []struct {
		name string
		spec *medconnectv1alpha1.HTTPProbeSpec
	}{
		{"livenessProbe", spec.LivenessProbe},
		{"readinessProbe", spec.ReadinessProbe},
	} {
		if probe.spec != nil && probe.spec.Path != "" && !strings.HasPrefix(probe.spec.Path, "/") {
			errs = append(errs, field.Invalid(specPath.Child(probe.name, "path"), probe.spec.Path, "must start with '/'"))
		}
	}

	if spec.Ingress != nil && spec.Ingress.Path != "" && !strings.HasPrefix(spec.Ingress.Path, "/") {
		errs = append(errs, field.Invalid(specPath.Child("ingress", "path"), spec.Ingress.Path, "must start with '/'"))
	}

	if AutoscalingEnabled(spec) && spec.Autoscaling != nil {
		errs = append(errs, validateAutoscaling(spec, specPath.Child("autoscaling"))...)
	}

	return errs
}

func validateAutoscaling(
	spec *medconnectv1alpha1.InferenceServiceSpec,
	path *field.Path,
) field.ErrorList {
	var errs field.ErrorList
	as := spec.Autoscaling

	if as.MinReplicas != nil && *as.MinReplicas < 1 {
		errs = append(errs, field.Invalid(path.Child("minReplicas"), *as.MinReplicas, "must be at least 1"))
	}
	if as.MinReplicas != nil && as.MaxReplicas != nil && *as.MinReplicas > *as.MaxReplicas {
		errs = append(errs, field.Invalid(path.Child("maxReplicas"), *as.MaxReplicas, "must not be less than minReplicas"))
	}
	if spec.Replicas != nil && as.MinReplicas != nil && *spec.Replicas < *as.MinReplicas {
		errs = append(errs, field.Invalid(field.NewPath("spec", "replicas"), *spec.Replicas, "must not be less than autoscaling.minReplicas"))
	} else if spec.Replicas != nil && as.MaxReplicas != nil && *spec.Replicas > *as.MaxReplicas {
		errs = append(errs, field.Invalid(field.NewPath("spec", "replicas"), *spec.Replicas, "must not exceed autoscaling.maxReplicas"))
	}

	for _, target := range []struct {
		name  string
		value *int32
	}{
		{"targetCPUUtilizationPercentage", as.TargetCPUUtilizationPercentage},
		{"targetMemoryUtilizationPercentage", as.TargetMemoryUtilizationPercentage},
	} {
		if target.value != nil && (*target.value < 1 || *target.value > 100) {
			errs = append(errs, field.Invalid(path.Child(target.name), *target.value, "must be between 1 and 100"))
		}
	}

	if as.TargetCPUUtilizationPercentage == nil && as.TargetMemoryUtilizationPercentage == nil {
		errs = append(errs, field.Required(path, "at least one utilization target is required"))
	}

	return errs
}
