package inferenceservice

import (
	corev1 "k8s.io/api/core/v1"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
	"github.com/medconnect/inference-operator/pkg/workloadenv"
)

// buildContainerEnv returns the workload contract variables followed by the
// user's extra variables and the OpenTelemetry settings.
func buildContainerEnv(isvc *medconnectv1alpha1.InferenceService) []corev1.EnvVar {
	env := workloadenv.FromSpec(isvc.Spec.Environment).EnvVars()
	env = append(env, isvc.Spec.ExtraEnv...)
	env = append(env, medconnectv1alpha1.BuildOTELEnvVars(isvc.Spec.Telemetry)...)
	return env
}
