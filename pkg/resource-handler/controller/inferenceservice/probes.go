package inferenceservice

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
)

// buildProbe converts an HTTP probe spec into an HTTP GET probe against the
// named container port. A nil spec yields no probe.
func buildProbe(spec *medconnectv1alpha1.HTTPProbeSpec) *corev1.Probe {
	if spec == nil {
		return nil
	}
	return &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			HTTPGet: &corev1.HTTPGetAction{
				Path:   spec.Path,
				Port:   intstr.FromString(HTTPPortName),
				Scheme: corev1.URISchemeHTTP,
			},
		},
		InitialDelaySeconds: ptr.Deref(spec.InitialDelaySeconds, 0),
		PeriodSeconds:       ptr.Deref(spec.PeriodSeconds, 0),
		TimeoutSeconds:      ptr.Deref(spec.TimeoutSeconds, 0),
		FailureThreshold:    ptr.Deref(spec.FailureThreshold, 0),
	}
}
