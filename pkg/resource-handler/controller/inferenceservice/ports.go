package inferenceservice

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
)

// HTTPPortName names the inference container port.
const HTTPPortName = "http"

// buildContainerPorts creates the port definitions for the inference container.
func buildContainerPorts(isvc *medconnectv1alpha1.InferenceService) []corev1.ContainerPort {
	return []corev1.ContainerPort{
		{
			Name:          HTTPPortName,
			ContainerPort: isvc.Spec.ContainerPort,
			Protocol:      corev1.ProtocolTCP,
		},
	}
}

// buildServicePorts maps the service port onto the named container port.
func buildServicePorts(isvc *medconnectv1alpha1.InferenceService) []corev1.ServicePort {
	return []corev1.ServicePort{
		{
			Name:       HTTPPortName,
			Port:       isvc.Spec.ServicePort,
			TargetPort: intstr.FromString(HTTPPortName),
			Protocol:   corev1.ProtocolTCP,
		},
	}
}
