package inferenceservice

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
)

// BuildService creates the Service in front of the inference pods.
func BuildService(
	isvc *medconnectv1alpha1.InferenceService,
	scheme *runtime.Scheme,
) (*corev1.Service, error) {
	svc := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      isvc.Name,
			Namespace: isvc.Namespace,
			Labels:    objectLabels(isvc),
		},
		Spec: corev1.ServiceSpec{
			Type:     isvc.Spec.ServiceType,
			Selector: selectorLabels(isvc),
			Ports:    buildServicePorts(isvc),
		},
	}

	if err := setOwner(isvc, svc, scheme); err != nil {
		return nil, err
	}
	return svc, nil
}
