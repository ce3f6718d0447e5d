package inferenceservice

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
	"github.com/medconnect/inference-operator/pkg/resolver"
	"github.com/medconnect/inference-operator/pkg/resource-handler/controller/metadata"
)

// BuildServiceAccount creates the identity the inference pods run under,
// annotated with the external role it assumes.
func BuildServiceAccount(
	isvc *medconnectv1alpha1.InferenceService,
	scheme *runtime.Scheme,
) (*corev1.ServiceAccount, error) {
	sa := &corev1.ServiceAccount{
		ObjectMeta: metav1.ObjectMeta{
			Name:      serviceAccountName(isvc),
			Namespace: isvc.Namespace,
			Labels:    objectLabels(isvc),
		},
	}
	if isvc.Spec.ServiceAccount != nil && isvc.Spec.ServiceAccount.RoleARN != "" {
		sa.Annotations = map[string]string{
			metadata.AnnotationRoleARN: isvc.Spec.ServiceAccount.RoleARN,
		}
	}

	if err := setOwner(isvc, sa, scheme); err != nil {
		return nil, err
	}
	return sa, nil
}

func serviceAccountName(isvc *medconnectv1alpha1.InferenceService) string {
	if isvc.Spec.ServiceAccount != nil && isvc.Spec.ServiceAccount.Name != "" {
		return isvc.Spec.ServiceAccount.Name
	}
	return isvc.Name + resolver.ServiceAccountSuffix
}
