package inferenceservice

import (
	"k8s.io/apimachinery/pkg/runtime"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
	"github.com/medconnect/inference-operator/pkg/manifest"
	"github.com/medconnect/inference-operator/pkg/resolver"
)

// BuildBundle builds every object declared by a resolved InferenceService.
// The Ingress and autoscaler are left nil when disabled. With a nil scheme
// no owner references are set.
func BuildBundle(
	isvc *medconnectv1alpha1.InferenceService,
	scheme *runtime.Scheme,
) (*manifest.Bundle, error) {
	var (
		b   manifest.Bundle
		err error
	)

	if b.ServiceAccount, err = BuildServiceAccount(isvc, scheme); err != nil {
		return nil, err
	}
	if b.Deployment, err = BuildDeployment(isvc, scheme); err != nil {
		return nil, err
	}
	if b.Service, err = BuildService(isvc, scheme); err != nil {
		return nil, err
	}
	if resolver.IngressEnabled(&isvc.Spec) {
		if b.Ingress, err = BuildIngress(isvc, scheme); err != nil {
			return nil, err
		}
	}
	if resolver.AutoscalingEnabled(&isvc.Spec) {
		if b.Autoscaler, err = BuildHorizontalPodAutoscaler(isvc, scheme); err != nil {
			return nil, err
		}
	}
	return &b, nil
}
