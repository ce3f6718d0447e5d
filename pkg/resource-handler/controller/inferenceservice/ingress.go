package inferenceservice

import (
	"maps"

	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/utils/ptr"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
	"github.com/medconnect/inference-operator/pkg/resolver"
)

// BuildIngress creates the Ingress routing the predict path to the Service.
func BuildIngress(
	isvc *medconnectv1alpha1.InferenceService,
	scheme *runtime.Scheme,
) (*networkingv1.Ingress, error) {
	spec := isvc.Spec.Ingress
	if spec == nil {
		spec = &medconnectv1alpha1.IngressSpec{}
	}
	path := spec.Path
	if path == "" {
		path = resolver.DefaultPredictPath
	}

	ing := &networkingv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{
			Name:        isvc.Name,
			Namespace:   isvc.Namespace,
			Labels:      objectLabels(isvc),
			Annotations: maps.Clone(spec.Annotations),
		},
		Spec: networkingv1.IngressSpec{
			IngressClassName: spec.ClassName,
			Rules: []networkingv1.IngressRule{
				{
					Host: spec.Host,
					IngressRuleValue: networkingv1.IngressRuleValue{
						HTTP: &networkingv1.HTTPIngressRuleValue{
							Paths: []networkingv1.HTTPIngressPath{
								{
									Path:     path,
									PathType: ptr.To(ptr.Deref(spec.PathType, resolver.DefaultIngressPathType)),
									Backend: networkingv1.IngressBackend{
										Service: &networkingv1.IngressServiceBackend{
											Name: isvc.Name,
											Port: networkingv1.ServiceBackendPort{
												Number: isvc.Spec.ServicePort,
											},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	if err := setOwner(isvc, ing, scheme); err != nil {
		return nil, err
	}
	return ing, nil
}
