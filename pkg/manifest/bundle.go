package manifest

import (
	appsv1 "k8s.io/api/apps/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Bundle is the set of objects declaring one inference workload. The
// Deployment and Service are required; the other objects are optional.
type Bundle struct {
	ServiceAccount *corev1.ServiceAccount
	Deployment     *appsv1.Deployment
	Service        *corev1.Service
	Ingress        *networkingv1.Ingress
	Autoscaler     *autoscalingv2.HorizontalPodAutoscaler
}

// Objects returns the non-nil objects in apply order: identity first so the
// pods can start under it, the autoscaler last so it finds its target.
func (b *Bundle) Objects() []client.Object {
	var objs []client.Object
	if b.ServiceAccount != nil {
		objs = append(objs, b.ServiceAccount)
	}
	if b.Deployment != nil {
		objs = append(objs, b.Deployment)
	}
	if b.Service != nil {
		objs = append(objs, b.Service)
	}
	if b.Ingress != nil {
		objs = append(objs, b.Ingress)
	}
	if b.Autoscaler != nil {
		objs = append(objs, b.Autoscaler)
	}
	return objs
}

// Namespace returns the namespace of the first object in the bundle.
func (b *Bundle) Namespace() string {
	for _, obj := range b.Objects() {
		return obj.GetNamespace()
	}
	return ""
}

// PodLabels returns the labels of the Deployment's pod template.
func (b *Bundle) PodLabels() map[string]string {
	if b.Deployment == nil {
		return nil
	}
	return b.Deployment.Spec.Template.Labels
}
