package inferenceservice

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/utils/ptr"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
	"github.com/medconnect/inference-operator/pkg/resource-handler/controller/metadata"
)

// ContainerName is the name of the inference container.
const ContainerName = "inference"

// BuildDeployment creates the Deployment running the inference container.
// isvc must already be resolved.
func BuildDeployment(
	isvc *medconnectv1alpha1.InferenceService,
	scheme *runtime.Scheme,
) (*appsv1.Deployment, error) {
	labels := objectLabels(isvc)
	podLabels := metadata.MergeLabels(labels, isvc.Spec.PodLabels)

	strategy := appsv1.DeploymentStrategy{Type: appsv1.RollingUpdateDeploymentStrategyType}
	if rollout := isvc.Spec.Rollout; rollout != nil {
		strategy.RollingUpdate = &appsv1.RollingUpdateDeployment{
			MaxSurge:       rollout.MaxSurge,
			MaxUnavailable: rollout.MaxUnavailable,
		}
	}

	deployment := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      isvc.Name,
			Namespace: isvc.Namespace,
			Labels:    labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(ptr.Deref(isvc.Spec.Replicas, 1)),
			Selector: &metav1.LabelSelector{
				MatchLabels: selectorLabels(isvc),
			},
			Strategy: strategy,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels:      podLabels,
					Annotations: isvc.Spec.PodAnnotations,
				},
				Spec: corev1.PodSpec{
					ServiceAccountName: serviceAccountName(isvc),
					Containers: []corev1.Container{
						{
							Name:            ContainerName,
							Image:           isvc.Spec.Image,
							ImagePullPolicy: isvc.Spec.ImagePullPolicy,
							Ports:           buildContainerPorts(isvc),
							Env:             buildContainerEnv(isvc),
							Resources:       isvc.Spec.Resources,
							LivenessProbe:   buildProbe(isvc.Spec.LivenessProbe),
							ReadinessProbe:  buildProbe(isvc.Spec.ReadinessProbe),
						},
					},
				},
			},
		},
	}

	if err := setOwner(isvc, deployment, scheme); err != nil {
		return nil, err
	}
	return deployment, nil
}
