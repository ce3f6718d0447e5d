package inferenceservice

import (
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
	"github.com/medconnect/inference-operator/pkg/autoscaling"
)

// BuildHorizontalPodAutoscaler creates the autoscaler scaling the
// Deployment on average CPU and memory utilization.
func BuildHorizontalPodAutoscaler(
	isvc *medconnectv1alpha1.InferenceService,
	scheme *runtime.Scheme,
) (*autoscalingv2.HorizontalPodAutoscaler, error) {
	policy := policyFor(isvc)

	var metrics []autoscalingv2.MetricSpec
	if policy.TargetCPU > 0 {
		metrics = append(metrics, utilizationMetric(corev1.ResourceCPU, policy.TargetCPU))
	}
	if policy.TargetMemory > 0 {
		metrics = append(metrics, utilizationMetric(corev1.ResourceMemory, policy.TargetMemory))
	}

	hpa := &autoscalingv2.HorizontalPodAutoscaler{
		ObjectMeta: metav1.ObjectMeta{
			Name:      isvc.Name,
			Namespace: isvc.Namespace,
			Labels:    objectLabels(isvc),
		},
		Spec: autoscalingv2.HorizontalPodAutoscalerSpec{
			ScaleTargetRef: autoscalingv2.CrossVersionObjectReference{
				APIVersion: "apps/v1",
				Kind:       "Deployment",
				Name:       isvc.Name,
			},
			MinReplicas: &policy.MinReplicas,
			MaxReplicas: policy.MaxReplicas,
			Metrics:     metrics,
		},
	}

	if err := setOwner(isvc, hpa, scheme); err != nil {
		return nil, err
	}
	return hpa, nil
}

// policyFor extracts the scaling policy of a resolved InferenceService.
func policyFor(isvc *medconnectv1alpha1.InferenceService) autoscaling.Policy {
	var p autoscaling.Policy
	as := isvc.Spec.Autoscaling
	if as == nil {
		return p
	}
	if as.MinReplicas != nil {
		p.MinReplicas = *as.MinReplicas
	}
	if as.MaxReplicas != nil {
		p.MaxReplicas = *as.MaxReplicas
	}
	if as.TargetCPUUtilizationPercentage != nil {
		p.TargetCPU = *as.TargetCPUUtilizationPercentage
	}
	if as.TargetMemoryUtilizationPercentage != nil {
		p.TargetMemory = *as.TargetMemoryUtilizationPercentage
	}
	return p
}

func utilizationMetric(name corev1.ResourceName, target int32) autoscalingv2.MetricSpec {
	return autoscalingv2.MetricSpec{
		Type: autoscalingv2.ResourceMetricSourceType,
		Resource: &autoscalingv2.ResourceMetricSource{
			Name: name,
			Target: autoscalingv2.MetricTarget{
				Type:               autoscalingv2.UtilizationMetricType,
				AverageUtilization: &target,
			},
		},
	}
}
