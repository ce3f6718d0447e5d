/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

// NOTE: json tags are required.  Any new fields you add must have json tags for
// the fields to be serialized.

// InferenceServiceSpec defines the desired state of InferenceService.
type InferenceServiceSpec struct {
	// Image is the container image serving inference requests.
	// +kubebuilder:validation:MinLength=1
	// +optional
	Image string `json:"image,omitempty"`

	// ImagePullPolicy for the inference container.
	// +kubebuilder:validation:Enum=Always;IfNotPresent;Never
	// +optional
	ImagePullPolicy corev1.PullPolicy `json:"imagePullPolicy,omitempty"`

	// Replicas is the initial number of inference pods. When autoscaling is
	// enabled it must lie within the autoscaling bounds.
	// +kubebuilder:validation:Minimum=1
	// +optional
	Replicas *int32 `json:"replicas,omitempty"`

	// Rollout bounds the rolling update.
	// +optional
	Rollout *RolloutSpec `json:"rollout,omitempty"`

	// Resources defines the compute resource requirements.
	// +optional
	Resources corev1.ResourceRequirements `json:"resources,omitempty"`

	// ContainerPort is the port the inference container listens on.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=65535
	// +optional
	ContainerPort int32 `json:"containerPort,omitempty"`

	// ServicePort is the port exposed by the Service.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=65535
	// +optional
	ServicePort int32 `json:"servicePort,omitempty"`

	// ServiceType determines how the Service is exposed.
	// +kubebuilder:validation:Enum=ClusterIP;NodePort;LoadBalancer
	// +optional
	ServiceType corev1.ServiceType `json:"serviceType,omitempty"`

	// Environment holds the runtime contract injected into the container.
	// +optional
	Environment WorkloadEnvironment `json:"environment,omitempty"`

	// ExtraEnv are additional environment variables. They may not shadow the
	// variables derived from Environment.
	// +optional
	ExtraEnv []corev1.EnvVar `json:"extraEnv,omitempty"`

	// LivenessProbe configures the liveness check.
	// +optional
	LivenessProbe *HTTPProbeSpec `json:"livenessProbe,omitempty"`

	// ReadinessProbe configures the readiness check.
	// +optional
	ReadinessProbe *HTTPProbeSpec `json:"readinessProbe,omitempty"`

	// ServiceAccount binds the pods to an external cloud role.
	// +optional
	ServiceAccount *ServiceAccountSpec `json:"serviceAccount,omitempty"`

	// Ingress routes external traffic to the Service.
	// +optional
	Ingress *IngressSpec `json:"ingress,omitempty"`

	// Autoscaling configures the elastic scaling policy.
	// +optional
	Autoscaling *AutoscalingSpec `json:"autoscaling,omitempty"`

	// Telemetry configures OpenTelemetry export for the inference container.
	// +optional
	Telemetry *TelemetryConfig `json:"telemetry,omitempty"`

	// PodAnnotations are annotations to add to the pods.
	// +optional
	PodAnnotations map[string]string `json:"podAnnotations,omitempty"`

	// PodLabels are additional labels to add to the pods.
	// +optional
	PodLabels map[string]string `json:"podLabels,omitempty"`
}

// RolloutSpec bounds a rolling update. Either value may be an absolute
// number or a percentage of the desired replicas.
type RolloutSpec struct {
	// MaxSurge is the number of pods allowed above the desired count.
	// +optional
	MaxSurge *intstr.IntOrString `json:"maxSurge,omitempty"`

	// MaxUnavailable is the number of pods allowed to be unavailable.
	// Zero requests a zero-downtime rollout.
	// +optional
	MaxUnavailable *intstr.IntOrString `json:"maxUnavailable,omitempty"`
}

// WorkloadEnvironment is the set of variables every inference pod receives.
type WorkloadEnvironment struct {
	// Environment is the deployment stage (dev, staging, prod).
	// +optional
	Environment string `json:"environment,omitempty"`

	// LogLevel for the inference process.
	// +kubebuilder:validation:Enum=DEBUG;INFO;WARNING;ERROR
	// +optional
	LogLevel string `json:"logLevel,omitempty"`

	// PatientTableName is the patient table.
	// +optional
	PatientTableName string `json:"patientTableName,omitempty"`

	// ObservationTableName is the observation table.
	// +optional
	ObservationTableName string `json:"observationTableName,omitempty"`

	// PredictionTableName is the prediction table.
	// +optional
	PredictionTableName string `json:"predictionTableName,omitempty"`

	// MLPredictionStream is the stream predictions are published to.
	// +optional
	MLPredictionStream string `json:"mlPredictionStream,omitempty"`

	// NotificationStream is the stream notifications are published to.
	// +optional
	NotificationStream string `json:"notificationStream,omitempty"`

	// AWSRegion is the region of the backing tables and streams.
	// +optional
	AWSRegion string `json:"awsRegion,omitempty"`
}

// ServiceAccountSpec describes the identity binding.
type ServiceAccountSpec struct {
	// Name of the ServiceAccount. Defaults to "<name>-sa".
	// +optional
	Name string `json:"name,omitempty"`

	// RoleARN is the external cloud role assumed by the pods.
	// +optional
	RoleARN string `json:"roleArn,omitempty"`
}

// IngressSpec describes the ingress rule.
type IngressSpec struct {
	// Enabled toggles creation of the Ingress.
	// +optional
	Enabled *bool `json:"enabled,omitempty"`

	// Path is the routed path.
	// +kubebuilder:validation:Pattern="^/.*$"
	// +optional
	Path string `json:"path,omitempty"`

	// PathType controls path matching.
	// +kubebuilder:validation:Enum=Prefix;Exact;ImplementationSpecific
	// +optional
	PathType *networkingv1.PathType `json:"pathType,omitempty"`

	// ClassName selects the ingress controller.
	// +optional
	ClassName *string `json:"className,omitempty"`

	// Host restricts the rule to a single host name.
	// +optional
	Host string `json:"host,omitempty"`

	// Annotations are added to the Ingress.
	// +optional
	Annotations map[string]string `json:"annotations,omitempty"`
}

// AutoscalingSpec describes the elastic scaling policy.
//
// +kubebuilder:validation:XValidation:rule="!has(self.minReplicas) || !has(self.maxReplicas) || self.minReplicas <= self.maxReplicas",message="minReplicas must not exceed maxReplicas"
type AutoscalingSpec struct {
	// Enabled toggles creation of the HorizontalPodAutoscaler.
	// +optional
	Enabled *bool `json:"enabled,omitempty"`

	// MinReplicas is the lower replica bound.
	// +kubebuilder:validation:Minimum=1
	// +optional
	MinReplicas *int32 `json:"minReplicas,omitempty"`

	// MaxReplicas is the upper replica bound.
	// +kubebuilder:validation:Minimum=1
	// +optional
	MaxReplicas *int32 `json:"maxReplicas,omitempty"`

	// TargetCPUUtilizationPercentage is the average CPU utilization target.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=100
	// +optional
	TargetCPUUtilizationPercentage *int32 `json:"targetCPUUtilizationPercentage,omitempty"`

	// TargetMemoryUtilizationPercentage is the average memory utilization target.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=100
	// +optional
	TargetMemoryUtilizationPercentage *int32 `json:"targetMemoryUtilizationPercentage,omitempty"`
}

// InferenceServiceStatus defines the observed state of InferenceService.
type InferenceServiceStatus struct {
	// Phase is the aggregated lifecycle state.
	// +optional
	Phase Phase `json:"phase,omitempty"`

	// Ready indicates whether every desired replica is ready.
	Ready bool `json:"ready"`

	// Replicas is the number of pods observed on the Deployment.
	Replicas int32 `json:"replicas"`

	// ReadyReplicas is the number of ready pods.
	ReadyReplicas int32 `json:"readyReplicas"`

	// DesiredReplicas is the replica count last computed by the autoscaler.
	// +optional
	DesiredReplicas int32 `json:"desiredReplicas,omitempty"`

	// ObservedGeneration reflects the generation of the most recently observed spec.
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// Conditions represent the latest available observations.
	// +listType=map
	// +listMapKey=type
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=isvc
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Ready",type=string,JSONPath=`.status.readyReplicas`
// +kubebuilder:printcolumn:name="Desired",type=string,JSONPath=`.status.desiredReplicas`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// InferenceService is the Schema for the inferenceservices API
type InferenceService struct {
	metav1.TypeMeta `json:",inline"`

	// metadata is a standard object metadata
	// +optional
	metav1.ObjectMeta `json:"metadata,omitempty,omitzero"`

	// spec defines the desired state of InferenceService
	// +required
	Spec InferenceServiceSpec `json:"spec"`

	// status defines the observed state of InferenceService
	// +optional
	Status InferenceServiceStatus `json:"status,omitempty,omitzero"`
}

// +kubebuilder:object:root=true

// InferenceServiceList contains a list of InferenceService
type InferenceServiceList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []InferenceService `json:"items"`
}

func init() {
	SchemeBuilder.Register(&InferenceService{}, &InferenceServiceList{})
}
