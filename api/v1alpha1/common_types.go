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

// ============================================================================
// Shared Status Types
// ============================================================================

// Phase represents the aggregated lifecycle state of a resource.
// +kubebuilder:validation:Enum=Initializing;Progressing;Healthy;Degraded;Invalid
type Phase string

const (
	// PhaseInitializing means no replicas have been observed yet.
	PhaseInitializing Phase = "Initializing"
	// PhaseProgressing means some, but not all, replicas are ready.
	PhaseProgressing Phase = "Progressing"
	// PhaseHealthy means every desired replica is ready.
	PhaseHealthy Phase = "Healthy"
	// PhaseDegraded means replicas existed but none are ready.
	PhaseDegraded Phase = "Degraded"
	// PhaseInvalid means the desired state violates a cross-object invariant
	// and nothing was applied.
	PhaseInvalid Phase = "Invalid"
)

const (
	// ConditionReady reports whether all replicas are ready.
	ConditionReady = "Ready"
	// ConditionValid reports whether the rendered objects passed validation.
	ConditionValid = "Valid"
)

// ============================================================================
// Shared Configuration Structs
// ============================================================================

// HTTPProbeSpec configures an HTTP GET health check against the container port.
type HTTPProbeSpec struct {
	// Path is the HTTP path probed on the container port.
	// +kubebuilder:validation:Pattern="^/.*$"
	// +optional
	Path string `json:"path,omitempty"`

	// InitialDelaySeconds before the first probe.
	// +kubebuilder:validation:Minimum=0
	// +optional
	InitialDelaySeconds *int32 `json:"initialDelaySeconds,omitempty"`

	// PeriodSeconds between probes.
	// +kubebuilder:validation:Minimum=1
	// +optional
	PeriodSeconds *int32 `json:"periodSeconds,omitempty"`

	// TimeoutSeconds after which a probe is considered failed.
	// +kubebuilder:validation:Minimum=1
	// +optional
	TimeoutSeconds *int32 `json:"timeoutSeconds,omitempty"`

	// FailureThreshold is the number of consecutive failures tolerated.
	// +kubebuilder:validation:Minimum=1
	// +optional
	FailureThreshold *int32 `json:"failureThreshold,omitempty"`
}
