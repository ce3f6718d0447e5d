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

// Package status provides utilities for calculating the Phase and status
// conditions of MedConnect custom resources.
package status

import (
	"fmt"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
)

// ComputePhase determines the phase of a workload from its replica counts.
func ComputePhase(ready, total int32) medconnectv1alpha1.Phase {
	if total == 0 {
		return medconnectv1alpha1.PhaseInitializing
	}
	if ready >= total {
		return medconnectv1alpha1.PhaseHealthy
	}
	if ready == 0 {
		return medconnectv1alpha1.PhaseDegraded
	}
	return medconnectv1alpha1.PhaseProgressing
}

// SetReadyCondition records the Ready condition for the given replica counts.
func SetReadyCondition(conditions *[]metav1.Condition, generation int64, ready, total int32) {
	cond := metav1.Condition{
		Type:               medconnectv1alpha1.ConditionReady,
		ObservedGeneration: generation,
	}
	if total > 0 && ready >= total {
		cond.Status = metav1.ConditionTrue
		cond.Reason = "AllReplicasReady"
		cond.Message = fmt.Sprintf("All %d replicas are ready", ready)
	} else {
		cond.Status = metav1.ConditionFalse
		cond.Reason = "NotAllReplicasReady"
		cond.Message = fmt.Sprintf("%d/%d replicas ready", ready, total)
	}
	meta.SetStatusCondition(conditions, cond)
}

// SetValidCondition records the outcome of bundle validation. A nil err
// marks the resource valid.
func SetValidCondition(conditions *[]metav1.Condition, generation int64, err error) {
	cond := metav1.Condition{
		Type:               medconnectv1alpha1.ConditionValid,
		ObservedGeneration: generation,
		Status:             metav1.ConditionTrue,
		Reason:             "Valid",
		Message:            "Rendered objects are consistent",
	}
	if err != nil {
		cond.Status = metav1.ConditionFalse
		cond.Reason = "ValidationFailed"
		cond.Message = err.Error()
	}
	meta.SetStatusCondition(conditions, cond)
}
