package status

import (
	"errors"
	"testing"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	medconnectv1alpha1 "github.com/medconnect/inference-operator/api/v1alpha1"
)

func TestComputePhase(t *testing.T) {
	tests := []struct {
		name  string
		ready int32
		total int32
		want  medconnectv1alpha1.Phase
	}{
		{
			name:  "Zero Total -> Initializing",
			ready: 0,
			total: 0,
			want:  medconnectv1alpha1.PhaseInitializing,
		},
		{
			name:  "Ready Equal Total -> Healthy",
			ready: 2,
			total: 2,
			want:  medconnectv1alpha1.PhaseHealthy,
		},
		{
			name:  "Ready Less Than Total -> Progressing",
			ready: 2,
			total: 3,
			want:  medconnectv1alpha1.PhaseProgressing,
		},
		{
			name:  "Ready Zero (with Positive Total) -> Degraded",
			ready: 0,
			total: 3,
			want:  medconnectv1alpha1.PhaseDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputePhase(tt.ready, tt.total); got != tt.want {
				t.Errorf("ComputePhase() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetReadyCondition(t *testing.T) {
	var conditions []metav1.Condition

	SetReadyCondition(&conditions, 3, 1, 2)
	cond := meta.FindStatusCondition(conditions, medconnectv1alpha1.ConditionReady)
	if cond == nil || cond.Status != metav1.ConditionFalse || cond.Message != "1/2 replicas ready" {
		t.Fatalf("Ready condition = %+v, want False with 1/2", cond)
	}

	SetReadyCondition(&conditions, 4, 2, 2)
	cond = meta.FindStatusCondition(conditions, medconnectv1alpha1.ConditionReady)
	if cond.Status != metav1.ConditionTrue || cond.ObservedGeneration != 4 {
		t.Errorf("Ready condition = %+v, want True at generation 4", cond)
	}
	if len(conditions) != 1 {
		t.Errorf("len(conditions) = %d, want 1", len(conditions))
	}
}

func TestSetValidCondition(t *testing.T) {
	var conditions []metav1.Condition

	SetValidCondition(&conditions, 1, errors.New("service selector does not match"))
	if !meta.IsStatusConditionFalse(conditions, medconnectv1alpha1.ConditionValid) {
		t.Errorf("Valid condition should be False: %+v", conditions)
	}

	SetValidCondition(&conditions, 2, nil)
	if !meta.IsStatusConditionTrue(conditions, medconnectv1alpha1.ConditionValid) {
		t.Errorf("Valid condition should be True: %+v", conditions)
	}
}
