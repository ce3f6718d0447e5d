package autoscaling

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/intstr"
)

// RolloutPlan describes the pod bounds of a rolling update.
type RolloutPlan struct {
	Replicas int32
	// MaxSurge is the resolved number of pods allowed above Replicas.
	MaxSurge int32
	// MaxUnavailable is the resolved number of pods allowed to be unavailable.
	MaxUnavailable int32
	// MaxPods is the largest number of pods that exist during the rollout.
	MaxPods int32
	// MinAvailable is the smallest number of available pods during the rollout.
	MinAvailable int32
	// ExpectedUnavailable is the number of desired replicas that may be
	// unavailable at any time during the rollout.
	ExpectedUnavailable int32
}

// ZeroDowntime reports whether every desired replica stays available.
func (p RolloutPlan) ZeroDowntime() bool {
	return p.ExpectedUnavailable == 0
}

// PlanRollout resolves surge and unavailability bounds against replicas.
// Percentages are scaled the way the Deployment controller does it: surge
// rounds up and unavailability rounds down. When both resolve to zero the
// controller substitutes a surge of one, and so does PlanRollout.
func PlanRollout(replicas int32, maxSurge, maxUnavailable *intstr.IntOrString) (RolloutPlan, error) {
	if replicas < 0 {
		return RolloutPlan{}, fmt.Errorf("replicas must not be negative, got %d", replicas)
	}

	surge, err := resolve(maxSurge, replicas, true)
	if err != nil {
		return RolloutPlan{}, fmt.Errorf("invalid maxSurge: %w", err)
	}
	unavailable, err := resolve(maxUnavailable, replicas, false)
	if err != nil {
		return RolloutPlan{}, fmt.Errorf("invalid maxUnavailable: %w", err)
	}

	if surge == 0 && unavailable == 0 {
		surge = 1
	}
	unavailable = min(unavailable, replicas)

	return RolloutPlan{
		Replicas:            replicas,
		MaxSurge:            surge,
		MaxUnavailable:      unavailable,
		MaxPods:             replicas + surge,
		MinAvailable:        replicas - unavailable,
		ExpectedUnavailable: unavailable,
	}, nil
}

// BothZero reports whether the bounds resolve to a rollout that cannot make
// progress without the controller's surge substitution.
func BothZero(replicas int32, maxSurge, maxUnavailable *intstr.IntOrString) (bool, error) {
	surge, err := resolve(maxSurge, replicas, true)
	if err != nil {
		return false, err
	}
	unavailable, err := resolve(maxUnavailable, replicas, false)
	if err != nil {
		return false, err
	}
	return surge == 0 && unavailable == 0, nil
}

func resolve(v *intstr.IntOrString, replicas int32, roundUp bool) (int32, error) {
	if v == nil {
		return 0, nil
	}
	n, err := intstr.GetScaledValueFromIntOrPercent(v, int(replicas), roundUp)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative, got %d", n)
	}
	return int32(n), nil
}
