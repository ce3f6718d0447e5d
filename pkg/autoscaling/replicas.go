package autoscaling

import (
	"fmt"
	"math"
)

// DefaultTolerance is the relative distance from the target within which no
// scaling happens.
const DefaultTolerance = 0.1

// Resource names a utilization metric.
type Resource string

const (
	CPU    Resource = "cpu"
	Memory Resource = "memory"
)

// Policy is an elastic scaling policy. Targets are average utilization
// percentages of the requested resources; a zero target disables that
// metric.
type Policy struct {
	MinReplicas  int32
	MaxReplicas  int32
	TargetCPU    int32
	TargetMemory int32
	// Tolerance overrides DefaultTolerance when positive.
	Tolerance float64
}

// Validate reports whether the policy bounds are usable.
func (p Policy) Validate() error {
	if p.MinReplicas < 1 {
		return fmt.Errorf("minReplicas must be at least 1, got %d", p.MinReplicas)
	}
	if p.MinReplicas > p.MaxReplicas {
		return fmt.Errorf("minReplicas (%d) must not exceed maxReplicas (%d)", p.MinReplicas, p.MaxReplicas)
	}
	for _, t := range []struct {
		name  Resource
		value int32
	}{{CPU, p.TargetCPU}, {Memory, p.TargetMemory}} {
		if t.value < 0 || t.value > 100 {
			return fmt.Errorf("%s target must be between 0 and 100, got %d", t.name, t.value)
		}
	}
	return nil
}

// Clamp bounds n to [MinReplicas, MaxReplicas].
func (p Policy) Clamp(n int32) int32 {
	return min(max(n, p.MinReplicas), p.MaxReplicas)
}

func (p Policy) target(r Resource) int32 {
	switch r {
	case CPU:
		return p.TargetCPU
	case Memory:
		return p.TargetMemory
	}
	return 0
}

func (p Policy) tolerance() float64 {
	if p.Tolerance > 0 {
		return p.Tolerance
	}
	return DefaultTolerance
}

// Observations maps a resource to its observed average utilization
// percentage. A missing entry means the metric is unavailable.
type Observations map[Resource]float64

// Recommendation is the outcome of DesiredReplicas.
type Recommendation struct {
	// Replicas is the clamped desired count.
	Replicas int32
	// Unclamped is the highest per-metric proposal before bounds apply.
	Unclamped int32
	// Metric is the resource that produced Unclamped. Empty when no metric
	// was usable.
	Metric Resource
	// Limited is true when the bounds changed the proposal.
	Limited bool
}

// DesiredReplicas computes the replica count the autoscaler converges on
// for the given observations. Each metric proposes
// ceil(current * observed / target) unless the ratio lies within the
// tolerance of 1, in which case it proposes current. The largest proposal
// wins and is clamped to the policy bounds. Without any usable metric the
// current count is kept (still clamped). A current count of zero means
// scaling is disabled and is returned unchanged.
func DesiredReplicas(current int32, policy Policy, obs Observations) Recommendation {
	if current <= 0 {
		return Recommendation{}
	}

	best := int32(-1)
	var metric Resource
	for _, r := range []Resource{CPU, Memory} {
		target := policy.target(r)
		observed, ok := obs[r]
		if target <= 0 || !ok || observed < 0 || math.IsNaN(observed) || math.IsInf(observed, 0) {
			continue
		}
		proposal := proposeReplicas(current, observed/float64(target), policy.tolerance())
		if proposal > best {
			best = proposal
			metric = r
		}
	}

	if best < 0 {
		best = current
	}
	out := policy.Clamp(best)
	return Recommendation{
		Replicas:  out,
		Unclamped: best,
		Metric:    metric,
		Limited:   out != best,
	}
}

func proposeReplicas(current int32, ratio, tolerance float64) int32 {
	if math.Abs(ratio-1.0) <= tolerance {
		return current
	}
	n := math.Ceil(ratio * float64(current))
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(n)
}
