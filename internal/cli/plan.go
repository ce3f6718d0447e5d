package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/medconnect/inference-operator/pkg/autoscaling"
	"github.com/medconnect/inference-operator/pkg/resolver"
)

func newPlanCommand(o *rootOptions) *cobra.Command {
	var (
		replicas       int32
		cpu            float64
		memory         float64
		policy         autoscaling.Policy
		maxSurge       string
		maxUnavailable string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute the autoscaler's replica count and the rollout bounds",
		Long: `Computes the replica count the autoscaler converges on for the observed
average CPU and memory utilization, and the pod bounds of a rolling update
at that count. Omitted utilizations are treated as unavailable metrics.`,
		Example: `  medconnect plan --replicas 2 --cpu 140
  medconnect plan --replicas 4 --memory 40 --max-unavailable 25%`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := policy.Validate(); err != nil {
				return err
			}

			obs := autoscaling.Observations{}
			if cmd.Flags().Changed("cpu") {
				obs[autoscaling.CPU] = cpu
			}
			if cmd.Flags().Changed("memory") {
				obs[autoscaling.Memory] = memory
			}

			rec := autoscaling.DesiredReplicas(replicas, policy, obs)
			surge := intstr.Parse(maxSurge)
			unavailable := intstr.Parse(maxUnavailable)
			plan, err := autoscaling.PlanRollout(rec.Replicas, &surge, &unavailable)
			if err != nil {
				return err
			}
			o.logger.V(1).Info("Computed plan", "current", replicas, "observations", obs, "recommendation", rec)

			out := cmd.OutOrStdout()
			metric := string(rec.Metric)
			if metric == "" {
				metric = "none"
			}
			fmt.Fprintf(out, "desired replicas: %d (metric=%s unclamped=%d limited=%t)\n",
				rec.Replicas, metric, rec.Unclamped, rec.Limited)
			fmt.Fprintf(out, "rollout: maxSurge=%d maxUnavailable=%d maxPods=%d minAvailable=%d expectedUnavailable=%d zeroDowntime=%t\n",
				plan.MaxSurge, plan.MaxUnavailable, plan.MaxPods, plan.MinAvailable, plan.ExpectedUnavailable, plan.ZeroDowntime())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Int32Var(&replicas, "replicas", resolver.DefaultReplicas, "Current replica count")
	flags.Float64Var(&cpu, "cpu", 0, "Observed average CPU utilization (percent of requests)")
	flags.Float64Var(&memory, "memory", 0, "Observed average memory utilization (percent of requests)")
	flags.Int32Var(&policy.MinReplicas, "min", resolver.DefaultMinReplicas, "Lower replica bound")
	flags.Int32Var(&policy.MaxReplicas, "max", resolver.DefaultMaxReplicas, "Upper replica bound")
	flags.Int32Var(&policy.TargetCPU, "cpu-target", resolver.DefaultTargetCPUUtilization, "CPU utilization target (percent)")
	flags.Int32Var(&policy.TargetMemory, "memory-target", resolver.DefaultTargetMemoryUtilization, "Memory utilization target (percent)")
	flags.StringVar(&maxSurge, "max-surge", strconv.Itoa(int(resolver.DefaultMaxSurge)), "Rollout surge, absolute or percent")
	flags.StringVar(&maxUnavailable, "max-unavailable", strconv.Itoa(int(resolver.DefaultMaxUnavailable)), "Rollout unavailability, absolute or percent")

	return cmd
}
