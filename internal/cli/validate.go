package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medconnect/inference-operator/pkg/manifest"
)

// violationsError reports a manifest that failed validation.
type violationsError struct {
	count int
}

func (e *violationsError) Error() string {
	return fmt.Sprintf("manifest has %d violation(s)", e.count)
}

func newValidateCommand(o *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate -f FILE",
		Short: "Check a rendered inference workload manifest for consistency",
		Long: `Parses a multi-document manifest holding a Deployment, Service and
optionally a ServiceAccount, Ingress and HorizontalPodAutoscaler, and checks
the objects against each other: selectors, ports, probe targets, ingress
backend, autoscaler bounds and rollout settings. Every violation is printed
and the command exits 1 when any is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, file)
			if err != nil {
				return err
			}
			defer in.Close()

			bundle, err := manifest.Parse(in)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", file, err)
			}

			out := cmd.OutOrStdout()
			errs := manifest.Validate(bundle)
			for _, e := range errs {
				fmt.Fprintln(out, e.Error())
			}
			if len(errs) > 0 {
				return &violationsError{count: len(errs)}
			}

			plan, err := manifest.RolloutPlan(bundle.Deployment)
			if err != nil {
				return err
			}
			o.logger.V(1).Info("Manifest valid", "objects", len(bundle.Objects()))
			fmt.Fprintf(out, "%d objects valid\n", len(bundle.Objects()))
			fmt.Fprintf(out, "rollout: replicas=%d maxSurge=%d maxUnavailable=%d maxPods=%d expectedUnavailable=%d\n",
				plan.Replicas, plan.MaxSurge, plan.MaxUnavailable, plan.MaxPods, plan.ExpectedUnavailable)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "filename", "f", "", "Manifest file, or - for stdin")
	_ = cmd.MarkFlagRequired("filename")

	return cmd
}
