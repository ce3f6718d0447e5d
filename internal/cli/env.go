package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/medconnect/inference-operator/pkg/workloadenv"
)

// missingEnvError lists contract variables absent from the environment.
type missingEnvError struct {
	names []string
}

func (e *missingEnvError) Error() string {
	return "missing workload environment variables: " + strings.Join(e.names, ", ")
}

func newEnvCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Inspect the inference workload environment",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Report which workload environment variables are set",
		Long: `Loads the eight variables every inference pod receives from the current
environment, prints them and exits 1 when any is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := workloadenv.LoadPartial()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			values := cfg.Values()
			for _, name := range workloadenv.Names {
				if v := values[name]; v != "" {
					fmt.Fprintf(out, "%s=%s\n", name, v)
				} else {
					fmt.Fprintf(out, "%s (missing)\n", name)
				}
			}

			if missing := cfg.Missing(); len(missing) > 0 {
				return &missingEnvError{names: missing}
			}
			o.logger.V(1).Info("Workload environment complete")
			return nil
		},
	})

	return cmd
}
