package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/medconnect/inference-operator/pkg/deploy"
)

func newDeployCommand(o *rootOptions) *cobra.Command {
	var (
		verifyIdentity bool
		dryRun         bool
		requirements   string
		infraDir       string
		tools          []string
	)

	cmd := &cobra.Command{
		Use:   "deploy [environment] [region]",
		Short: "Install dependencies and deploy the platform infrastructure",
		Long: `Checks that aws, python3, pip3 and cdk are installed, exports ENVIRONMENT
and AWS_REGION, installs the Python requirements and runs
"cdk deploy --all --require-approval never" in the infrastructure directory.

The environment defaults to dev and the region to us-east-1. The first
failing step stops the deployment and its exit code becomes the exit code
of this command.`,
		Example: `  medconnect deploy
  medconnect deploy prod eu-west-1 --verify-identity`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := deploy.ParseArgs(args)
			if err != nil {
				return err
			}

			cfg, err := deploy.LoadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("requirements") {
				cfg.RequirementsFile = requirements
			}
			if flags.Changed("infra-dir") {
				cfg.InfraDir = infraDir
			}
			if flags.Changed("tools") {
				cfg.Tools = tools
			}

			d := &deploy.Deployer{
				Config:    cfg,
				Commander: o.commander,
				LookPath:  o.lookPath,
				Setenv:    o.setenv,
				Logger:    o.logger.WithName("deploy"),
			}
			if d.Commander == nil {
				d.Commander = &deploy.ExecCommander{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
			}
			if dryRun {
				d.Commander = &printCommander{w: cmd.OutOrStdout()}
			}
			if verifyIdentity {
				d.Identity = o.identity
				if d.Identity == nil {
					d.Identity = deploy.NewSTSVerifier()
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deploying MedConnect to %s in %s\n", opts.Environment, opts.Region)
			if err := d.Deploy(cmd.Context(), opts); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deployment complete")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&verifyIdentity, "verify-identity", false, "Confirm AWS credentials with STS before deploying")
	flags.BoolVar(&dryRun, "dry-run", false, "Print the steps instead of running them")
	flags.StringVar(&requirements, "requirements", "", "Python requirements file (default $MEDCONNECT_REQUIREMENTS_FILE or requirements.txt)")
	flags.StringVar(&infraDir, "infra-dir", "", "CDK app directory (default $MEDCONNECT_INFRA_DIR or infrastructure)")
	flags.StringSliceVar(&tools, "tools", nil, "Executables checked before deploying (default aws,python3,pip3,cdk)")

	return cmd
}

// printCommander writes each command instead of running it.
type printCommander struct {
	w io.Writer
}

func (p *printCommander) Run(_ context.Context, cmd deploy.Command) error {
	if cmd.Dir != "" {
		_, err := fmt.Fprintf(p.w, "(cd %s && %s)\n", cmd.Dir, cmd)
		return err
	}
	_, err := fmt.Fprintln(p.w, cmd.String())
	return err
}
