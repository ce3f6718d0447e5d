package deploy

import (
	"context"
	"fmt"
	"maps"
	"os"

	"github.com/go-logr/logr"

	"github.com/medconnect/inference-operator/pkg/monitoring"
)

// Deployer runs a deployment.
type Deployer struct {
	Config    Config
	Commander Commander
	// LookPath resolves tools during preflight. Nil uses exec.LookPath.
	LookPath LookPathFunc
	// Identity, when set, is verified after preflight and before any
	// command runs.
	Identity IdentityVerifier
	// Setenv exports variables to the current process. Nil uses os.Setenv.
	Setenv func(key, value string) error
	Logger logr.Logger
}

// Steps returns the commands a deployment runs for opts, in order.
func (d *Deployer) Steps(opts Options) []Command {
	env := opts.Env()
	return []Command{
		{
			Step: "install dependencies",
			Name: "pip3",
			Args: []string{"install", "-r", d.Config.RequirementsFile},
			Env:  env,
		},
		{
			Step: "deploy infrastructure",
			Name: "cdk",
			Args: []string{"deploy", "--all", "--require-approval", "never"},
			Dir:  d.Config.InfraDir,
			Env:  env,
		},
	}
}

// Deploy runs preflight, exports the environment and executes Steps. It
// stops at the first failure.
func (d *Deployer) Deploy(ctx context.Context, opts Options) error {
	ctx, span := monitoring.StartChildSpan(ctx, "Deploy")
	defer span.End()

	logger := d.Logger.WithValues("environment", opts.Environment, "region", opts.Region)

	if err := Preflight(d.Config.RequiredTools(), d.LookPath); err != nil {
		monitoring.RecordSpanError(span, err)
		return err
	}
	logger.V(1).Info("Preflight passed", "tools", d.Config.RequiredTools())

	env := opts.Env()
	if err := d.export(env); err != nil {
		monitoring.RecordSpanError(span, err)
		return err
	}

	if d.Identity != nil {
		id, err := d.Identity.Verify(ctx, opts.Region)
		if err != nil {
			monitoring.RecordSpanError(span, err)
			return err
		}
		logger.Info("Verified AWS identity", "account", id.Account, "arn", id.ARN)
		env = maps.Clone(env)
		env["CDK_DEFAULT_ACCOUNT"] = id.Account
		if err := d.export(map[string]string{"CDK_DEFAULT_ACCOUNT": id.Account}); err != nil {
			monitoring.RecordSpanError(span, err)
			return err
		}
	}

	for _, cmd := range d.Steps(opts) {
		cmd.Env = env
		if err := d.run(ctx, logger, cmd); err != nil {
			monitoring.RecordSpanError(span, err)
			return err
		}
	}

	logger.Info("Deployment complete")
	return nil
}

func (d *Deployer) run(ctx context.Context, logger logr.Logger, cmd Command) error {
	ctx, span := monitoring.StartChildSpan(ctx, cmd.Step)
	defer span.End()

	logger.Info("Running step", "step", cmd.Step, "command", cmd.String(), "dir", cmd.Dir)
	if err := d.Commander.Run(ctx, cmd); err != nil {
		stepErr := &StepError{Step: cmd.Step, Code: exitCodeOf(err), Err: err}
		monitoring.RecordSpanError(span, stepErr)
		return stepErr
	}
	return nil
}

func (d *Deployer) export(env map[string]string) error {
	setenv := d.Setenv
	if setenv == nil {
		setenv = os.Setenv
	}
	for k, v := range env {
		if err := setenv(k, v); err != nil {
			return fmt.Errorf("failed to export %s: %w", k, err)
		}
	}
	return nil
}
