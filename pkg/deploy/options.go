package deploy

import (
	"fmt"
)

const (
	// DefaultEnvironment is used when no environment argument is given.
	DefaultEnvironment = "dev"
	// DefaultRegion is used when no region argument is given.
	DefaultRegion = "us-east-1"
)

// Options are the positional arguments of a deployment.
type Options struct {
	Environment string
	Region      string
}

// ParseArgs reads up to two positional arguments, environment then region,
// falling back to DefaultEnvironment and DefaultRegion.
func ParseArgs(args []string) (Options, error) {
	if len(args) > 2 {
		return Options{}, &UsageError{Reason: fmt.Sprintf("expected at most 2 arguments, got %d", len(args))}
	}

	opts := Options{
		Environment: DefaultEnvironment,
		Region:      DefaultRegion,
	}
	if len(args) > 0 {
		if args[0] == "" {
			return Options{}, &UsageError{Reason: "environment must not be empty"}
		}
		opts.Environment = args[0]
	}
	if len(args) > 1 {
		if args[1] == "" {
			return Options{}, &UsageError{Reason: "region must not be empty"}
		}
		opts.Region = args[1]
	}
	return opts, nil
}

// Env returns the variables exported for the deployment. CDK_DEFAULT_REGION
// is read by the CDK app to pick the stack region.
func (o Options) Env() map[string]string {
	return map[string]string{
		"ENVIRONMENT":        o.Environment,
		"AWS_REGION":         o.Region,
		"CDK_DEFAULT_REGION": o.Region,
	}
}
