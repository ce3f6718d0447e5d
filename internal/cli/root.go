// Package cli implements the medconnect command line: deployment of the
// platform infrastructure plus offline tooling for inference workload
// manifests.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	crzap "sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/medconnect/inference-operator/pkg/deploy"
	"github.com/medconnect/inference-operator/pkg/monitoring"
)

// IOStreams are the standard streams of a command invocation.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// Option customizes the command tree.
type Option func(*rootOptions)

// WithLookPath replaces the tool lookup used by deploy preflight.
func WithLookPath(fn deploy.LookPathFunc) Option {
	return func(o *rootOptions) { o.lookPath = fn }
}

// WithCommander replaces the runner of deploy steps.
func WithCommander(c deploy.Commander) Option {
	return func(o *rootOptions) { o.commander = c }
}

// WithIdentityVerifier replaces the AWS identity check of deploy --verify-identity.
func WithIdentityVerifier(v deploy.IdentityVerifier) Option {
	return func(o *rootOptions) { o.identity = v }
}

// WithSetenv replaces the function exporting deploy variables.
func WithSetenv(fn func(key, value string) error) Option {
	return func(o *rootOptions) { o.setenv = fn }
}

type rootOptions struct {
	streams IOStreams
	verbose bool
	logger  logr.Logger

	lookPath  deploy.LookPathFunc
	commander deploy.Commander
	identity  deploy.IdentityVerifier
	setenv    func(key, value string) error
}

// NewRootCommand builds the medconnect command tree.
func NewRootCommand(streams IOStreams, opts ...Option) *cobra.Command {
	o := &rootOptions{streams: streams, logger: logr.Discard()}
	for _, opt := range opts {
		opt(o)
	}

	cmd := &cobra.Command{
		Use:           "medconnect",
		Short:         "MedConnect platform deployment and inference workload tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zapcore.InfoLevel
			if o.verbose {
				level = zapcore.DebugLevel
			}
			o.logger = crzap.New(
				crzap.WriteTo(streams.ErrOut),
				crzap.UseDevMode(o.verbose),
				crzap.Level(level),
			)
		},
	}
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.ErrOut)

	cmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newDeployCommand(o))
	cmd.AddCommand(newRenderCommand(o))
	cmd.AddCommand(newValidateCommand(o))
	cmd.AddCommand(newPlanCommand(o))
	cmd.AddCommand(newEnvCommand(o))

	return cmd
}

// Execute runs the command line and returns the process exit code. Errors
// are printed to streams.ErrOut.
func Execute(ctx context.Context, args []string, streams IOStreams, opts ...Option) int {
	shutdown, err := monitoring.InitTracing(ctx, "medconnect-cli", version)
	if err != nil {
		printError(streams.ErrOut, err)
		return 1
	}
	defer func() { _ = shutdown(context.Background()) }()

	cmd := NewRootCommand(streams, opts...)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(ctx)
	if err != nil {
		printError(streams.ErrOut, err)
	}
	return deploy.ExitCode(err)
}

// version is set at build time with -ldflags.
var version = "dev"

func printError(w io.Writer, err error) {
	msg := err.Error()
	if !strings.HasPrefix(msg, "Error: ") {
		msg = "Error: " + msg
	}
	_, _ = io.WriteString(w, msg+"\n")
}

// openInput opens path for reading, with "-" meaning the command's stdin.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(path)
}
