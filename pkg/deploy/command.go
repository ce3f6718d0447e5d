package deploy

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command is one external process of a deployment.
type Command struct {
	// Step names the command in logs and errors.
	Step string
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env is added to the inherited environment.
	Env map[string]string
}

// String renders the command line.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Commander runs external commands.
type Commander interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecCommander runs commands with os/exec, streaming their output.
type ExecCommander struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts cmd and waits for it. A non-zero exit is returned as an error
// implementing ExitCode() int.
func (e *ExecCommander) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = e.Stdout
	c.Stderr = e.Stderr
	c.Env = os.Environ()
	for k, v := range cmd.Env {
		c.Env = append(c.Env, k+"="+v)
	}
	return c.Run()
}

// exitCodeOf extracts the exit code of a failed command, or 1 when the
// command did not report one.
func exitCodeOf(err error) int {
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		if code := coder.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}
