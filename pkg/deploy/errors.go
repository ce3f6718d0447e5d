package deploy

import (
	"errors"
	"fmt"
)

// UsageError reports malformed command-line arguments.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage: deploy [environment] [region]: %s", e.Reason)
}

// MissingToolError reports a required executable that is not on PATH.
type MissingToolError struct {
	Tool string
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("Error: %s is not installed", e.Tool)
}

// StepError reports a failed external command together with its exit code.
type StepError struct {
	Step string
	Code int
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed (exit code %d): %v", e.Step, e.Code, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by this package to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var stepErr *StepError
	if errors.As(err, &stepErr) && stepErr.Code > 0 {
		return stepErr.Code
	}
	return 1
}
