package deploy

import (
	"os/exec"
)

// LookPathFunc resolves an executable name the way exec.LookPath does.
type LookPathFunc func(file string) (string, error)

// Preflight checks the tools in order and reports the first one that cannot
// be resolved. A nil lookPath uses exec.LookPath.
func Preflight(tools []string, lookPath LookPathFunc) error {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, tool := range tools {
		if _, err := lookPath(tool); err != nil {
			return &MissingToolError{Tool: tool}
		}
	}
	return nil
}
