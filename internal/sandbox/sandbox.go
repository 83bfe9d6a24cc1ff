// Package sandbox executes shell commands for the run_cmd tool, preferring
// Docker isolation and falling back to direct host execution.
package sandbox

import (
	"context"
	"time"
)

// Result captures output of a command.
type Result struct {
	Stdout   string
	Stderr   string
	Code     int
	TimedOut bool
}

// Runner runs a command in a working directory with a timeout. Implementations
// decide how much isolation the command gets.
type Runner interface {
	RunCmd(ctx context.Context, workDir, name string, args []string, timeout time.Duration) (Result, error)
}
