package toolchain

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// SpawnFailureCode is the synthetic exit code reported when the command
// cannot be started at all. An unavailable toolchain degrades to an
// ordinary failure instead of crashing the engine.
const SpawnFailureCode = 127

// Runner executes a rendered command and returns its exit code. The
// engine depends on this signature, not on this package, so tests inject
// fakes.
type Runner func(ctx context.Context, command string) int

// Run executes command via the OS and returns its exit code: 0 on
// success, the process exit code on failure, SpawnFailureCode when the
// process could not be started.
func Run(ctx context.Context, command string) int {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return SpawnFailureCode
	}
	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		return SpawnFailureCode
	}
	return 0
}
