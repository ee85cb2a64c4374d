package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	staxerrors "stax.dev/stax/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 5 * time.Minute

// CommandRunner handles execution of git commands
type CommandRunner struct {
	workingDir string
}

// defaultRunner is the global runner used by the package-level functions
var defaultRunner = &CommandRunner{}

// SetWorkingDir sets the working directory for the default git runner.
func SetWorkingDir(dir string) {
	defaultRunner.workingDir = dir
}

// RunGitCommand executes a git command using the default runner and returns the output.
// It uses context.Background() with a default timeout.
func RunGitCommand(args ...string) (string, error) {
	return defaultRunner.Run(context.Background(), args...)
}

// RunGitCommandWithContext executes a git command with the given context using the default runner.
func RunGitCommandWithContext(ctx context.Context, args ...string) (string, error) {
	return defaultRunner.Run(ctx, args...)
}

// Run executes a git command with the given context and returns the output
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, "", true, args...)
}

// runInternal is the internal implementation that handles directory and input
func (r *CommandRunner) runInternal(ctx context.Context, input string, trim bool, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", staxerrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", staxerrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), err)
	}
	if trim {
		return strings.TrimSpace(stdout.String()), nil
	}
	return stdout.String(), nil
}

// RunGitCommandWithInput executes a git command with input using the default runner and returns the output
func RunGitCommandWithInput(input string, args ...string) (string, error) {
	return defaultRunner.runInternal(context.Background(), input, true, args...)
}
