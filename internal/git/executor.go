// Package git shells out to the git binary for the repository operations
// the tool needs: reading commit ranges and tags, committing version
// files, and tagging releases.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrGitCommand is the sentinel wrapped by every failed git invocation.
var ErrGitCommand = errors.New("git command failed")

// ErrNoTag is returned by LatestTag when no tag matches the prefix.
var ErrNoTag = errors.New("no matching tag")

// CommandExecutor runs external commands. The indirection exists so tests
// can substitute canned results for git invocations.
type CommandExecutor interface {
	// Execute runs cmd and returns its error, if any.
	Execute(ctx context.Context, cmd *exec.Cmd) error

	// ExecuteWithOutput runs cmd and returns its stdout.
	ExecuteWithOutput(ctx context.Context, cmd *exec.Cmd) (string, error)
}

// ExecExecutor is the default CommandExecutor backed by os/exec.
type ExecExecutor struct{}

// NewExecExecutor returns the default executor.
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{}
}

// Execute implements CommandExecutor.
func (e *ExecExecutor) Execute(ctx context.Context, cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	if cmd.Stderr == nil {
		cmd.Stderr = &stderr
	}
	if err := cmd.Run(); err != nil {
		return wrapRunError(cmd, err, stderr.String())
	}
	return nil
}

// ExecuteWithOutput implements CommandExecutor.
func (e *ExecExecutor) ExecuteWithOutput(ctx context.Context, cmd *exec.Cmd) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", wrapRunError(cmd, err, stderr.String())
	}
	return stdout.String(), nil
}

// wrapRunError folds a failed command into ErrGitCommand, keeping the
// command line and the last stderr line for diagnosis.
func wrapRunError(cmd *exec.Cmd, err error, stderr string) error {
	detail := lastLine(stderr)
	if detail == "" {
		detail = err.Error()
	}
	return fmt.Errorf("%s: %w: %s", strings.Join(cmd.Args, " "), ErrGitCommand, detail)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
