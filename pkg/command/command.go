// pkg/command/command.go - uniform wrapper for invoking external tools.
//
// Every external program the packer drives (winget, IntuneWinAppUtil.exe)
// goes through Run, which captures both streams in full and reports the exit
// code in the result rather than as an error. The only error conditions are
// an unresolvable executable and context cancellation.

package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ProcessResult carries the outcome of one external process invocation.
type ProcessResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// NotFoundError indicates the executable could not be resolved at all, as
// opposed to a command that ran and exited non-zero.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("executable %q not found", e.Name)
}

// Run executes name with args and waits for completion. A non-zero exit is
// not an error: callers inspect ProcessResult.ExitCode. Output streams are
// decoded leniently, replacing undecodable bytes.
func Run(ctx context.Context, name string, args ...string) (ProcessResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	hideConsoleWindow(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := ProcessResult{
		Stdout: decodeLenient(stdout.Bytes()),
		Stderr: decodeLenient(stderr.Bytes()),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		if errors.Is(err, exec.ErrNotFound) {
			return result, &NotFoundError{Name: name}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("running %s: %w", name, ctxErr)
		}
		return result, fmt.Errorf("running %s: %w", name, err)
	}
	return result, nil
}

// decodeLenient converts raw process output to a string, replacing invalid
// UTF-8 sequences instead of failing.
func decodeLenient(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
