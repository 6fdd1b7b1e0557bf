package command

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"

	"dbctx/internal/domain"
)

// Command is a single external process invocation. Args are passed to the
// process as-is, never through a shell.
type Command struct {
	Name  string
	Args  []string
	Env   []string // Appended to the current environment
	Stdin io.Reader
}

// Runner executes commands and captures their combined output
type Runner interface {
	Run(ctx context.Context, cmd Command) (domain.CommandResult, error)
}

// ExecRunner runs commands as local processes
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes cmd and waits for it. A non-zero exit is reported through the
// result code; the error is only set when the process could not run at all.
func (r *ExecRunner) Run(ctx context.Context, c Command) (domain.CommandResult, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Env = append(os.Environ(), c.Env...)
	if c.Stdin != nil {
		cmd.Stdin = c.Stdin
	}

	log.WithFields(log.Fields{"command": c.Name, "args": c.Args}).Debug("running command")

	output, err := cmd.CombinedOutput()
	result := domain.CommandResult{Output: SplitLines(string(output))}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			result.Code = -1
			return result, err
		}
		result.Code = exitErr.ExitCode()
	}

	log.WithFields(log.Fields{"command": c.Name, "code": result.Code, "lines": len(result.Output)}).Debug("command finished")
	return result, nil
}

// SplitLines splits process output into lines with trailing whitespace
// removed. Trailing empty lines are dropped.
func SplitLines(output string) []string {
	output = strings.TrimRight(output, " \t\r\n")
	if output == "" {
		return nil
	}

	lines := strings.Split(output, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return lines
}
