// Package command wraps synchronous execution of external collaborator
// tools (git, pip, systemctl, the app's own Flask CLI). It is a
// fail-fast primitive: a non-zero exit aborts the calling step, and any
// retry policy belongs to the caller.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sjacorg/bayanat-cli/internal/logging"
)

// Spec describes a single external command invocation.
type Spec struct {
	// Name is the executable name or path.
	Name string
	// Args are the command arguments, excluding the executable itself.
	Args []string
	// Dir is the working directory; empty means the caller's cwd.
	Dir string
	// Env is an overlay of KEY=VALUE entries appended to the parent
	// environment. Later entries win over inherited ones.
	Env []string
}

// Result carries the captured output of a completed command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ExitError reports a command that ran but exited non-zero. The
// captured stderr is embedded in the message so the underlying tool's
// own diagnosis reaches the user verbatim.
type ExitError struct {
	Spec   Spec
	Result Result
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command %q exited with code %d",
		e.Spec.Name+" "+strings.Join(e.Spec.Args, " "), e.Result.ExitCode)
	detail := strings.TrimSpace(e.Result.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(e.Result.Stdout)
	}
	if detail != "" {
		msg += ": " + detail
	}
	return msg
}

// Runner executes external commands. The interface exists so drivers
// and the orchestrator can be unit-tested against scripted fakes.
type Runner interface {
	// Run executes spec to completion and returns its captured output.
	// A non-zero exit yields a *ExitError; the Result is still
	// populated in that case.
	Run(ctx context.Context, spec Spec) (Result, error)
	// LookPath reports the absolute path of an executable, or an error
	// when it is not on PATH.
	LookPath(name string) (string, error)
}

// ExecRunner runs commands via os/exec. The zero value is ready to use.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

// Run executes the command synchronously, blocking until it finishes.
// There is deliberately no timeout here: collaborator operations
// (clone, pip install, pg restore) are unbounded, and cancellation is
// the caller's decision via ctx.
func (ExecRunner) Run(ctx context.Context, spec Spec) (Result, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "command").
		Str("name", spec.Name).
		Strs("args", spec.Args).
		Str("dir", spec.Dir).
		Msg("running external command")

	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return res, &ExitError{Spec: spec, Result: res}
		}
		return res, fmt.Errorf("starting %q: %w", spec.Name, err)
	}

	return res, nil
}

// LookPath reports whether name is resolvable on PATH.
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
