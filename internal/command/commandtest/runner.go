// Package commandtest provides a scripted Runner for driver tests.
// Responses are keyed by the rendered command line, so tests assert
// both what was executed and in what order without touching the host.
package commandtest

import (
	"context"
	"fmt"
	"strings"

	"github.com/sjacorg/bayanat-cli/internal/command"
)

// Response is the scripted outcome for a single command line.
type Response struct {
	Result command.Result
	Err    error
}

// Runner records every Spec it receives and answers from a script.
type Runner struct {
	// Calls holds every executed spec in order.
	Calls []command.Spec
	// Responses maps a rendered command line (see Line) to its outcome.
	Responses map[string]Response
	// Default is returned for command lines missing from Responses.
	Default Response
	// Missing lists executables LookPath should report as absent.
	Missing map[string]bool
	// OnRun, when set, observes every spec before the scripted lookup.
	// Tests use it for side effects such as creating the files a real
	// collaborator would have produced.
	OnRun func(command.Spec)
}

// New returns an empty scripted runner that succeeds on everything.
func New() *Runner {
	return &Runner{Responses: map[string]Response{}, Missing: map[string]bool{}}
}

// Line renders a Spec the way Responses keys are written:
// the executable followed by its arguments, space-separated.
func Line(spec command.Spec) string {
	return strings.Join(append([]string{spec.Name}, spec.Args...), " ")
}

// Script registers a response for the given command line.
func (r *Runner) Script(line string, res command.Result, err error) {
	r.Responses[line] = Response{Result: res, Err: err}
}

// ScriptOutput registers a successful response with the given stdout.
func (r *Runner) ScriptOutput(line, stdout string) {
	r.Script(line, command.Result{Stdout: stdout}, nil)
}

// ScriptFailure registers a non-zero exit with the given stderr.
func (r *Runner) ScriptFailure(line, stderr string) {
	spec := specFromLine(line)
	res := command.Result{Stderr: stderr, ExitCode: 1}
	r.Responses[line] = Response{
		Result: res,
		Err:    &command.ExitError{Spec: spec, Result: res},
	}
}

// Run records the spec and returns the scripted outcome.
func (r *Runner) Run(_ context.Context, spec command.Spec) (command.Result, error) {
	r.Calls = append(r.Calls, spec)
	if r.OnRun != nil {
		r.OnRun(spec)
	}
	if resp, ok := r.Responses[Line(spec)]; ok {
		return resp.Result, resp.Err
	}
	return r.Default.Result, r.Default.Err
}

// LookPath resolves everything except names listed in Missing.
func (r *Runner) LookPath(name string) (string, error) {
	if r.Missing[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	return "/usr/bin/" + name, nil
}

// Lines returns the rendered command lines of all calls, in order.
func (r *Runner) Lines() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = Line(c)
	}
	return out
}

// CountPrefix reports how many recorded calls start with prefix.
func (r *Runner) CountPrefix(prefix string) int {
	n := 0
	for _, line := range r.Lines() {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func specFromLine(line string) command.Spec {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return command.Spec{}
	}
	return command.Spec{Name: parts[0], Args: parts[1:]}
}
