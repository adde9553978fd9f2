// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/invowk/envresolve/internal/environment"

	"mvdan.cc/sh/v3/syntax"
)

var (
	// ErrEngineNotConfigured is returned when a container invocation is planned with a
	// Planner that has no engine binary.
	ErrEngineNotConfigured = errors.New("no container engine configured")
	// ErrUnquotableArgument is the sentinel error wrapped by UnquotableArgumentError.
	ErrUnquotableArgument = errors.New("argument cannot be shell-quoted")
)

type (
	// Request carries the task-level inputs of a launch plan.
	Request struct {
		// Args are passed to the interpreter, or to the container entrypoint.
		Args []string
		// WorkDir is the working directory inside the container (container only).
		WorkDir string
		// Env holds environment variables forwarded into the container (container only).
		Env map[string]string
		// Volumes are "host:container[:opts]" mounts (container only).
		Volumes []string
	}

	// Planner builds launch plans. The zero value plans interpreter invocations
	// only; container invocations need an engine.
	Planner struct {
		Engine       EngineType
		EngineBinary string
	}

	// UnquotableArgumentError is returned by Plan.ShellCommand for an argument
	// that has no POSIX shell spelling.
	UnquotableArgumentError struct {
		Index int
		Value string
		Cause error
	}

	// Plan is a complete argv for the external launcher.
	Plan struct {
		invocation environment.Invocation
		argv       []string
	}
)

// NewPlanner returns a Planner for engine that invokes binary. An empty binary
// means the engine name itself is used and left to PATH lookup by the launcher.
func NewPlanner(engine EngineType, binary string) (Planner, error) {
	if err := engine.Validate(); err != nil {
		return Planner{}, err
	}
	if binary == "" {
		binary = string(engine)
	}
	return Planner{Engine: engine, EngineBinary: binary}, nil
}

// Plan builds the argv for inv and req. Container-only request fields are ignored
// for interpreter invocations.
func (p Planner) Plan(inv environment.Invocation, req Request) (*Plan, error) {
	switch inv.Kind {
	case environment.KindDefault, environment.KindIsolated:
		if inv.Command == "" {
			return nil, fmt.Errorf("plan %s invocation: empty interpreter command", inv.Kind)
		}
		argv := make([]string, 0, 1+len(req.Args))
		argv = append(argv, inv.Command)
		argv = append(argv, req.Args...)
		return &Plan{invocation: inv, argv: argv}, nil
	case environment.KindContainer:
		if p.EngineBinary == "" {
			return nil, ErrEngineNotConfigured
		}
		if inv.Image == "" {
			return nil, fmt.Errorf("plan container invocation: empty image")
		}
		argv := append([]string{p.EngineBinary}, runArgs(inv.Image, req)...)
		return &Plan{invocation: inv, argv: argv}, nil
	default:
		return nil, &environment.InvalidSpecificationError{Reason: fmt.Sprintf("cannot plan invocation of kind %q", inv.Kind)}
	}
}

// runArgs constructs arguments for a container run command.
//
// Generated command: <binary> run --rm [options] <image> [args...]
func runArgs(image string, req Request) []string {
	args := []string{"run", "--rm"}

	if req.WorkDir != "" {
		args = append(args, "-w", req.WorkDir)
	}

	// Sorted so the same request always yields the same argv.
	for _, k := range slices.Sorted(maps.Keys(req.Env)) {
		args = append(args, "-e", k+"="+req.Env[k])
	}

	for _, v := range req.Volumes {
		args = append(args, "-v", v)
	}

	args = append(args, image)
	return append(args, req.Args...)
}

// Invocation returns the invocation the plan was built from.
func (p *Plan) Invocation() environment.Invocation { return p.invocation }

// Argv returns a copy of the full argument vector, program first.
func (p *Plan) Argv() []string { return slices.Clone(p.argv) }

// Program returns argv[0], or "" for a Plan not built by Planner.Plan.
func (p *Plan) Program() string {
	if len(p.argv) == 0 {
		return ""
	}
	return p.argv[0]
}

// Args returns argv[1:], or nil for a Plan not built by Planner.Plan.
func (p *Plan) Args() []string {
	if len(p.argv) == 0 {
		return nil
	}
	return slices.Clone(p.argv[1:])
}

// ShellCommand returns the plan as a POSIX shell command line. It fails with
// ErrUnquotableArgument when an argument holds bytes POSIX shells cannot quote,
// such as NUL or other non-printable characters.
func (p *Plan) ShellCommand() (string, error) {
	quoted := make([]string, 0, len(p.argv))
	for i, a := range p.argv {
		q, err := syntax.Quote(a, syntax.LangPOSIX)
		if err != nil {
			return "", &UnquotableArgumentError{Index: i, Value: a, Cause: err}
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " "), nil
}

// String returns ShellCommand, or the Go-quoted argv when the plan cannot be
// written as a shell command line.
func (p *Plan) String() string {
	cmd, err := p.ShellCommand()
	if err != nil {
		return fmt.Sprintf("%q", p.argv)
	}
	return cmd
}

// Error implements the error interface.
func (e *UnquotableArgumentError) Error() string {
	return fmt.Sprintf("argument %d (%q) cannot be written as a POSIX shell word: %v", e.Index, e.Value, e.Cause)
}

// Unwrap returns ErrUnquotableArgument and the quoting error.
func (e *UnquotableArgumentError) Unwrap() []error { return []error{ErrUnquotableArgument, e.Cause} }
