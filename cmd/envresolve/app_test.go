// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/invowk/envresolve/internal/config"
	"github.com/invowk/envresolve/internal/environment"
	"github.com/invowk/envresolve/internal/issue"
	"github.com/invowk/envresolve/internal/launch"
)

// The CLI tests are not parallel: App.load installs the process-wide slog
// default, which would otherwise write into another test's buffers.

type (
	stubConfig struct {
		cfg  *config.Config
		path string
		err  error
		got  *config.LoadOptions
	}

	stubEngines struct {
		planner launch.Planner
		err     error
		asked   []launch.EngineType
	}
)

func (s *stubConfig) Load(_ context.Context, opts config.LoadOptions) (config.LoadResult, error) {
	if s.got != nil {
		*s.got = opts
	}
	if s.err != nil {
		return config.LoadResult{}, s.err
	}
	cfg := s.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return config.LoadResult{Config: cfg, Path: s.path}, nil
}

func (s *stubEngines) Detect(preferred launch.EngineType) (launch.Planner, error) {
	s.asked = append(s.asked, preferred)
	if s.err != nil {
		return launch.Planner{}, s.err
	}
	return s.planner, nil
}

// runCLI executes the command tree with args and returns captured output.
func runCLI(t *testing.T, deps Dependencies, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	deps.Stdout = &out
	deps.Stderr = &errOut
	if deps.Config == nil {
		deps.Config = &stubConfig{}
	}
	if deps.Engines == nil {
		deps.Engines = &stubEngines{err: errors.New("no engines in tests")}
	}

	app, err := NewApp(deps)
	if err != nil {
		t.Fatalf("NewApp() unexpected error: %v", err)
	}

	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func configWith(mutate func(*config.Config)) *config.Config {
	cfg := config.DefaultConfig()
	mutate(cfg)
	return cfg
}

func requireExitCode(t *testing.T, err error, want ExitCode) {
	t.Helper()

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v (%T), want *ExitError", err, err)
	}
	if exitErr.Code != want {
		t.Errorf("exit code = %d, want %d (err: %v)", exitErr.Code, want, err)
	}
}

func TestNewApp_Defaults(t *testing.T) {
	app, err := NewApp(Dependencies{})
	if err != nil {
		t.Fatalf("NewApp() unexpected error: %v", err)
	}
	if app.Config == nil || app.Engines == nil || app.stdout == nil || app.stderr == nil {
		t.Errorf("NewApp() left nil dependencies: %+v", app)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ExitCode
		wantID   issue.Id
	}{
		{
			name:     "invalid specification",
			err:      &environment.InvalidSettingsError{Kind: environment.KindIsolated},
			wantCode: ExitInvalidSpecification,
			wantID:   issue.InvalidSpecificationId,
		},
		{
			name:     "unsupported environment",
			err:      &environment.UnsupportedEnvironmentError{Kind: environment.KindContainer},
			wantCode: ExitUnsupportedEnvironment,
			wantID:   issue.UnsupportedEnvironmentId,
		},
		{
			name:     "engine missing",
			err:      &launch.EngineNotAvailableError{Engine: launch.EngineDocker, Reason: "not installed"},
			wantCode: ExitGeneric,
			wantID:   issue.ContainerEngineNotFoundId,
		},
		{
			name:     "actionable config error",
			err:      issue.NewErrorContext().WithOperation("load configuration").WithIssue(issue.ConfigLoadFailedId).BuildError(),
			wantCode: ExitGeneric,
			wantID:   issue.ConfigLoadFailedId,
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			wantCode: ExitGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, id := classifyError(tt.err)
			if code != tt.wantCode || id != tt.wantID {
				t.Errorf("classifyError() = (%d, %d), want (%d, %d)", code, id, tt.wantCode, tt.wantID)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	inner := errors.New("inner")
	e := &ExitError{Code: ExitInvalidSpecification, Err: inner}
	if e.Error() != "inner" {
		t.Errorf("Error() = %q, want %q", e.Error(), "inner")
	}
	if !errors.Is(e, inner) {
		t.Error("ExitError should unwrap to its cause")
	}

	bare := &ExitError{Code: ExitUnsupportedEnvironment}
	if bare.Error() != "exit status 3" {
		t.Errorf("Error() = %q, want %q", bare.Error(), "exit status 3")
	}
}
