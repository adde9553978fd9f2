// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/invowk/envresolve/internal/config"
	"github.com/invowk/envresolve/internal/environment"
	"github.com/invowk/envresolve/internal/issue"
	"github.com/invowk/envresolve/internal/launch"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. Cobra handlers receive an
	// App and delegate configuration loading and engine detection through it.
	App struct {
		Config  ConfigProvider
		Engines EngineDetector
		stdout  io.Writer
		stderr  io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config  ConfigProvider
		Engines EngineDetector
		Stdout  io.Writer
		Stderr  io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (config.LoadResult, error)
	}

	// EngineDetector finds an installed container engine, preferring the given one.
	EngineDetector interface {
		Detect(preferred launch.EngineType) (launch.Planner, error)
	}

	pathEngineDetector struct{}

	// session is the per-invocation state shared by a command's helpers once
	// configuration is loaded.
	session struct {
		cfg     *config.Config
		cfgPath string
		verbose bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Engines == nil {
		deps.Engines = pathEngineDetector{}
	}

	return &App{
		Config:  deps.Config,
		Engines: deps.Engines,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
	}, nil
}

// Detect looks the engines up on PATH.
func (pathEngineDetector) Detect(preferred launch.EngineType) (launch.Planner, error) {
	return launch.DetectEngine(preferred)
}

// load reads configuration and installs the logger. The --verbose flag wins
// over ui.verbose only when set.
func (a *App) load(ctx context.Context, opts *rootOptions) (*session, error) {
	res, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: opts.configPath})
	if err != nil {
		a.configureLogging(opts.verbose)
		return nil, err
	}

	s := &session{
		cfg:     res.Config,
		cfgPath: res.Path,
		verbose: opts.verbose || res.Config.UI.Verbose,
	}
	a.configureLogging(s.verbose)
	slog.Debug("configuration loaded", "path", res.Path, "kind", res.Config.Environment.Kind)
	return s, nil
}

// configureLogging routes slog through a charmbracelet/log handler on stderr.
func (a *App) configureLogging(verbose bool) {
	lvl := log.WarnLevel
	if verbose {
		lvl = log.DebugLevel
	}
	handler := log.NewWithOptions(a.stderr, log.Options{
		Prefix:          config.AppName,
		Level:           lvl,
		ReportTimestamp: verbose,
	})
	slog.SetDefault(slog.New(handler))
}

// resolve builds the environment specification from configuration overlaid
// with flags and resolves it.
func (a *App) resolve(s *session, flags *specFlags) (environment.Invocation, error) {
	spec, err := environment.FromSettings(flags.settings(s.cfg.Environment))
	if err != nil {
		return environment.Invocation{}, issue.NewErrorContext().
			WithOperation("build environment specification").
			WithSuggestion("Pass --kind together with the matching --path, --image or --interpreter flag").
			WithSuggestion("Run 'envresolve config show' to inspect the configured environment").
			WithIssue(issue.InvalidSpecificationId).
			Wrap(err).
			BuildError()
	}

	resolver := environment.NewResolver(environment.WithContainerSupport(s.cfg.Container.Enabled))
	inv, err := resolver.Resolve(spec)
	if errors.Is(err, environment.ErrUnsupportedEnvironment) {
		return environment.Invocation{}, issue.NewErrorContext().
			WithOperation("resolve environment").
			WithResource(spec.Kind().String()).
			WithSuggestion("Set container.enabled: true in config.cue or export ENVRESOLVE_CONTAINER_ENABLED=true").
			WithIssue(issue.UnsupportedEnvironmentId).
			Wrap(err).
			BuildError()
	}
	if err != nil {
		return environment.Invocation{}, fmt.Errorf("resolve environment: %w", err)
	}

	slog.Debug("environment resolved", "kind", inv.Kind, "target", inv.Target())
	return inv, nil
}

// planner returns the launch planner for inv. Interpreter invocations need no
// engine; container invocations use the pinned binary or PATH detection.
func (a *App) planner(s *session, inv environment.Invocation, engineFlag string) (launch.Planner, error) {
	if !inv.IsContainer() {
		return launch.Planner{}, nil
	}

	configured := launch.EngineType(s.cfg.Container.Engine)
	engine := configured
	if engineFlag != "" {
		engine = launch.EngineType(engineFlag)
	}
	if err := engine.Validate(); err != nil {
		return launch.Planner{}, err
	}

	// container.binary belongs to the configured engine; --engine naming a
	// different one falls back to detection.
	if s.cfg.Container.Binary != "" && engine == configured {
		return launch.NewPlanner(engine, s.cfg.Container.Binary)
	}
	if s.cfg.Container.Binary != "" {
		fmt.Fprintf(a.stderr, "%s container.binary %s belongs to %s; detecting %s instead\n",
			WarningStyle.Render("Warning:"), s.cfg.Container.Binary, configured, engine)
	}

	p, err := a.Engines.Detect(engine)
	if err != nil {
		return launch.Planner{}, issue.NewErrorContext().
			WithOperation("find container engine").
			WithResource(engine.String()).
			WithSuggestion("Install Docker or Podman, or set container.binary in config.cue").
			WithIssue(issue.ContainerEngineNotFoundId).
			Wrap(err).
			BuildError()
	}
	return p, nil
}

// fail reports err on stderr and converts it to an ExitError carrying the
// matching exit code. In verbose mode the catalog explanation is rendered too.
func (a *App) fail(err error, verbose bool, scheme config.ColorScheme) error {
	code, id := classifyError(err)

	fmt.Fprintf(a.stderr, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))

	if verbose && id != 0 {
		if entry := issue.Get(id); entry != nil {
			rendered, renderErr := entry.Render(glamourStyle(scheme))
			if renderErr != nil {
				slog.Debug("failed to render issue", "id", id, "error", renderErr)
			} else {
				fmt.Fprint(a.stderr, rendered)
			}
		}
	}

	return &ExitError{Code: code, Err: err}
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their own Format; verbose mode shows the full chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

func glamourStyle(scheme config.ColorScheme) string {
	if scheme == config.ColorSchemeLight {
		return "light"
	}
	return "dark"
}
