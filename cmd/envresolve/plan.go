// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/invowk/envresolve/internal/config"
	"github.com/invowk/envresolve/internal/environment"
	"github.com/invowk/envresolve/internal/launch"

	"github.com/spf13/cobra"
)

type (
	// planFlags are the launch-specific flags of the plan command.
	planFlags struct {
		spec    specFlags
		engine  string
		workdir string
		env     []string
		volumes []string
	}

	// planOutput is the structured form of a launch plan.
	planOutput struct {
		Invocation environment.Invocation `json:"invocation" toml:"invocation"`
		Argv       []string               `json:"argv" toml:"argv"`
		Command    string                 `json:"command" toml:"command"`
	}
)

func newPlanCommand(app *App, opts *rootOptions) *cobra.Command {
	flags := &planFlags{}

	cmd := &cobra.Command{
		Use:   "plan [flags] [-- args...]",
		Short: "Print the command line that would launch work in the environment",
		Long: `Resolve the environment and print the full launch command line. Arguments
after -- are passed to the interpreter, or to the container entrypoint.

Nothing is executed; the output is a POSIX shell command line.`,
		Example: `  envresolve plan -- job.py --fast
  envresolve plan --kind container --image python:3.12 --env MODE=ci -- python -V`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, app, opts, flags, args)
		},
	}

	flags.spec.register(cmd.Flags())
	cmd.Flags().StringVar(&flags.engine, "engine", "", "container engine (docker, podman); overrides container.engine")
	cmd.Flags().StringVarP(&flags.workdir, "workdir", "w", "", "working directory inside the container")
	cmd.Flags().StringArrayVarP(&flags.env, "env", "e", nil, "environment variable for the container (KEY=VALUE, repeatable)")
	cmd.Flags().StringArrayVar(&flags.volumes, "volume", nil, "volume mount for the container (host:container[:opts], repeatable)")

	return cmd
}

func runPlan(cmd *cobra.Command, app *App, opts *rootOptions, flags *planFlags, args []string) error {
	format, err := flags.spec.format()
	if err != nil {
		return app.fail(err, opts.verbose, config.ColorSchemeAuto)
	}
	env, err := parseEnvPairs(flags.env)
	if err != nil {
		return app.fail(err, opts.verbose, config.ColorSchemeAuto)
	}

	s, err := app.load(cmd.Context(), opts)
	if err != nil {
		return app.fail(err, opts.verbose, config.ColorSchemeAuto)
	}

	inv, err := app.resolve(s, &flags.spec)
	if err != nil {
		return app.fail(err, s.verbose, s.cfg.UI.ColorScheme)
	}

	planner, err := app.planner(s, inv, flags.engine)
	if err != nil {
		return app.fail(err, s.verbose, s.cfg.UI.ColorScheme)
	}

	plan, err := planner.Plan(inv, launch.Request{
		Args:    args,
		WorkDir: flags.workdir,
		Env:     env,
		Volumes: flags.volumes,
	})
	if err != nil {
		return app.fail(err, s.verbose, s.cfg.UI.ColorScheme)
	}

	line, err := plan.ShellCommand()
	if err != nil {
		return app.fail(err, s.verbose, s.cfg.UI.ColorScheme)
	}

	if format != outputText {
		return writeStructured(app.stdout, format, planOutput{
			Invocation: plan.Invocation(),
			Argv:       plan.Argv(),
			Command:    line,
		})
	}
	_, err = fmt.Fprintln(app.stdout, line)
	return err
}

// parseEnvPairs turns KEY=VALUE flags into a map. Later flags win.
func parseEnvPairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --env %q: expected KEY=VALUE", p)
		}
		env[k] = v
	}
	return env, nil
}
