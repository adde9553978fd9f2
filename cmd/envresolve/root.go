// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "envresolve",
		Short: "Resolve execution environments to launchable invocations",
		Long: TitleStyle.Render("envresolve") + SubtitleStyle.Render(" - resolve execution environments") + `

envresolve turns an environment specification (the host interpreter, an
interpreter inside an isolated environment, or a container image) into the
descriptor a launcher needs, and can print the full launch command line.

` + SubtitleStyle.Render("Examples:") + `
  envresolve resolve                                   Resolve the configured environment
  envresolve resolve --kind isolated --path /opt/env/bin/python
  envresolve plan --kind container --image python:3.12 -- python -V
  envresolve config show                               Show current configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/envresolve/config.cue)")

	rootCmd.AddCommand(newResolveCommand(app, opts))
	rootCmd.AddCommand(newPlanCommand(app, opts))
	rootCmd.AddCommand(newConfigCommand(app, opts))
	rootCmd.AddCommand(newVersionCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the command's exit code. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		os.Exit(int(ExitGeneric))
	}

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(ExitGeneric))
	}
}

// errorHandler leaves ExitErrors alone since App.fail already printed them.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(app.stdout, "envresolve %s\n", getVersionString())
			return err
		},
	}
}
