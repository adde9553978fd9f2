// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/invowk/envresolve/internal/config"

	"github.com/spf13/cobra"
)

var settableKeys = []string{
	"environment.kind", "environment.path", "environment.image", "environment.interpreter",
	"container.enabled", "container.engine", "container.binary",
	"ui.verbose", "ui.color_scheme",
}

// newConfigCommand creates the `envresolve config` command tree.
func newConfigCommand(app *App, opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage envresolve configuration",
		Long: `Manage envresolve configuration.

Configuration is stored in:
  - Linux: ~/.config/envresolve/config.cue
  - macOS: ~/Library/Application Support/envresolve/config.cue
  - Windows: %APPDATA%\envresolve\config.cue

Every key can be overridden with an ENVRESOLVE_ environment variable,
e.g. ENVRESOLVE_ENVIRONMENT_KIND=container.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, opts)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig("")
			if err != nil {
				return app.fail(fmt.Errorf("failed to create config: %w", err), opts.verbose, config.ColorSchemeAuto)
			}
			_, err = fmt.Fprintf(app.stdout, "%s Configuration at %s\n", SuccessStyle.Render("✓"), path)
			return err
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				var err error
				if path, err = config.ConfigFilePath(""); err != nil {
					return app.fail(err, opts.verbose, config.ColorSchemeAuto)
				}
			}
			_, err := fmt.Fprintln(app.stdout, path)
			return err
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value and write the config file.

Valid keys: ` + strings.Join(settableKeys, ", "),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), app, opts, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.load(cmd.Context(), opts)
			if err != nil {
				return app.fail(err, opts.verbose, config.ColorSchemeAuto)
			}
			_, err = io.WriteString(app.stdout, config.GenerateCUE(s.cfg))
			return err
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, opts *rootOptions) error {
	s, err := app.load(ctx, opts)
	if err != nil {
		return app.fail(err, opts.verbose, config.ColorSchemeAuto)
	}
	cfg := s.cfg

	w := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	unset := SubtitleStyle.Render("(unset)")
	orUnset := func(v string) string {
		if v == "" {
			return unset
		}
		return valueStyle.Render(v)
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if s.cfgPath != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), s.cfgPath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("environment"))
	fmt.Fprintf(w, "  kind: %s\n", valueStyle.Render(cfg.Environment.Kind.String()))
	fmt.Fprintf(w, "  path: %s\n", orUnset(cfg.Environment.Path))
	fmt.Fprintf(w, "  image: %s\n", orUnset(cfg.Environment.Image))
	fmt.Fprintf(w, "  interpreter: %s\n", orUnset(cfg.Environment.Interpreter))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("container"))
	fmt.Fprintf(w, "  enabled: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Container.Enabled)))
	fmt.Fprintf(w, "  engine: %s\n", valueStyle.Render(cfg.Container.Engine.String()))
	fmt.Fprintf(w, "  binary: %s\n", orUnset(cfg.Container.Binary))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))

	return nil
}

func setConfigValue(ctx context.Context, app *App, opts *rootOptions, key, value string) error {
	s, err := app.load(ctx, opts)
	if err != nil {
		return app.fail(err, opts.verbose, config.ColorSchemeAuto)
	}

	if err := applyConfigValue(s.cfg, key, value); err != nil {
		return app.fail(err, s.verbose, s.cfg.UI.ColorScheme)
	}

	// --config names the file to write; otherwise the file that was loaded, or
	// the default location.
	path := opts.configPath
	if path == "" {
		path = s.cfgPath
	}
	if err := config.Save(path, s.cfg); err != nil {
		return app.fail(fmt.Errorf("failed to save config: %w", err), s.verbose, s.cfg.UI.ColorScheme)
	}

	_, err = fmt.Fprintf(app.stdout, "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return err
}

// applyConfigValue sets key on cfg. Enum values are checked by config.Save.
func applyConfigValue(cfg *config.Config, key, value string) error {
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s %q: expected true or false", key, value)
		}
		return b, nil
	}

	switch key {
	case "environment.kind":
		cfg.Environment.Kind = config.EnvironmentKind(value)
	case "environment.path":
		cfg.Environment.Path = value
	case "environment.image":
		cfg.Environment.Image = value
	case "environment.interpreter":
		cfg.Environment.Interpreter = value
	case "container.enabled":
		b, err := parseBool()
		if err != nil {
			return err
		}
		cfg.Container.Enabled = b
	case "container.engine":
		cfg.Container.Engine = config.ContainerEngine(value)
	case "container.binary":
		cfg.Container.Binary = value
	case "ui.verbose":
		b, err := parseBool()
		if err != nil {
			return err
		}
		cfg.UI.Verbose = b
	case "ui.color_scheme":
		cfg.UI.ColorScheme = config.ColorScheme(value)
	default:
		return fmt.Errorf("unknown configuration key %q (valid: %s)", key, strings.Join(settableKeys, ", "))
	}
	return nil
}
