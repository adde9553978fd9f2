// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/invowk/envresolve/internal/config"
	"github.com/invowk/envresolve/internal/environment"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// specFlags are the environment flags shared by resolve and plan.
type specFlags struct {
	kind        string
	path        string
	image       string
	interpreter string
	output      string
}

func (f *specFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.kind, "kind", "", "environment kind (default, isolated, container)")
	fs.StringVar(&f.path, "path", "", "interpreter path inside the isolated environment")
	fs.StringVar(&f.image, "image", "", "container image reference")
	fs.StringVar(&f.interpreter, "interpreter", "", "host interpreter override for the default kind")
	fs.StringVarP(&f.output, "output", "o", string(outputText), "output format (text, json, toml)")
}

// settings overlays the flags on the configured environment. Selecting a kind
// with --kind discards the configured fields so they cannot leak across kinds.
func (f *specFlags) settings(env config.EnvironmentConfig) environment.Settings {
	s := environment.Settings{
		Kind:        string(env.Kind),
		Path:        env.Path,
		Image:       env.Image,
		Interpreter: env.Interpreter,
	}
	if f.kind != "" && f.kind != s.Kind {
		s = environment.Settings{Kind: f.kind}
	}
	if f.path != "" {
		s.Path = f.path
	}
	if f.image != "" {
		s.Image = f.image
	}
	if f.interpreter != "" {
		s.Interpreter = f.interpreter
	}
	return s
}

func (f *specFlags) format() (outputFormat, error) {
	format := outputFormat(f.output)
	if err := format.Validate(); err != nil {
		return "", err
	}
	return format, nil
}

func newResolveCommand(app *App, opts *rootOptions) *cobra.Command {
	flags := &specFlags{}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the environment to an invocation descriptor",
		Long: `Resolve the configured environment, overridden by flags, and print the
invocation descriptor a launcher consumes: the interpreter path for the default
and isolated kinds, or the image reference for containers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, app, opts, flags)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func runResolve(cmd *cobra.Command, app *App, opts *rootOptions, flags *specFlags) error {
	format, err := flags.format()
	if err != nil {
		return app.fail(err, opts.verbose, config.ColorSchemeAuto)
	}

	s, err := app.load(cmd.Context(), opts)
	if err != nil {
		return app.fail(err, opts.verbose, config.ColorSchemeAuto)
	}

	inv, err := app.resolve(s, flags)
	if err != nil {
		return app.fail(err, s.verbose, s.cfg.UI.ColorScheme)
	}

	if format != outputText {
		return writeStructured(app.stdout, format, inv)
	}
	return writeInvocation(app.stdout, inv)
}

// writeInvocation prints the descriptor as aligned key/value lines.
func writeInvocation(w io.Writer, inv environment.Invocation) error {
	key := "command"
	if inv.IsContainer() {
		key = "image"
	}
	_, err := fmt.Fprintf(w, "%s    %s\n%s %s\n",
		CmdStyle.Render("kind:"), SuccessStyle.Render(inv.Kind.String()),
		CmdStyle.Render(fmt.Sprintf("%-8s", key+":")), SuccessStyle.Render(inv.Target()))
	return err
}
