// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/invowk/envresolve/internal/issue"
	"github.com/invowk/envresolve/pkg/cueutil"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "envresolve"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "ENVRESOLVE"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the envresolve configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// ConfigFilePath returns the default config file location inside dir, or inside
// ConfigDir when dir is empty.
func ConfigFilePath(dir string) (string, error) {
	cfgDir, err := configDirWithOverride(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions loads defaults, the first config file found, and environment
// overrides, in increasing precedence. It returns the config and the file used
// ("" when only defaults and env applied).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("environment.kind", defaults.Environment.Kind)
	v.SetDefault("environment.path", defaults.Environment.Path)
	v.SetDefault("environment.image", defaults.Environment.Image)
	v.SetDefault("environment.interpreter", defaults.Environment.Interpreter)
	v.SetDefault("container.enabled", defaults.Container.Enabled)
	v.SetDefault("container.engine", defaults.Container.Engine)
	v.SetDefault("container.binary", defaults.Container.Binary)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := resolveConfigFile(opts)
	if err != nil {
		return nil, "", err
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'envresolve config init' to regenerate a default file").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
		slog.Debug("loaded configuration", "path", resolvedPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Check " + EnvPrefix + "_* environment variables for typos").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// resolveConfigFile picks the config file to read. An explicit file must exist;
// otherwise the config directory is tried, then the working directory.
func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cuePath, err := ConfigFilePath(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	if fileExists(cuePath) {
		return cuePath, nil
	}

	localPath := ConfigFileName + "." + ConfigFileExt
	if fileExists(localPath) {
		return localPath, nil
	}

	return "", nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper. Concrete(false) because every field is optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file into dir (ConfigDir when
// empty) unless one already exists. It returns the file path.
func CreateDefaultConfig(dir string) (string, error) {
	cfgPath, err := ConfigFilePath(dir)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, nil
	}

	if err := writeConfig(cfgPath, DefaultConfig()); err != nil {
		return "", err
	}
	return cfgPath, nil
}

// Save validates cfg and writes it to path, or to the default config file
// when path is empty.
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if path == "" {
		var err error
		if path, err = ConfigFilePath(""); err != nil {
			return err
		}
	}
	return writeConfig(path, cfg)
}

func writeConfig(cfgPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// envresolve configuration file\n\n")

	sb.WriteString("environment: {\n")
	fmt.Fprintf(&sb, "\tkind: %q\n", kindOrDefault(cfg.Environment.Kind))
	if cfg.Environment.Path != "" {
		fmt.Fprintf(&sb, "\tpath: %q\n", cfg.Environment.Path)
	}
	if cfg.Environment.Image != "" {
		fmt.Fprintf(&sb, "\timage: %q\n", cfg.Environment.Image)
	}
	if cfg.Environment.Interpreter != "" {
		fmt.Fprintf(&sb, "\tinterpreter: %q\n", cfg.Environment.Interpreter)
	}
	sb.WriteString("}\n")

	sb.WriteString("\ncontainer: {\n")
	fmt.Fprintf(&sb, "\tenabled: %v\n", cfg.Container.Enabled)
	fmt.Fprintf(&sb, "\tengine: %q\n", cfg.Container.Engine)
	if cfg.Container.Binary != "" {
		fmt.Fprintf(&sb, "\tbinary: %q\n", cfg.Container.Binary)
	}
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}

func kindOrDefault(k EnvironmentKind) EnvironmentKind {
	if k == "" {
		return EnvironmentDefault
	}
	return k
}
