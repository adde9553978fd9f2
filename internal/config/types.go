// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// EnvironmentDefault runs work with the host interpreter.
	// Defined locally to avoid coupling config to internal/environment.
	EnvironmentDefault EnvironmentKind = "default"
	// EnvironmentIsolated runs work with an interpreter inside an isolated environment.
	EnvironmentIsolated EnvironmentKind = "isolated"
	// EnvironmentContainer runs work inside a container image.
	EnvironmentContainer EnvironmentKind = "container"

	// ContainerEngineDocker plans container launches with the Docker CLI.
	ContainerEngineDocker ContainerEngine = "docker"
	// ContainerEnginePodman plans container launches with the Podman CLI.
	ContainerEnginePodman ContainerEngine = "podman"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidEnvironmentKind is returned when an EnvironmentKind value is not recognized.
	ErrInvalidEnvironmentKind = errors.New("invalid environment kind")
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// EnvironmentKind selects the environment variant.
	// The zero value ("") is valid and means "default".
	EnvironmentKind string

	// InvalidEnvironmentKindError is returned when an EnvironmentKind value is not recognized.
	// It wraps ErrInvalidEnvironmentKind for errors.Is() compatibility.
	InvalidEnvironmentKindError struct {
		Value EnvironmentKind
	}

	// ContainerEngine specifies which container CLI launch plans use.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Environment describes the environment tasks run in.
		Environment EnvironmentConfig `json:"environment" mapstructure:"environment"`
		// Container configures container resolution and launch planning.
		Container ContainerConfig `json:"container" mapstructure:"container"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// EnvironmentConfig is the configured environment specification. Only the
	// field belonging to Kind should be set; the resolver rejects the rest.
	EnvironmentConfig struct {
		Kind EnvironmentKind `json:"kind" mapstructure:"kind"`
		// Path is the interpreter inside an isolated environment.
		Path string `json:"path,omitempty" mapstructure:"path"`
		// Image is the container image reference.
		Image string `json:"image,omitempty" mapstructure:"image"`
		// Interpreter overrides the captured host interpreter for the default kind.
		Interpreter string `json:"interpreter,omitempty" mapstructure:"interpreter"`
	}

	// ContainerConfig configures container behavior.
	ContainerConfig struct {
		// Enabled controls whether container environments resolve at all.
		Enabled bool `json:"enabled" mapstructure:"enabled"`
		// Engine is the preferred container CLI.
		Engine ContainerEngine `json:"engine" mapstructure:"engine"`
		// Binary pins the engine binary path, skipping PATH detection.
		Binary string `json:"binary,omitempty" mapstructure:"binary"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging and full error chains.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// ColorScheme sets the color scheme ("auto", "dark", "light").
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}
)

// String returns the string representation of the EnvironmentKind.
func (k EnvironmentKind) String() string { return string(k) }

// Validate returns nil if the EnvironmentKind is empty or one of the defined kinds.
func (k EnvironmentKind) Validate() error {
	switch k {
	case "", EnvironmentDefault, EnvironmentIsolated, EnvironmentContainer:
		return nil
	default:
		return &InvalidEnvironmentKindError{Value: k}
	}
}

// Error implements the error interface.
func (e *InvalidEnvironmentKindError) Error() string {
	return fmt.Sprintf("invalid environment kind %q (valid: default, isolated, container)", e.Value)
}

// Unwrap returns ErrInvalidEnvironmentKind for errors.Is() compatibility.
func (e *InvalidEnvironmentKindError) Unwrap() error { return ErrInvalidEnvironmentKind }

// String returns the string representation of the ContainerEngine.
func (ce ContainerEngine) String() string { return string(ce) }

// Validate returns nil if the ContainerEngine is docker or podman.
func (ce ContainerEngine) Validate() error {
	switch ce {
	case ContainerEngineDocker, ContainerEnginePodman:
		return nil
	default:
		return &InvalidContainerEngineError{Value: ce}
	}
}

// Error implements the error interface.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: docker, podman)", e.Value)
}

// Unwrap returns ErrInvalidContainerEngine for errors.Is() compatibility.
func (e *InvalidContainerEngineError) Unwrap() error { return ErrInvalidContainerEngine }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// Validate returns nil if the ColorScheme is one of the defined schemes.
func (cs ColorScheme) Validate() error {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: cs}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, fe := range e.FieldErrors {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches both the config sentinel and each field sentinel.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Validate checks enum fields. Environment overrides bypass the CUE schema, so
// this runs on every loaded Config. Cross-field environment rules are left to
// environment.FromSettings.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Environment.Kind.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("environment.kind: %w", err))
	}
	if err := c.Container.Engine.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("container.engine: %w", err))
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("ui.color_scheme: %w", err))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Environment: EnvironmentConfig{
			Kind: EnvironmentDefault,
		},
		Container: ContainerConfig{
			Enabled: true,
			Engine:  ContainerEngineDocker,
		},
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}
