// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
)

const (
	// EngineDocker launches containers with the Docker CLI.
	EngineDocker EngineType = "docker"
	// EnginePodman launches containers with the Podman CLI.
	EnginePodman EngineType = "podman"
)

var (
	// ErrInvalidEngineType is the sentinel error wrapped by InvalidEngineTypeError.
	ErrInvalidEngineType = errors.New("invalid container engine")
	// ErrEngineNotAvailable is the sentinel error wrapped by EngineNotAvailableError.
	ErrEngineNotAvailable = errors.New("container engine not available")

	// lookPath is exec.LookPath, replaced in tests.
	lookPath = exec.LookPath
)

type (
	// EngineType identifies the container engine CLI.
	EngineType string

	// InvalidEngineTypeError is returned when an EngineType value is not recognized.
	InvalidEngineTypeError struct {
		Value EngineType
	}

	// EngineNotAvailableError is returned when neither the preferred engine nor its
	// fallback is installed.
	EngineNotAvailableError struct {
		Engine EngineType
		Reason string
	}
)

// String returns the string representation of the EngineType.
func (e EngineType) String() string { return string(e) }

// Validate returns nil if the EngineType is docker or podman.
func (e EngineType) Validate() error {
	switch e {
	case EngineDocker, EnginePodman:
		return nil
	default:
		return &InvalidEngineTypeError{Value: e}
	}
}

// fallback returns the engine tried when e is not installed.
func (e EngineType) fallback() EngineType {
	if e == EnginePodman {
		return EngineDocker
	}
	return EnginePodman
}

// Error implements the error interface.
func (e *InvalidEngineTypeError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: %s, %s)", e.Value, EngineDocker, EnginePodman)
}

// Unwrap returns ErrInvalidEngineType so callers can use errors.Is for programmatic detection.
func (e *InvalidEngineTypeError) Unwrap() error { return ErrInvalidEngineType }

// Error implements the error interface.
func (e *EngineNotAvailableError) Error() string {
	return fmt.Sprintf("container engine '%s' is not available: %s", e.Engine, e.Reason)
}

// Unwrap returns ErrEngineNotAvailable so callers can use errors.Is for programmatic detection.
func (e *EngineNotAvailableError) Unwrap() error { return ErrEngineNotAvailable }

// DetectEngine returns a Planner bound to the preferred engine's binary, falling
// back to the other engine when the preferred one is not on PATH.
func DetectEngine(preferred EngineType) (Planner, error) {
	if err := preferred.Validate(); err != nil {
		return Planner{}, err
	}

	if path, err := lookPath(string(preferred)); err == nil {
		return Planner{Engine: preferred, EngineBinary: path}, nil
	}

	alt := preferred.fallback()
	if path, err := lookPath(string(alt)); err == nil {
		slog.Debug("preferred container engine not found, using fallback",
			"preferred", preferred, "engine", alt, "path", path)
		return Planner{Engine: alt, EngineBinary: path}, nil
	}

	return Planner{}, &EngineNotAvailableError{
		Engine: preferred,
		Reason: fmt.Sprintf("%s is not installed or not accessible, and %s fallback is also not available", preferred, alt),
	}
}
