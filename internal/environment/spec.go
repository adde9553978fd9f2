// SPDX-License-Identifier: MPL-2.0

package environment

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/distribution/reference"
)

const (
	// KindDefault runs work with the interpreter of the host process.
	KindDefault Kind = "default"
	// KindIsolated runs work with the interpreter inside an isolated environment directory.
	KindIsolated Kind = "isolated"
	// KindContainer runs work inside a container image.
	KindContainer Kind = "container"
)

var (
	// ErrInvalidKind is the sentinel error wrapped by InvalidKindError.
	ErrInvalidKind = errors.New("invalid environment kind")
	// ErrInvalidInterpreterPath is the sentinel error wrapped by InvalidInterpreterPathError.
	ErrInvalidInterpreterPath = errors.New("invalid interpreter path")
	// ErrInvalidContainerImage is the sentinel error wrapped by InvalidContainerImageError.
	ErrInvalidContainerImage = errors.New("invalid container image")

	// executable reports the binary of the running process. Replaced in tests.
	executable = os.Executable
)

type (
	// Kind identifies an environment variant.
	Kind string

	// InvalidKindError is returned when a Kind value is not recognized.
	// It wraps ErrInvalidKind for errors.Is() compatibility.
	InvalidKindError struct {
		Value Kind
	}

	// InterpreterPath is the path of an interpreter binary, absolute or relative.
	// It is carried verbatim; no normalization is ever applied.
	InterpreterPath string

	// InvalidInterpreterPathError is returned when an InterpreterPath is empty or
	// whitespace-only.
	InvalidInterpreterPathError struct {
		Value InterpreterPath
	}

	// ContainerImage is a container image reference (e.g. "myrepo/worker:1.2").
	ContainerImage string

	// InvalidContainerImageError is returned when a ContainerImage is blank or does
	// not parse as an image reference.
	InvalidContainerImageError struct {
		Value ContainerImage
		Cause error
	}

	// Spec describes how a unit of work should run locally. The set of
	// implementations is closed to this package.
	Spec interface {
		// Kind returns the environment variant.
		Kind() Kind
		// Validate reports structural problems with the spec's fields.
		Validate() error

		isSpec()
	}

	// DefaultEnvironment runs work with the host interpreter captured at construction.
	// Build it with NewDefaultEnvironment or DefaultEnvironmentFor; the zero value
	// carries no interpreter and does not resolve.
	DefaultEnvironment struct {
		interpreter InterpreterPath
	}

	// IsolatedEnvironment runs work with the interpreter at Path inside a
	// pre-existing isolated environment. The environment is assumed to be prepared
	// (created, unpacked, populated) by a separate step.
	IsolatedEnvironment struct {
		Path InterpreterPath
	}

	// ContainerEnvironment runs work inside Image. Pulling, building and starting
	// the container belong to an external launcher.
	ContainerEnvironment struct {
		Image ContainerImage
	}
)

// AllKinds returns every recognized environment kind.
func AllKinds() []Kind {
	return []Kind{KindDefault, KindIsolated, KindContainer}
}

// ParseKind converts s to a Kind. The empty string maps to KindDefault.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSpace(s))
	if k == "" {
		return KindDefault, nil
	}
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// Validate returns nil if the Kind is one of the defined kinds.
func (k Kind) Validate() error {
	switch k {
	case KindDefault, KindIsolated, KindContainer:
		return nil
	default:
		return &InvalidKindError{Value: k}
	}
}

// Error implements the error interface.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid environment kind %q (valid: %s, %s, %s)",
		e.Value, KindDefault, KindIsolated, KindContainer)
}

// Unwrap returns ErrInvalidKind so callers can use errors.Is for programmatic detection.
func (e *InvalidKindError) Unwrap() error { return ErrInvalidKind }

// String returns the string representation of the InterpreterPath.
func (p InterpreterPath) String() string { return string(p) }

// Validate returns nil if the path is non-empty and not whitespace-only.
func (p InterpreterPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidInterpreterPathError{Value: p}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidInterpreterPathError) Error() string {
	return fmt.Sprintf("invalid interpreter path %q: must not be empty or whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidInterpreterPath so callers can use errors.Is for programmatic detection.
func (e *InvalidInterpreterPathError) Unwrap() error { return ErrInvalidInterpreterPath }

// String returns the string representation of the ContainerImage.
func (i ContainerImage) String() string { return string(i) }

// Validate returns nil if the image is a well-formed image reference.
// Short names like "python:3.12" are accepted and normalized only for the check;
// the stored value is never rewritten.
func (i ContainerImage) Validate() error {
	if strings.TrimSpace(string(i)) == "" {
		return &InvalidContainerImageError{Value: i}
	}
	if _, err := reference.ParseNormalizedNamed(string(i)); err != nil {
		return &InvalidContainerImageError{Value: i, Cause: err}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidContainerImageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid container image %q: %v", e.Value, e.Cause)
	}
	return fmt.Sprintf("invalid container image %q: must not be empty or whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidContainerImage so callers can use errors.Is for programmatic detection.
func (e *InvalidContainerImageError) Unwrap() error { return ErrInvalidContainerImage }

// HostInterpreter returns the binary executing the current process. When the
// platform cannot report it, os.Args[0] is used as given.
func HostInterpreter() InterpreterPath {
	if path, err := executable(); err == nil && path != "" {
		return InterpreterPath(path)
	}
	if len(os.Args) > 0 {
		return InterpreterPath(os.Args[0])
	}
	return ""
}

// NewDefaultEnvironment captures the host interpreter once. Later changes to the
// process environment do not affect the returned value.
func NewDefaultEnvironment() DefaultEnvironment {
	return DefaultEnvironment{interpreter: HostInterpreter()}
}

// DefaultEnvironmentFor builds a DefaultEnvironment with an explicitly captured
// interpreter path.
func DefaultEnvironmentFor(interpreter InterpreterPath) DefaultEnvironment {
	return DefaultEnvironment{interpreter: interpreter}
}

// Interpreter returns the captured interpreter path.
func (e DefaultEnvironment) Interpreter() InterpreterPath { return e.interpreter }

// Kind returns KindDefault.
func (DefaultEnvironment) Kind() Kind { return KindDefault }

// Validate returns an error if no interpreter was captured.
func (e DefaultEnvironment) Validate() error { return e.interpreter.Validate() }

func (DefaultEnvironment) isSpec() {}

// NewIsolatedEnvironment builds an IsolatedEnvironment for path.
func NewIsolatedEnvironment(path InterpreterPath) IsolatedEnvironment {
	return IsolatedEnvironment{Path: path}
}

// Kind returns KindIsolated.
func (IsolatedEnvironment) Kind() Kind { return KindIsolated }

// Validate returns an error if Path is blank. It does not look at the filesystem.
func (e IsolatedEnvironment) Validate() error { return e.Path.Validate() }

func (IsolatedEnvironment) isSpec() {}

// NewContainerEnvironment builds a ContainerEnvironment for image.
func NewContainerEnvironment(image ContainerImage) ContainerEnvironment {
	return ContainerEnvironment{Image: image}
}

// Kind returns KindContainer.
func (ContainerEnvironment) Kind() Kind { return KindContainer }

// Validate returns an error if Image is not a well-formed image reference.
func (e ContainerEnvironment) Validate() error { return e.Image.Validate() }

func (ContainerEnvironment) isSpec() {}
