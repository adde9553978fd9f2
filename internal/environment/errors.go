// SPDX-License-Identifier: MPL-2.0

package environment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSpecification is returned when a spec is not one of the recognized
	// variants, is only partially constructed, or was built from malformed settings.
	ErrInvalidSpecification = errors.New("invalid environment specification")
	// ErrUnsupportedEnvironment is returned when a recognized environment kind cannot
	// currently produce an invocation descriptor.
	ErrUnsupportedEnvironment = errors.New("unsupported environment")
)

type (
	// InvalidSpecificationError describes a spec the resolver cannot handle.
	// It wraps ErrInvalidSpecification for errors.Is() compatibility.
	InvalidSpecificationError struct {
		// Spec is the offending value (may be nil).
		Spec Spec
		// Reason is a short human-readable explanation.
		Reason string
	}

	// UnsupportedEnvironmentError is returned when resolution of a kind is disabled.
	// It wraps ErrUnsupportedEnvironment for errors.Is() compatibility.
	UnsupportedEnvironmentError struct {
		Kind Kind
	}

	// InvalidSettingsError is returned by FromSettings when one or more fields are
	// invalid. It wraps ErrInvalidSpecification and collects field-level errors.
	InvalidSettingsError struct {
		Kind        Kind
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *InvalidSpecificationError) Error() string {
	if e.Spec == nil {
		return fmt.Sprintf("%s: %s", ErrInvalidSpecification, e.Reason)
	}
	return fmt.Sprintf("%s: %s (%T)", ErrInvalidSpecification, e.Reason, e.Spec)
}

// Unwrap returns ErrInvalidSpecification so callers can use errors.Is for programmatic detection.
func (e *InvalidSpecificationError) Unwrap() error { return ErrInvalidSpecification }

// Error implements the error interface.
func (e *UnsupportedEnvironmentError) Error() string {
	return fmt.Sprintf("%s: %s environments are disabled", ErrUnsupportedEnvironment, e.Kind)
}

// Unwrap returns ErrUnsupportedEnvironment so callers can use errors.Is for programmatic detection.
func (e *UnsupportedEnvironmentError) Unwrap() error { return ErrUnsupportedEnvironment }

// Error implements the error interface.
func (e *InvalidSettingsError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, fe := range e.FieldErrors {
		msgs = append(msgs, fe.Error())
	}
	if e.Kind == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidSpecification, strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("%s (%s): %s", ErrInvalidSpecification, e.Kind, strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidSpecification followed by the field errors, so
// errors.Is matches field sentinels such as ErrInvalidKind too.
func (e *InvalidSettingsError) Unwrap() []error {
	return append([]error{ErrInvalidSpecification}, e.FieldErrors...)
}
