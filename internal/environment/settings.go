// SPDX-License-Identifier: MPL-2.0

package environment

import (
	"fmt"
	"strings"
)

// Settings is the flat, configuration-shaped description of an environment.
// Only the fields belonging to Kind may be set.
type Settings struct {
	// Kind selects the variant. Empty means KindDefault.
	Kind string
	// Path is the interpreter inside an isolated environment (isolated only).
	Path string
	// Image is the container image reference (container only).
	Image string
	// Interpreter overrides the captured host interpreter (default only).
	Interpreter string
}

// FromSettings validates s and builds the matching Spec. Every problem is reported
// in a single *InvalidSettingsError wrapping ErrInvalidSpecification; there is no
// fallback to the default environment.
func FromSettings(s Settings) (Spec, error) {
	kind, err := ParseKind(s.Kind)
	if err != nil {
		return nil, &InvalidSettingsError{FieldErrors: []error{fmt.Errorf("kind: %w", err)}}
	}

	var errs []error
	for _, f := range foreignFields(kind, s) {
		errs = append(errs, fmt.Errorf("%s: not allowed for %s environments", f, kind))
	}

	var spec Spec
	switch kind {
	case KindDefault:
		if s.Interpreter != "" {
			if err := InterpreterPath(s.Interpreter).Validate(); err != nil {
				errs = append(errs, fmt.Errorf("interpreter: %w", err))
			}
			spec = DefaultEnvironmentFor(InterpreterPath(s.Interpreter))
		} else {
			spec = NewDefaultEnvironment()
		}
	case KindIsolated:
		spec = NewIsolatedEnvironment(InterpreterPath(s.Path))
		if err := spec.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("path: %w", err))
		}
	case KindContainer:
		spec = NewContainerEnvironment(ContainerImage(s.Image))
		if err := spec.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("image: %w", err))
		}
	}

	if len(errs) > 0 {
		return nil, &InvalidSettingsError{Kind: kind, FieldErrors: errs}
	}
	return spec, nil
}

// SettingsOf is the inverse of FromSettings for display and round-tripping.
func SettingsOf(spec Spec) Settings {
	switch s := spec.(type) {
	case DefaultEnvironment:
		return Settings{Kind: string(KindDefault), Interpreter: string(s.interpreter)}
	case IsolatedEnvironment:
		return Settings{Kind: string(KindIsolated), Path: string(s.Path)}
	case ContainerEnvironment:
		return Settings{Kind: string(KindContainer), Image: string(s.Image)}
	default:
		return Settings{}
	}
}

func foreignFields(kind Kind, s Settings) []string {
	var fields []string
	if kind != KindIsolated && strings.TrimSpace(s.Path) != "" {
		fields = append(fields, "path")
	}
	if kind != KindContainer && strings.TrimSpace(s.Image) != "" {
		fields = append(fields, "image")
	}
	if kind != KindDefault && strings.TrimSpace(s.Interpreter) != "" {
		fields = append(fields, "interpreter")
	}
	return fields
}
