// SPDX-License-Identifier: MPL-2.0

package environment

type (
	// Invocation is the launcher-consumable result of resolving a Spec.
	// For interpreter-based kinds Command holds the interpreter path; for containers
	// Image holds the image reference and Command is empty.
	Invocation struct {
		Kind    Kind   `json:"kind" toml:"kind"`
		Command string `json:"command,omitempty" toml:"command,omitempty"`
		Image   string `json:"image,omitempty" toml:"image,omitempty"`
	}

	// Resolver maps specs to invocations. It holds only immutable options and is
	// safe for concurrent use.
	Resolver struct {
		containers bool
	}

	// ResolverOption configures a Resolver.
	ResolverOption func(*Resolver)
)

var defaultResolver = NewResolver()

// WithContainerSupport controls whether container specs resolve to a pass-through
// invocation (true, the default) or fail with ErrUnsupportedEnvironment.
func WithContainerSupport(enabled bool) ResolverOption {
	return func(r *Resolver) {
		r.containers = enabled
	}
}

// NewResolver creates a Resolver. Container support is enabled unless disabled
// with WithContainerSupport(false).
func NewResolver(opts ...ResolverOption) Resolver {
	r := Resolver{containers: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Resolve resolves spec with the package default resolver.
func Resolve(spec Spec) (Invocation, error) {
	return defaultResolver.Resolve(spec)
}

// Resolve returns the invocation for spec. Paths and images are returned verbatim.
// Unrecognized or partially constructed specs fail with ErrInvalidSpecification.
func (r Resolver) Resolve(spec Spec) (Invocation, error) {
	switch s := spec.(type) {
	case DefaultEnvironment:
		return r.resolveDefault(s)
	case *DefaultEnvironment:
		if s == nil {
			return Invocation{}, &InvalidSpecificationError{Spec: spec, Reason: "nil default environment"}
		}
		return r.resolveDefault(*s)
	case IsolatedEnvironment:
		return resolveIsolated(s), nil
	case *IsolatedEnvironment:
		if s == nil {
			return Invocation{}, &InvalidSpecificationError{Spec: spec, Reason: "nil isolated environment"}
		}
		return resolveIsolated(*s), nil
	case ContainerEnvironment:
		return r.resolveContainer(s)
	case *ContainerEnvironment:
		if s == nil {
			return Invocation{}, &InvalidSpecificationError{Spec: spec, Reason: "nil container environment"}
		}
		return r.resolveContainer(*s)
	case nil:
		return Invocation{}, &InvalidSpecificationError{Reason: "no environment specification"}
	default:
		return Invocation{}, &InvalidSpecificationError{Spec: spec, Reason: "unrecognized environment variant"}
	}
}

func (r Resolver) resolveDefault(s DefaultEnvironment) (Invocation, error) {
	// The zero value never captured an interpreter.
	if s.interpreter == "" {
		return Invocation{}, &InvalidSpecificationError{Spec: s, Reason: "default environment has no captured interpreter"}
	}
	return Invocation{Kind: KindDefault, Command: string(s.interpreter)}, nil
}

func resolveIsolated(s IsolatedEnvironment) Invocation {
	return Invocation{Kind: KindIsolated, Command: string(s.Path)}
}

func (r Resolver) resolveContainer(s ContainerEnvironment) (Invocation, error) {
	if !r.containers {
		return Invocation{}, &UnsupportedEnvironmentError{Kind: KindContainer}
	}
	return Invocation{Kind: KindContainer, Image: string(s.Image)}, nil
}

// Target returns the value a launcher acts on: the interpreter path, or the image
// reference for containers.
func (i Invocation) Target() string {
	if i.Kind == KindContainer {
		return i.Image
	}
	return i.Command
}

// IsContainer reports whether the invocation names a container image.
func (i Invocation) IsContainer() bool { return i.Kind == KindContainer }

// String returns "kind:target".
func (i Invocation) String() string {
	return string(i.Kind) + ":" + i.Target()
}
