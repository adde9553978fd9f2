// SPDX-License-Identifier: MPL-2.0

// Package environment resolves execution-environment specifications into
// invocation descriptors.
//
// Three environment kinds are supported:
//   - default: the interpreter of the running host process, captured once at construction
//   - isolated: the interpreter inside a pre-existing isolated environment (e.g. a virtualenv)
//   - container: a container image reference, passed through for an external launcher
//
// Spec is a closed set: only DefaultEnvironment, IsolatedEnvironment and
// ContainerEnvironment satisfy it, and Resolver.Resolve matches them exhaustively.
// Resolution is pure. It never touches the filesystem, spawns processes, or logs, so a
// Resolver can be shared freely between goroutines.
//
// Settings is the configuration-shaped input. FromSettings validates it and builds the
// matching Spec; malformed settings fail with ErrInvalidSpecification instead of falling
// back to the default environment.
package environment
