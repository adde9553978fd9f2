// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/invowk/envresolve/internal/environment"
	"github.com/invowk/envresolve/internal/issue"
	"github.com/invowk/envresolve/internal/launch"
)

const (
	// ExitGeneric is used for failures without a more specific code.
	ExitGeneric ExitCode = 1
	// ExitInvalidSpecification means the environment specification was rejected.
	ExitInvalidSpecification ExitCode = 2
	// ExitUnsupportedEnvironment means the environment kind is disabled by configuration.
	ExitUnsupportedEnvironment ExitCode = 3
)

type (
	// ExitCode is the process exit status.
	ExitCode int

	// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
	ExitError struct {
		Code ExitCode
		Err  error
	}
)

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// classifyError maps an error to its exit code and the catalog entry that explains it.
func classifyError(err error) (ExitCode, issue.Id) {
	var ae *issue.ActionableError
	switch {
	case errors.Is(err, environment.ErrUnsupportedEnvironment):
		return ExitUnsupportedEnvironment, issue.UnsupportedEnvironmentId
	case errors.Is(err, environment.ErrInvalidSpecification):
		return ExitInvalidSpecification, issue.InvalidSpecificationId
	case errors.Is(err, launch.ErrEngineNotAvailable), errors.Is(err, launch.ErrEngineNotConfigured):
		return ExitGeneric, issue.ContainerEngineNotFoundId
	case errors.As(err, &ae):
		return ExitGeneric, ae.IssueID
	default:
		return ExitGeneric, 0
	}
}
