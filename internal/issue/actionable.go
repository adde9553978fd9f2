// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is an error carrying the failed operation, the resource
	// involved, and hints for fixing it.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("resolve environment").
	//		WithResource("container").
	//		WithSuggestion("Set container.enabled: true in config.cue").
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "load configuration".
		Operation string
		// Resource is the file, flag, or entity involved (optional).
		Resource string
		// Suggestions are remediation hints (optional).
		Suggestions []string
		// IssueID links the error to a catalog entry (optional).
		IssueID Id
		// Cause is the underlying error (optional).
		Cause error
	}

	// ErrorContext incrementally builds an ActionableError.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		issueID     Id
		cause       error
	}
)

// NewErrorContext creates a new ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error implements the error interface.
func (e *ActionableError) Error() string {
	var msg strings.Builder
	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)
	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ActionableError) Unwrap() error { return e.Cause }

// Format renders the error with its suggestions, and the full cause chain
// when verbose is set.
//
//	failed to <operation>: <resource>: <cause>
//
//	  • <suggestion>
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, s := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(s)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}

	return msg.String()
}

// WithOperation sets the operation being performed.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the resource involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends a remediation hint.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// WithIssue links the error to a catalog entry.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.issueID = id
	return c
}

// Wrap sets the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build creates the ActionableError, or nil if no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		IssueID:     c.issueID,
		Cause:       c.cause,
	}
}

// BuildError is Build returned as an error. It returns a nil interface (not a
// typed nil) when no operation was set.
func (c *ErrorContext) BuildError() error {
	ae := c.Build()
	if ae == nil {
		return nil
	}
	return ae
}
