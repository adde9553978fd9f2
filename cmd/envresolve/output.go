// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

const (
	outputText outputFormat = "text"
	outputJSON outputFormat = "json"
	outputTOML outputFormat = "toml"
)

// ErrInvalidOutputFormat is the sentinel error wrapped by InvalidOutputFormatError.
var ErrInvalidOutputFormat = errors.New("invalid output format")

type (
	// outputFormat selects how results are printed.
	outputFormat string

	// InvalidOutputFormatError is returned when -o names an unknown format.
	InvalidOutputFormatError struct {
		Value string
	}
)

// Validate returns nil if the format is text, json or toml.
func (f outputFormat) Validate() error {
	switch f {
	case outputText, outputJSON, outputTOML:
		return nil
	default:
		return &InvalidOutputFormatError{Value: string(f)}
	}
}

// Error implements the error interface.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json, toml)", e.Value)
}

// Unwrap returns ErrInvalidOutputFormat for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// writeStructured encodes v as JSON or TOML.
func writeStructured(w io.Writer, format outputFormat, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputTOML:
		return toml.NewEncoder(w).Encode(v)
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
}
