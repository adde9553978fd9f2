// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// DefaultMaxFileSize caps CUE files read from disk (1 MiB).
const DefaultMaxFileSize int64 = 1 << 20

// FormatError flattens a CUE error into "<file>: <json-path>: <message>" lines.
//
//	config.cue: environment.kind: 3 errors in empty disjunction
//	config.cue: container.enabled: conflicting values "yes" and bool
//
// Errors that do not come from CUE are wrapped with the file path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	// cueerrors.Errors promotes plain errors to CUE errors, losing the chain.
	var ce cueerrors.Error
	if !errors.As(err, &ce) {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	cueErrs := cueerrors.Errors(err)

	lines := make([]string, 0, len(cueErrs))
	for _, e := range cueErrs {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()
		// CUE sometimes repeats the path at the start of the message.
		if path != "" && strings.HasPrefix(msg, path) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}
		if path != "" {
			msg = path + ": " + msg
		}
		lines = append(lines, msg)
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath renders a CUE path like ["env", "0", "path"] as "env[0].path".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			b.WriteString("[" + part + "]")
		case i > 0:
			b.WriteString("." + part)
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns an error if data is larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
	}
	return nil
}
