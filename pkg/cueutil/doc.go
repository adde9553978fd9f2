// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds small helpers shared by code that reads CUE files:
// JSON-path style error formatting and a file-size guard.
package cueutil
