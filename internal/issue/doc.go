// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of markdown explanations
// for the failures users can fix themselves (bad environment settings, disabled
// container support, broken configuration, missing container engine).
package issue
