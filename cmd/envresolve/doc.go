// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the envresolve CLI.
//
// The commands load configuration, build an environment specification from it
// (flags take precedence), resolve it to an invocation descriptor, and print
// either the descriptor (resolve) or a launch command line (plan). Nothing is
// ever executed.
package cmd
