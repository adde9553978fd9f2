// SPDX-License-Identifier: MPL-2.0

// Package launch turns resolved invocations into launch plans: the full argv an
// external launcher would execute for a task.
//
// Interpreter invocations become "<interpreter> <args...>". Container invocations
// become "<engine> run --rm [options] <image> <args...>" for Docker or Podman, using
// the same argument ordering for both engines.
//
// Planning never starts a process. DetectEngine is the only function that touches
// the host, and only to look up engine binaries on PATH.
package launch
