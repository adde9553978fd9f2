// SPDX-License-Identifier: MPL-2.0

// Package config handles envresolve configuration using Viper with CUE as the file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/envresolve/config.cue on Linux,
// ~/Library/Application Support/envresolve/config.cue on macOS, or
// %APPDATA%\envresolve\config.cue on Windows, falling back to ./config.cue.
// The file is validated against the embedded config_schema.cue before being merged
// over the defaults. ENVRESOLVE_* environment variables override file values
// (e.g. ENVRESOLVE_ENVIRONMENT_KIND=container).
package config
