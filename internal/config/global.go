// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces the platform config directory in tests, where
// os.UserHomeDir() does not reliably honor HOME (e.g. macOS in CI).
var configDirOverride string

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride sets a custom config directory path for tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
