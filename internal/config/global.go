// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces the platform lookup in ConfigDir when set.
// os.UserHomeDir ignores HOME on some platforms, so tests pin the directory here.
var configDirOverride string

// SetConfigDirOverride pins the directory returned by ConfigDir.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears overrides set by SetConfigDirOverride.
func Reset() {
	configDirOverride = ""
}
