// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from the --config path when given, otherwise from
// config.cue in the user configuration directory (XDG on Linux,
// ~/Library/Application Support on macOS, %APPDATA% on Windows), otherwise
// from ./config.cue. Missing files fall back to defaults. Every key can be
// overridden through VDFPACK_-prefixed environment variables, for example
// VDFPACK_LOG_LEVEL=debug.
//
// Files are validated against the embedded CUE schema (config_schema.cue).
package config
