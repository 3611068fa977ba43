// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/instgroup/config.cue on Linux,
// ~/Library/Application Support/instgroup/config.cue on macOS and
// %APPDATA%\instgroup\config.cue on Windows, falling back to ./config.cue.
// Files are validated against an embedded CUE schema (config_schema.cue).
// Environment variables prefixed with INSTGROUP_ override scalar keys.
package config
