// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for instgroup.
//
// The root command carries the catalog, config, verbosity and OS flags. The
// groups subcommands list, show and select install groups; check lints the
// catalog; config inspects the configuration.
package cmd
