// SPDX-License-Identifier: MPL-2.0

// Package platform names the operating systems a pack can be restricted to.
//
// Catalogs use GOOS spellings in a pack's os list, and the CLI filters the
// catalog for one of them before resolving groups.
package platform
