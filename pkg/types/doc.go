// SPDX-License-Identifier: MPL-2.0

// Package types defines small value types shared by the catalog loader, the
// configuration layer and the CLI. It imports only the standard library.
package types
