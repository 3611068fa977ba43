// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE parsing flow shared by the catalog loader
// and the configuration layer:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with a schema definition
//  3. Validate and decode into a Go struct
//
// Errors carry the file name and the JSON-style path of the offending value,
// for example "install.cue: packs[2].size: conflicting values".
package cueutil
