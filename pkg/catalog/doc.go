// SPDX-License-Identifier: MPL-2.0

// Package catalog models the pack catalog of an installer session.
//
// A [Pack] is an installable unit with a name, a byte size, an install-group
// [Membership] and an ordered list of dependencies on other packs by name.
// A [Catalog] is an ordered, immutable collection of packs with a name index;
// it is built once per session with [New] or read from an install definition
// with [LoadFile] and handed read-only to the group resolver.
//
// # Install definitions
//
// Three file formats carry the same fields:
//   - install.cue: validated against the embedded #Catalog schema
//   - install.toml: [[packs]] tables
//   - install.yaml / install.yml: a packs list
//
// Example:
//
//	packs: [
//		{name: "core", size: 100},
//		{name: "docs", size: 50, groups: ["full"], depends: ["core"]},
//	]
package catalog
