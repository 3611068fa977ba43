// SPDX-License-Identifier: MPL-2.0

// Package groups resolves install groups over a pack catalog.
//
// For every group named in the catalog, [Resolver.Resolve] collects the packs
// that belong to the group (explicitly or universally) together with the
// transitive closure of their dependencies, and sums their sizes. Each pack
// is counted once however many dependency paths reach it, and a pack already
// collected is never expanded again, so diamonds and cycles terminate.
//
// Resolution never fails on inconsistent catalogs. A dependency on a pack
// that is not in the catalog is skipped, and both missing references and
// dependency cycles are reported as [Diagnostic] values through an optional
// [Tracer].
//
// The remaining helpers serve the caller that presents groups to a user:
// [Sort] orders resolved groups by sort key, [FormatSize] renders sizes,
// [DefaultIndex] picks the preselected row, [Apply] narrows the catalog to a
// chosen group, and [Check] lints a whole catalog.
package groups
