// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// Errors carry the failed operation together with hints on how to fix it.
// Known failure classes also have a Markdown guide rendered with glamour.
package issue
