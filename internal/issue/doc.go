// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// Errors carry the operation that failed, the resource involved and remediation
// hints. Well-known failure classes are linked to a Markdown issue page that the
// CLI renders with glamour below the error.
package issue
