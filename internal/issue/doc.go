// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the entity involved and
// remediation hints. The issue catalog holds Markdown explanations for the
// failures a shopper runs into (member not found, directory unavailable,
// invalid input), rendered to the terminal with glamour.
package issue
