// SPDX-License-Identifier: MPL-2.0

// Package lookup queries the public product database for names to pre-fill.
//
// Answers are suggestions only. Every request is bounded by a timeout and
// never retried; failures are logged and reported as "not found". Latest
// drops responses that arrive after a newer request was issued.
package lookup
