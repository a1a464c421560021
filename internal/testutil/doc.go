// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by the keranjang tests: a
// controllable clock for line timestamps and environment helpers that restore
// HOME and XDG directories after the test.
package testutil
