// SPDX-License-Identifier: MPL-2.0

// Package cart holds the shopping cart and folds repeated entries into one line.
//
// A Consolidator adds a candidate item either as a new line or by bumping the
// quantity of the line it matches: the same barcode when one is given, or the
// same name (ignoring case) at the same price otherwise. Every mutation is
// persisted to a kvstore.Store and every added item is recorded in the product
// history and, when it has a barcode, in the PriceHistory.
//
// Consolidator is not safe for concurrent use.
package cart
