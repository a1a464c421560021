// SPDX-License-Identifier: MPL-2.0

// Package catalog keeps the product names a shopper has entered and suggests
// them back while typing.
//
// Store owns the recently used history, persisted in a kvstore.Store and
// capped at HistoryCapacity entries in most-recently-used order. The seed
// catalog is an embedded TOML list of common products. Search merges both
// tiers, history first, and never yields two entries with the same
// normalized name.
//
// Store is not safe for concurrent mutation.
package catalog
