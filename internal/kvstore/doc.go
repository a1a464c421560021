// SPDX-License-Identifier: MPL-2.0

// Package kvstore implements the string key-value contract that every
// persisted keranjang entity (product history, cart, price history, member
// session) is stored through.
//
// Three backends are provided: Memory for tests and throwaway sessions, File
// for a single JSON document on disk, and Postgres for a shared database.
// Backends are goroutine-safe, but the read-modify-write cycles done by their
// callers are not coordinated across processes: two sessions writing the same
// key race, and the last write wins.
package kvstore
