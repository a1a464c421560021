// SPDX-License-Identifier: MPL-2.0

// Package types defines the value types shared by the catalog, cart, member and
// pricing packages. These are foundation types that carry semantic meaning and
// validation but have no domain-package dependencies.
//
// This package is a leaf dependency: it imports only the standard library.
// Domain packages import it; it never imports domain packages.
package types
