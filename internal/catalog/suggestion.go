// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"github.com/keranjangkita/keranjang/pkg/types"
)

const (
	// SourceHistory marks a suggestion the shopper entered earlier.
	SourceHistory Source = "history"
	// SourceDatabase marks a suggestion from the seed catalog.
	SourceDatabase Source = "database"
)

type (
	// Source tells where a Suggestion came from.
	Source string

	// Suggestion is a product name with the price it was last entered at.
	Suggestion struct {
		Name   string      `json:"name"`
		Price  types.Price `json:"price"`
		Source Source      `json:"source"`
	}
)

// String returns the string representation of the Source.
func (s Source) String() string { return string(s) }

// Key returns the identity of the suggestion: its trimmed, case-folded name.
func (s Suggestion) Key() string {
	return types.ProductName(s.Name).Normalized()
}

// mergeByName concatenates tiers in order and keeps only the first entry for
// each normalized name. A positive limit stops the merge once reached.
func mergeByName(limit int, keep func(Suggestion) bool, tiers ...[]Suggestion) []Suggestion {
	seen := make(map[string]struct{})
	var out []Suggestion
	for _, tier := range tiers {
		for _, s := range tier {
			if keep != nil && !keep(s) {
				continue
			}
			k := s.Key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, s)
			if limit > 0 && len(out) == limit {
				return out
			}
		}
	}
	return out
}
