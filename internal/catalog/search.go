// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"strings"
	"unicode/utf8"
)

const (
	// MinQueryLength is the shortest query, in characters, that yields suggestions.
	MinQueryLength = 2

	// MaxSuggestions caps the number of suggestions returned by Search.
	MaxSuggestions = 5
)

// Search returns up to MaxSuggestions entries whose name contains query,
// ignoring case. History is scanned before the seed catalog and the first
// entry for each normalized name wins. Queries shorter than MinQueryLength
// return nothing.
func (s *Store) Search(ctx context.Context, query string) []Suggestion {
	q := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < MinQueryLength {
		return nil
	}

	match := func(e Suggestion) bool {
		return strings.Contains(strings.ToLower(e.Name), q)
	}
	return mergeByName(MaxSuggestions, match, s.History(ctx), s.seed)
}

// Filter returns the entries of All whose name contains term, ignoring case.
// Unlike Search there is no minimum length or cap; a blank term returns All.
func (s *Store) Filter(ctx context.Context, term string) []Suggestion {
	all := s.All(ctx)
	q := strings.ToLower(strings.TrimSpace(term))
	if q == "" {
		return all
	}

	out := all[:0]
	for _, e := range all {
		if strings.Contains(strings.ToLower(e.Name), q) {
			out = append(out, e)
		}
	}
	return out
}
