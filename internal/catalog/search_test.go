// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/keranjangkita/keranjang/internal/kvstore"
)

func TestSearch_HistoryBeforeSeed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStore(kvstore.NewMemory(), WithSeed(testSeed))

	s.Upsert(ctx, "Indomie Goreng", 4000)

	got := s.Search(ctx, "in")
	if len(got) != 1 {
		t.Fatalf("Search(in) = %+v, want one entry", got)
	}
	if got[0].Source != SourceHistory || got[0].Price != 4000 {
		t.Errorf("Search(in)[0] = %+v, want history entry at 4000", got[0])
	}
}

func TestSearch_ShortQuery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStore(kvstore.NewMemory(), WithSeed(testSeed))

	for _, q := range []string{"", "i", "  a  ", "é"} {
		if got := s.Search(ctx, q); len(got) != 0 {
			t.Errorf("Search(%q) = %+v, want empty", q, got)
		}
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStore(kvstore.NewMemory(), WithSeed(testSeed))

	got := s.Search(ctx, " BOTOL ")
	if len(got) != 1 || got[0].Name != "Teh Botol Sosro 450ml" {
		t.Errorf("Search(BOTOL) = %+v", got)
	}
}

func TestSearch_LimitAndOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStore(kvstore.NewMemory(), WithSeed(testSeed))

	for i := range 7 {
		s.Upsert(ctx, fmt.Sprintf("Roti %d", i), 1000)
	}

	got := s.Search(ctx, "roti")
	if len(got) != MaxSuggestions {
		t.Fatalf("Search(roti) len = %d, want %d", len(got), MaxSuggestions)
	}
	if got[0].Name != "Roti 6" || got[4].Name != "Roti 2" {
		t.Errorf("Search(roti) should follow MRU order, got %+v", got)
	}
}

func TestSearch_NoDuplicatesAndNoMutation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStore(kvstore.NewMemory(), WithSeed(testSeed))

	s.Upsert(ctx, "aqua 600ML", 3000)
	before := s.History(ctx)

	got := s.Search(ctx, "aqua")
	if len(got) != 1 || got[0].Source != SourceHistory {
		t.Errorf("Search(aqua) = %+v, want the history entry only", got)
	}

	after := s.History(ctx)
	if len(before) != len(after) || before[0] != after[0] {
		t.Error("Search() must not modify history")
	}
}

func TestMergeByName(t *testing.T) {
	t.Parallel()

	a := []Suggestion{{Name: "X", Price: 1}, {Name: "y", Price: 2}}
	b := []Suggestion{{Name: " x ", Price: 3}, {Name: "Z", Price: 4}}

	got := mergeByName(0, nil, a, b)
	if len(got) != 3 || got[0].Price != 1 || got[2].Name != "Z" {
		t.Errorf("mergeByName() = %+v", got)
	}

	if got := mergeByName(2, nil, a, b); len(got) != 2 {
		t.Errorf("mergeByName(limit 2) len = %d", len(got))
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStore(kvstore.NewMemory(), WithSeed(testSeed))
	s.Upsert(ctx, "Teh Pucuk Harum", 4000)

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"Aqua 600ml", "Indomie Goreng", "Teh Botol Sosro 450ml", "Teh Pucuk Harum"}},
		{"TEH", []string{"Teh Botol Sosro 450ml", "Teh Pucuk Harum"}},
		{"a", []string{"Aqua 600ml", "Teh Pucuk Harum"}},
		{"kopi", nil},
	}

	for _, tt := range tests {
		got := s.Filter(ctx, tt.term)
		if len(got) != len(tt.want) {
			t.Errorf("Filter(%q) = %+v, want %v", tt.term, got, tt.want)
			continue
		}
		for i, name := range tt.want {
			if got[i].Name != name {
				t.Errorf("Filter(%q)[%d] = %q, want %q", tt.term, i, got[i].Name, name)
			}
		}
	}
}
