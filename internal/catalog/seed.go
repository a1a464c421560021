// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	_ "embed"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/keranjangkita/keranjang/pkg/types"
)

//go:embed seed.toml
var seedTOML []byte

var seedCatalog = mustDecodeSeed(seedTOML)

type seedDocument struct {
	Product []struct {
		Name  string `toml:"name"`
		Price int64  `toml:"price"`
	} `toml:"product"`
}

// Seed returns the built-in product list in declaration order.
func Seed() []Suggestion {
	out := make([]Suggestion, len(seedCatalog))
	copy(out, seedCatalog)
	return out
}

// DecodeSeed parses a TOML product list. Every entry needs a non-blank name
// and a non-negative price.
func DecodeSeed(data []byte) ([]Suggestion, error) {
	var doc seedDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}

	out := make([]Suggestion, 0, len(doc.Product))
	for i, p := range doc.Product {
		name := types.ProductName(p.Name)
		if ok, errs := name.IsValid(); !ok {
			return nil, fmt.Errorf("seed product %d: %w", i, errs[0])
		}
		price := types.Price(p.Price)
		if err := price.Validate(); err != nil {
			return nil, fmt.Errorf("seed product %d (%s): %w", i, name.Display(), err)
		}
		out = append(out, Suggestion{Name: name.Display(), Price: price, Source: SourceDatabase})
	}
	return out, nil
}

func mustDecodeSeed(data []byte) []Suggestion {
	s, err := DecodeSeed(data)
	if err != nil {
		panic(err)
	}
	return s
}
