package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
)

type fileProduct struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Load decodes a JSON product list. Prices may be JSON numbers or decimal
// strings ("5.90"); both are parsed exactly.
func Load(r io.Reader) (*Catalog, error) {
	var raw []fileProduct
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("catalog: no products defined")
	}

	products := make([]Product, 0, len(raw))
	for _, fp := range raw {
		price, err := CentsFromDecimal(fp.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog: product %q: %w", fp.ID, err)
		}
		products = append(products, Product{ID: fp.ID, Name: fp.Name, UnitPrice: price})
	}
	return New(products...)
}

// LoadFile reads a catalog from a JSON file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}
