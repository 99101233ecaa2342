// Package catalog holds the immutable product price list a booking session
// selects from.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownProduct is returned when a product id is not in the catalog.
// It signals a caller bug rather than a customer mistake.
var ErrUnknownProduct = errors.New("catalog: unknown product")

// Product is a single catalog entry.
type Product struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice Cents  `json:"unit_price_cents"`
}

// Catalog maps product ids to names and unit prices. It is read-only once built.
type Catalog struct {
	products map[string]Product
	order    []string
}

// New builds a catalog from products, rejecting blank or duplicate ids and
// negative prices. Definition order is preserved.
func New(products ...Product) (*Catalog, error) {
	c := &Catalog{
		products: make(map[string]Product, len(products)),
		order:    make([]string, 0, len(products)),
	}
	for _, p := range products {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, errors.New("catalog: product id required")
		}
		if _, dup := c.products[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %q", p.ID)
		}
		if p.UnitPrice < 0 {
			return nil, fmt.Errorf("catalog: product %q has negative price", p.ID)
		}
		c.products[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c, nil
}

// MustNew is like New but panics on invalid input.
func MustNew(products ...Product) *Catalog {
	c, err := New(products...)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the building-material catalog the booking page ships with.
func Default() *Catalog {
	return MustNew(
		Product{ID: "1", Name: "tijolo", UnitPrice: 50},
		Product{ID: "2", Name: "cimento", UnitPrice: 590},
		Product{ID: "3", Name: "ferro", UnitPrice: 1290},
		Product{ID: "4", Name: "madeira", UnitPrice: 2890},
	)
}

// Product returns the catalog entry for id.
func (c *Catalog) Product(id string) (Product, error) {
	p, ok := c.products[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %q", ErrUnknownProduct, id)
	}
	return p, nil
}

// PriceOf returns the unit price for id.
func (c *Catalog) PriceOf(id string) (Cents, error) {
	p, err := c.Product(id)
	if err != nil {
		return 0, err
	}
	return p.UnitPrice, nil
}

// NameOf returns the display name for id.
func (c *Catalog) NameOf(id string) (string, error) {
	p, err := c.Product(id)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.products[id]
	return ok
}

// IDs returns product ids in definition order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Products returns every product in definition order.
func (c *Catalog) Products() []Product {
	out := make([]Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.order)
}
