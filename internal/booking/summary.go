package booking

import (
	"fmt"

	"github.com/wolfman30/material-scheduler/internal/catalog"
	"github.com/wolfman30/material-scheduler/internal/selection"
)

// SummaryLine is the running subtotal of one selected product.
type SummaryLine struct {
	ProductID string        `json:"product_id"`
	Name      string        `json:"name"`
	Quantity  int           `json:"quantity"`
	Subtotal  catalog.Cents `json:"subtotal_cents"`
}

// Summary is the derived view of the booking in progress. It is recomputed
// from scratch and never stored.
type Summary struct {
	SelectedUnits int            `json:"selected_units"`
	Total         catalog.Cents  `json:"total_cents"`
	Lines         []SummaryLine  `json:"lines"`
	Fields        CustomerFields `json:"fields"`
	// Entries is the full selection the totals were computed from.
	Entries []selection.Entry `json:"entries"`
}

// ComputeSummary totals the selected entries against the catalog. Field
// values are echoed unchanged and the selection is copied alongside, so the
// result is one consistent snapshot.
func ComputeSummary(cat *catalog.Catalog, sel *selection.State, fields CustomerFields) (Summary, error) {
	sum := Summary{Lines: []SummaryLine{}, Fields: fields, Entries: sel.Entries()}
	for e := range sel.Selected() {
		p, err := cat.Product(e.ProductID)
		if err != nil {
			return Summary{}, fmt.Errorf("booking: compute summary: %w", err)
		}
		subtotal := p.UnitPrice.Times(e.Quantity)
		sum.SelectedUnits += e.Quantity
		sum.Total += subtotal
		sum.Lines = append(sum.Lines, SummaryLine{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  e.Quantity,
			Subtotal:  subtotal,
		})
	}
	return sum, nil
}
