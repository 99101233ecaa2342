package booking

import (
	"fmt"
	"time"

	"github.com/wolfman30/material-scheduler/internal/catalog"
	"github.com/wolfman30/material-scheduler/internal/selection"
)

// NewAppointment snapshots the current selection into a confirmed
// appointment. Callers must have run Validate first.
func NewAppointment(fields CustomerFields, sel *selection.State, cat *catalog.Catalog, id string, createdAt time.Time) (Appointment, error) {
	var items []LineItem
	for e := range sel.Selected() {
		p, err := cat.Product(e.ProductID)
		if err != nil {
			return Appointment{}, fmt.Errorf("booking: build line item: %w", err)
		}
		items = append(items, LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  e.Quantity,
			UnitPrice: p.UnitPrice,
			Subtotal:  p.UnitPrice.Times(e.Quantity),
		})
	}

	return Appointment{
		ID:        id,
		Customer:  fields,
		Date:      fields.Date,
		Time:      fields.Time,
		LineItems: items,
		Total:     sumSubtotals(items),
		Status:    StatusConfirmed,
		CreatedAt: createdAt.UTC(),
	}, nil
}
