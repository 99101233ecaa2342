package booking

import (
	"fmt"
	"time"

	"github.com/wolfman30/material-scheduler/internal/catalog"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("booking: unknown status %q", s)
	}
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Re-applying the current status is always allowed; cancelled is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	default:
		return false
	}
}

// LineItem is a frozen copy of one selected product at submission time.
type LineItem struct {
	ProductID string        `json:"product_id"`
	Name      string        `json:"name"`
	Quantity  int           `json:"quantity"`
	UnitPrice catalog.Cents `json:"unit_price_cents"`
	Subtotal  catalog.Cents `json:"subtotal_cents"`
}

// Appointment is a submitted booking. Only Status changes after creation.
type Appointment struct {
	ID        string         `json:"id"`
	Customer  CustomerFields `json:"customer"`
	Date      string         `json:"date"`
	Time      string         `json:"time"`
	LineItems []LineItem     `json:"line_items"`
	Total     catalog.Cents  `json:"total_cents"`
	Status    Status         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

// Units returns the total quantity across line items.
func (a Appointment) Units() int {
	n := 0
	for _, li := range a.LineItems {
		n += li.Quantity
	}
	return n
}

// clone returns a copy that shares no line item storage with a.
func (a Appointment) clone() Appointment {
	out := a
	if a.LineItems != nil {
		out.LineItems = make([]LineItem, len(a.LineItems))
		copy(out.LineItems, a.LineItems)
	}
	return out
}

func sumSubtotals(items []LineItem) catalog.Cents {
	var total catalog.Cents
	for _, li := range items {
		total += li.Subtotal
	}
	return total
}
