// Package booking implements the selection-to-appointment flow: it keeps a
// running summary of the booking in progress, validates submissions, and
// stores the resulting appointments newest first.
//
// An Engine is not safe for concurrent use; callers that share one must
// serialise access.
package booking

import (
	"fmt"
	"time"

	"github.com/wolfman30/material-scheduler/internal/catalog"
	"github.com/wolfman30/material-scheduler/internal/selection"
)

// Engine owns the selection, the customer fields and the registry of one
// booking session.
type Engine struct {
	catalog   *catalog.Catalog
	selection *selection.State
	fields    CustomerFields
	registry  *Registry
	ids       *IDGenerator
	now       func() time.Time
}

// Option customises an Engine.
type Option func(*Engine)

// WithIDGenerator replaces the default crypto/rand backed generator.
func WithIDGenerator(g *IDGenerator) Option {
	return func(e *Engine) {
		if g != nil {
			e.ids = g
		}
	}
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an engine over a read-only catalog.
func NewEngine(cat *catalog.Catalog, opts ...Option) *Engine {
	if cat == nil {
		panic("booking: catalog required")
	}
	e := &Engine{
		catalog:   cat,
		selection: selection.ForCatalog(cat),
		registry:  NewRegistry(),
		ids:       NewIDGenerator(nil),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ToggleProduct flips the selection of a product.
func (e *Engine) ToggleProduct(productID string) (Summary, error) {
	if _, err := e.selection.Toggle(productID); err != nil {
		return Summary{}, err
	}
	return e.Summary()
}

// AdjustQuantity moves a product quantity one step, never below one.
func (e *Engine) AdjustQuantity(productID string, dir selection.Direction) (Summary, error) {
	if _, err := e.selection.Adjust(productID, dir); err != nil {
		return Summary{}, err
	}
	return e.Summary()
}

// SetField updates one customer field.
func (e *Engine) SetField(f Field, value string) (Summary, error) {
	if err := e.fields.Set(f, value); err != nil {
		return Summary{}, err
	}
	return e.Summary()
}

// Submit validates the booking in progress and, on success, registers a new
// appointment and resets the selection and fields. On failure nothing changes.
func (e *Engine) Submit() (Appointment, error) {
	if err := Validate(e.fields, e.selection); err != nil {
		return Appointment{}, err
	}

	id, err := e.ids.Next(e.registry.Exists)
	if err != nil {
		return Appointment{}, err
	}
	appt, err := NewAppointment(e.fields, e.selection, e.catalog, id, e.now())
	if err != nil {
		return Appointment{}, err
	}
	if err := e.registry.InsertFront(appt); err != nil {
		return Appointment{}, err
	}

	e.Reset()
	return appt.clone(), nil
}

// Cancel moves an appointment to cancelled. The record stays listed.
func (e *Engine) Cancel(appointmentID string) (Appointment, error) {
	return e.registry.SetStatus(appointmentID, StatusCancelled)
}

// Confirm moves a pending appointment to confirmed.
func (e *Engine) Confirm(appointmentID string) (Appointment, error) {
	return e.registry.SetStatus(appointmentID, StatusConfirmed)
}

// Reset clears the selection and customer fields. Registered appointments
// are kept.
func (e *Engine) Reset() {
	e.selection.Reset()
	e.fields = CustomerFields{}
}

// Restore registers pre-built appointments, each becoming the newest. It
// stops at the first invalid record; earlier ones stay registered.
func (e *Engine) Restore(appts ...Appointment) error {
	for _, a := range appts {
		if _, err := ParseStatus(string(a.Status)); err != nil {
			return err
		}
		if got := sumSubtotals(a.LineItems); got != a.Total {
			return fmt.Errorf("%w: %s has %s, items sum to %s", ErrInconsistentTotal, a.ID, a.Total, got)
		}
		if err := e.registry.InsertFront(a); err != nil {
			return err
		}
	}
	return nil
}

// Summary recomputes the running totals.
func (e *Engine) Summary() (Summary, error) {
	return ComputeSummary(e.catalog, e.selection, e.fields)
}

// Appointments lists registered appointments newest first.
func (e *Engine) Appointments() []Appointment {
	return e.registry.All()
}

// Appointment looks up one appointment.
func (e *Engine) Appointment(id string) (Appointment, error) {
	return e.registry.Get(id)
}

// Fields returns the customer fields of the booking in progress.
func (e *Engine) Fields() CustomerFields {
	return e.fields
}

// Selection returns a copy of every selection entry.
func (e *Engine) Selection() []selection.Entry {
	return e.selection.Entries()
}

// Catalog returns the catalog the engine prices against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}
