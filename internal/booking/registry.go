package booking

import (
	"fmt"
)

// Registry keeps appointments newest first. Records are never removed.
type Registry struct {
	// items is stored oldest first so an insert at the front is an append.
	items []*Appointment
	index map[string]*Appointment
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]*Appointment)}
}

// InsertFront stores a as the newest appointment.
func (r *Registry) InsertFront(a Appointment) error {
	if a.ID == "" {
		return fmt.Errorf("booking: appointment id required")
	}
	if _, taken := r.index[a.ID]; taken {
		return fmt.Errorf("%w: %s", ErrDuplicateID, a.ID)
	}
	stored := a.clone()
	r.items = append(r.items, &stored)
	r.index[a.ID] = &stored
	return nil
}

// SetStatus changes the status of id in place. A rejected change leaves the
// registry untouched.
func (r *Registry) SetStatus(id string, next Status) (Appointment, error) {
	a, ok := r.index[id]
	if !ok {
		return Appointment{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !a.Status.CanTransitionTo(next) {
		return Appointment{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, next)
	}
	a.Status = next
	return a.clone(), nil
}

// Get returns a copy of the appointment with id.
func (r *Registry) Get(id string) (Appointment, error) {
	a, ok := r.index[id]
	if !ok {
		return Appointment{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return a.clone(), nil
}

// Exists reports whether id is registered.
func (r *Registry) Exists(id string) bool {
	_, ok := r.index[id]
	return ok
}

// All returns copies of every appointment, newest first.
func (r *Registry) All() []Appointment {
	out := make([]Appointment, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		out = append(out, r.items[i].clone())
	}
	return out
}

// Len returns the number of stored appointments.
func (r *Registry) Len() int {
	return len(r.items)
}
