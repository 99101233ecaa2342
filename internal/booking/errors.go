package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRequiredField matches any *MissingFieldError via errors.Is.
	ErrMissingRequiredField = errors.New("booking: missing required field")

	// ErrNoProductSelected is returned when a submission has no selected product.
	ErrNoProductSelected = errors.New("booking: no product selected")

	// ErrNotFound is returned when an appointment id is not in the registry.
	ErrNotFound = errors.New("booking: appointment not found")

	// ErrInvalidTransition is returned for status changes the lifecycle forbids.
	ErrInvalidTransition = errors.New("booking: invalid status transition")

	// ErrDuplicateID is returned when inserting an appointment whose id is taken.
	ErrDuplicateID = errors.New("booking: duplicate appointment id")

	// ErrUnknownField is returned by SetField for names outside CustomerFields.
	ErrUnknownField = errors.New("booking: unknown field")

	// ErrInconsistentTotal is returned when a restored appointment's total
	// differs from the sum of its line items.
	ErrInconsistentTotal = errors.New("booking: total does not match line items")
)

// MissingFieldError names the first required field that was empty.
type MissingFieldError struct {
	Field Field
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("booking: missing required field %q", string(e.Field))
}

// Is lets errors.Is(err, ErrMissingRequiredField) match.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}
