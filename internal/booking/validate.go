package booking

import "github.com/wolfman30/material-scheduler/internal/selection"

// Validate checks a submission. Required fields are scanned in
// RequiredFields order and the first empty one is reported; the product
// check only runs once every required field is present.
func Validate(fields CustomerFields, sel *selection.State) error {
	for _, f := range RequiredFields {
		if fields.Get(f) == "" {
			return &MissingFieldError{Field: f}
		}
	}
	if !sel.AnySelected() {
		return ErrNoProductSelected
	}
	return nil
}
