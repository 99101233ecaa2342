package booking

import (
	"fmt"
	"strings"
)

// Field names one of the customer form inputs.
type Field string

const (
	FieldName  Field = "name"
	FieldPhone Field = "phone"
	FieldEmail Field = "email"
	FieldDate  Field = "date"
	FieldTime  Field = "time"
	FieldNotes Field = "notes"
)

// RequiredFields lists the mandatory inputs in the order they are checked.
var RequiredFields = []Field{FieldName, FieldPhone, FieldDate, FieldTime}

// ParseField resolves a field name, case-insensitively.
func ParseField(name string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case FieldName, FieldPhone, FieldEmail, FieldDate, FieldTime, FieldNotes:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// CustomerFields are the contact and scheduling inputs of the booking in progress.
type CustomerFields struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Notes string `json:"notes,omitempty"`
}

// Get returns the value of f.
func (c CustomerFields) Get(f Field) string {
	switch f {
	case FieldName:
		return c.Name
	case FieldPhone:
		return c.Phone
	case FieldEmail:
		return c.Email
	case FieldDate:
		return c.Date
	case FieldTime:
		return c.Time
	case FieldNotes:
		return c.Notes
	default:
		return ""
	}
}

// Set stores value in f.
func (c *CustomerFields) Set(f Field, value string) error {
	switch f {
	case FieldName:
		c.Name = value
	case FieldPhone:
		c.Phone = value
	case FieldEmail:
		c.Email = value
	case FieldDate:
		c.Date = value
	case FieldTime:
		c.Time = value
	case FieldNotes:
		c.Notes = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	return nil
}

// IsZero reports whether every field is empty.
func (c CustomerFields) IsZero() bool {
	return c == CustomerFields{}
}
