package events

import "time"

const (
	TypeAppointmentCreated   = "appointment.created.v1"
	TypeAppointmentCancelled = "appointment.cancelled.v1"
	TypeAppointmentConfirmed = "appointment.confirmed.v1"
)

// LineItemV1 is the wire form of a frozen appointment line item.
type LineItemV1 struct {
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	SubtotalCents int64  `json:"subtotal_cents"`
}

type AppointmentCreatedV1 struct {
	SessionID     string       `json:"session_id"`
	AppointmentID string       `json:"appointment_id"`
	CustomerName  string       `json:"customer_name"`
	CustomerPhone string       `json:"customer_phone"`
	CustomerEmail string       `json:"customer_email,omitempty"`
	Date          string       `json:"date"`
	Time          string       `json:"time"`
	LineItems     []LineItemV1 `json:"line_items"`
	TotalCents    int64        `json:"total_cents"`
	Status        string       `json:"status"`
	OccurredAt    time.Time    `json:"occurred_at"`
}

func (AppointmentCreatedV1) EventType() string { return TypeAppointmentCreated }

// AppointmentStatusChangedV1 is emitted for cancellations and confirmations.
type AppointmentStatusChangedV1 struct {
	SessionID      string    `json:"session_id"`
	AppointmentID  string    `json:"appointment_id"`
	PreviousStatus string    `json:"previous_status"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func (e AppointmentStatusChangedV1) EventType() string {
	if e.Status == "confirmed" {
		return TypeAppointmentConfirmed
	}
	return TypeAppointmentCancelled
}
