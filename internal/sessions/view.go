package sessions

import (
	"time"

	"github.com/wolfman30/material-scheduler/internal/booking"
	"github.com/wolfman30/material-scheduler/internal/catalog"
)

// LineView is one product row in a summary or appointment response.
type LineView struct {
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	SubtotalCents int64  `json:"subtotal_cents"`
	Subtotal      string `json:"subtotal"`
}

// FieldsView echoes the customer inputs with placeholders for empty values.
type FieldsView struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Schedule string `json:"schedule"`
	Notes    string `json:"notes"`
}

// SummaryView is the JSON shape of a running summary.
type SummaryView struct {
	SessionID     string           `json:"session_id"`
	SelectedUnits int              `json:"selected_units"`
	TotalCents    int64            `json:"total_cents"`
	Total         string           `json:"total"`
	Lines         []LineView       `json:"lines"`
	Selection     []SelectionEntry `json:"selection,omitempty"`
	Fields        FieldsView       `json:"fields"`
}

// SelectionEntry is the wire form of one product's selection state.
type SelectionEntry struct {
	ProductID string `json:"product_id"`
	Selected  bool   `json:"selected"`
	Quantity  int    `json:"quantity"`
}

// AppointmentView is the JSON shape of an appointment.
type AppointmentView struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	Customer   FieldsView `json:"customer"`
	Date       string     `json:"date"`
	Time       string     `json:"time"`
	Schedule   string     `json:"schedule"`
	LineItems  []LineView `json:"line_items"`
	Units      int        `json:"units"`
	TotalCents int64      `json:"total_cents"`
	Total      string     `json:"total"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ProductView is one catalog entry.
type ProductView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	UnitPrice      string `json:"unit_price"`
}

// Presenter formats booking values for responses.
type Presenter struct {
	CurrencySymbol string
}

func (p Presenter) money(c catalog.Cents) string {
	return booking.FormatMoney(c, p.CurrencySymbol)
}

func (p Presenter) fields(f booking.CustomerFields) FieldsView {
	schedule := booking.Placeholder("")
	if f.Date != "" || f.Time != "" {
		schedule = booking.FormatSchedule(booking.Placeholder(f.Date), booking.Placeholder(f.Time))
	}
	return FieldsView{
		Name:     booking.Placeholder(f.Name),
		Phone:    booking.Placeholder(f.Phone),
		Email:    booking.Placeholder(f.Email),
		Date:     booking.Placeholder(booking.FormatDate(f.Date)),
		Time:     booking.Placeholder(f.Time),
		Schedule: schedule,
		Notes:    booking.Placeholder(f.Notes),
	}
}

// Summary builds the response for a running summary.
func (p Presenter) Summary(sessionID string, sum booking.Summary) SummaryView {
	v := SummaryView{
		SessionID:     sessionID,
		SelectedUnits: sum.SelectedUnits,
		TotalCents:    int64(sum.Total),
		Total:         p.money(sum.Total),
		Lines:         make([]LineView, 0, len(sum.Lines)),
		Fields:        p.fields(sum.Fields),
	}
	for _, l := range sum.Lines {
		v.Lines = append(v.Lines, LineView{
			ProductID:     l.ProductID,
			Name:          l.Name,
			Quantity:      l.Quantity,
			SubtotalCents: int64(l.Subtotal),
			Subtotal:      p.money(l.Subtotal),
		})
	}
	for _, e := range sum.Entries {
		v.Selection = append(v.Selection, SelectionEntry{
			ProductID: e.ProductID,
			Selected:  e.Selected,
			Quantity:  e.Quantity,
		})
	}
	return v
}

// Appointment builds the response for one appointment.
func (p Presenter) Appointment(a booking.Appointment) AppointmentView {
	v := AppointmentView{
		ID:         a.ID,
		Status:     string(a.Status),
		Customer:   p.fields(a.Customer),
		Date:       a.Date,
		Time:       a.Time,
		Schedule:   booking.FormatSchedule(a.Date, a.Time),
		LineItems:  make([]LineView, 0, len(a.LineItems)),
		Units:      a.Units(),
		TotalCents: int64(a.Total),
		Total:      p.money(a.Total),
		CreatedAt:  a.CreatedAt,
	}
	for _, li := range a.LineItems {
		v.LineItems = append(v.LineItems, LineView{
			ProductID:     li.ProductID,
			Name:          li.Name,
			Quantity:      li.Quantity,
			SubtotalCents: int64(li.Subtotal),
			Subtotal:      p.money(li.Subtotal),
		})
	}
	return v
}

// Appointments formats a list, keeping its order.
func (p Presenter) Appointments(list []booking.Appointment) []AppointmentView {
	out := make([]AppointmentView, 0, len(list))
	for _, a := range list {
		out = append(out, p.Appointment(a))
	}
	return out
}

// Catalog formats the product list.
func (p Presenter) Catalog(c *catalog.Catalog) []ProductView {
	products := c.Products()
	out := make([]ProductView, 0, len(products))
	for _, prod := range products {
		out = append(out, ProductView{
			ID:             prod.ID,
			Name:           prod.Name,
			UnitPriceCents: int64(prod.UnitPrice),
			UnitPrice:      p.money(prod.UnitPrice),
		})
	}
	return out
}
