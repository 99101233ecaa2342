package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/wolfman30/material-scheduler/internal/booking"
	"github.com/wolfman30/material-scheduler/pkg/logging"
)

// Service sends booking confirmations to customers.
type Service struct {
	email          EmailSender
	currencySymbol string
	logger         *logging.Logger
}

// NewService creates a notification service. A nil sender disables email.
func NewService(email EmailSender, currencySymbol string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, currencySymbol: currencySymbol, logger: logger}
}

// NotifyAppointmentCreated emails the confirmation code, schedule and order
// total to the customer. Appointments without an email address are skipped.
func (s *Service) NotifyAppointmentCreated(ctx context.Context, appt booking.Appointment) error {
	if s == nil || s.email == nil {
		return nil
	}
	to := strings.TrimSpace(appt.Customer.Email)
	if to == "" {
		s.logger.Debug("notify: no customer email, skipping confirmation", "appointment_id", appt.ID)
		return nil
	}

	msg := ConfirmationMessage(appt, s.currencySymbol)
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: send confirmation %s: %w", appt.ID, err)
	}
	return nil
}

// ConfirmationMessage renders the confirmation email for appt.
func ConfirmationMessage(appt booking.Appointment, currencySymbol string) EmailMessage {
	schedule := booking.FormatSchedule(appt.Date, appt.Time)
	total := booking.FormatMoney(appt.Total, currencySymbol)

	var text strings.Builder
	fmt.Fprintf(&text, "Olá %s,\n\n", appt.Customer.Name)
	fmt.Fprintf(&text, "Seu agendamento foi confirmado para %s.\n", schedule)
	fmt.Fprintf(&text, "Código: %s\n\nProdutos:\n", appt.ID)
	for _, li := range appt.LineItems {
		fmt.Fprintf(&text, "- %dx %s - %s\n", li.Quantity, li.Name, booking.FormatMoney(li.Subtotal, currencySymbol))
	}
	fmt.Fprintf(&text, "\nTotal: %s\n", total)
	if appt.Customer.Notes != "" {
		fmt.Fprintf(&text, "Observações: %s\n", appt.Customer.Notes)
	}

	var markup strings.Builder
	fmt.Fprintf(&markup, "<p>Olá %s,</p>", html.EscapeString(appt.Customer.Name))
	fmt.Fprintf(&markup, "<p>Seu agendamento foi confirmado para <strong>%s</strong>.</p>", html.EscapeString(schedule))
	fmt.Fprintf(&markup, "<p>Código: <strong>%s</strong></p><ul>", html.EscapeString(appt.ID))
	for _, li := range appt.LineItems {
		fmt.Fprintf(&markup, "<li>%dx %s - %s</li>", li.Quantity, html.EscapeString(li.Name), html.EscapeString(booking.FormatMoney(li.Subtotal, currencySymbol)))
	}
	fmt.Fprintf(&markup, "</ul><p>Total: <strong>%s</strong></p>", html.EscapeString(total))
	if appt.Customer.Notes != "" {
		fmt.Fprintf(&markup, "<p>Observações: %s</p>", html.EscapeString(appt.Customer.Notes))
	}

	return EmailMessage{
		To:      strings.TrimSpace(appt.Customer.Email),
		ToName:  appt.Customer.Name,
		Subject: "Agendamento confirmado " + appt.ID,
		Text:    text.String(),
		HTML:    markup.String(),
		Tags:    map[string]string{"appointment_id": appt.ID, "status": string(appt.Status)},
	}
}
