package sessions

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/material-scheduler/internal/booking"
	"github.com/wolfman30/material-scheduler/internal/events"
	"github.com/wolfman30/material-scheduler/internal/observability/metrics"
	"github.com/wolfman30/material-scheduler/internal/selection"
	"github.com/wolfman30/material-scheduler/pkg/logging"
)

// Notifier sends the customer confirmation for a new appointment.
type Notifier interface {
	NotifyAppointmentCreated(ctx context.Context, appt booking.Appointment) error
}

// Service applies booking commands to sessions and fans out the side
// effects of submissions and status changes.
type Service struct {
	manager  *Manager
	outbox   *events.Outbox
	notifier Notifier
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	tracer   trace.Tracer

	notifyTimeout time.Duration
	pending       sync.WaitGroup
}

// ServiceConfig wires optional collaborators; nil ones are skipped.
type ServiceConfig struct {
	Manager       *Manager
	Outbox        *events.Outbox
	Notifier      Notifier
	Metrics       *metrics.BookingMetrics
	Logger        *logging.Logger
	NotifyTimeout time.Duration
}

func NewService(cfg ServiceConfig) *Service {
	if cfg.Manager == nil {
		panic("sessions: manager required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 10 * time.Second
	}
	return &Service{
		manager:       cfg.Manager,
		outbox:        cfg.Outbox,
		notifier:      cfg.Notifier,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
		tracer:        otel.Tracer("material_scheduler.internal.sessions"),
		notifyTimeout: cfg.NotifyTimeout,
	}
}

// Create starts a session and returns its initial summary.
func (s *Service) Create(ctx context.Context) (*Session, booking.Summary, error) {
	sess, err := s.manager.Create()
	if err != nil {
		return nil, booking.Summary{}, err
	}
	s.metrics.SetActiveSessions(s.manager.Len())
	s.logger.Info("session created", "session_id", sess.ID)

	sum, err := s.Summary(ctx, sess.ID)
	return sess, sum, err
}

// End deletes a session.
func (s *Service) End(ctx context.Context, sessionID string) error {
	if err := s.manager.Delete(sessionID); err != nil {
		return err
	}
	s.metrics.SetActiveSessions(s.manager.Len())
	s.logger.Info("session ended", "session_id", sessionID)
	return nil
}

func (s *Service) withEngine(sessionID string, fn func(e *booking.Engine) (bool, error)) error {
	sess, err := s.manager.Get(sessionID)
	if err != nil {
		return err
	}
	return sess.do(s.manager.now(), fn)
}

func (s *Service) command(sessionID, name string, fn func(e *booking.Engine) (booking.Summary, error)) (booking.Summary, error) {
	var sum booking.Summary
	err := s.withEngine(sessionID, func(e *booking.Engine) (bool, error) {
		var err error
		sum, err = fn(e)
		return err == nil, err
	})
	s.metrics.ObserveCommand(name, err)
	if err != nil {
		s.logger.Debug("booking command rejected", "session_id", sessionID, "command", name, "error", err)
		return booking.Summary{}, err
	}
	s.logger.Debug("booking command applied", "session_id", sessionID, "command", name, "total_cents", int64(sum.Total))
	return sum, nil
}

// ToggleProduct flips a product selection.
func (s *Service) ToggleProduct(ctx context.Context, sessionID, productID string) (booking.Summary, error) {
	return s.command(sessionID, "toggle", func(e *booking.Engine) (booking.Summary, error) {
		return e.ToggleProduct(productID)
	})
}

// AdjustQuantity moves a product quantity one step.
func (s *Service) AdjustQuantity(ctx context.Context, sessionID, productID string, dir selection.Direction) (booking.Summary, error) {
	return s.command(sessionID, "adjust_quantity", func(e *booking.Engine) (booking.Summary, error) {
		return e.AdjustQuantity(productID, dir)
	})
}

// SetField updates one customer field.
func (s *Service) SetField(ctx context.Context, sessionID string, field booking.Field, value string) (booking.Summary, error) {
	return s.command(sessionID, "set_field", func(e *booking.Engine) (booking.Summary, error) {
		return e.SetField(field, value)
	})
}

// Reset clears selection and fields.
func (s *Service) Reset(ctx context.Context, sessionID string) (booking.Summary, error) {
	return s.command(sessionID, "reset", func(e *booking.Engine) (booking.Summary, error) {
		e.Reset()
		return e.Summary()
	})
}

// Summary returns the current running totals.
func (s *Service) Summary(ctx context.Context, sessionID string) (booking.Summary, error) {
	var sum booking.Summary
	err := s.withEngine(sessionID, func(e *booking.Engine) (bool, error) {
		var err error
		sum, err = e.Summary()
		return false, err
	})
	return sum, err
}

// Submit validates and registers the booking in progress. Generating the id
// and inserting the appointment happen under the session lock.
func (s *Service) Submit(ctx context.Context, sessionID string) (booking.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "sessions.submit")
	defer span.End()
	span.SetAttributes(attribute.String("material_scheduler.session_id", sessionID))

	var appt booking.Appointment
	err := s.withEngine(sessionID, func(e *booking.Engine) (bool, error) {
		var err error
		appt, err = e.Submit()
		return err == nil, err
	})
	s.metrics.ObserveSubmission(submissionOutcome(err))
	if err != nil {
		span.RecordError(err)
		s.logger.Info("booking submission rejected", "session_id", sessionID, "error", err)
		return booking.Appointment{}, err
	}

	span.SetAttributes(
		attribute.String("material_scheduler.appointment_id", appt.ID),
		attribute.Int64("material_scheduler.total_cents", int64(appt.Total)),
	)
	s.metrics.ObserveAppointmentTotal(int64(appt.Total))
	s.logger.Info("appointment created",
		"session_id", sessionID,
		"appointment_id", appt.ID,
		"total_cents", int64(appt.Total),
		"line_items", len(appt.LineItems),
	)

	s.publish(sessionID, createdEvent(sessionID, appt), appt.CreatedAt)
	s.notify(ctx, sessionID, appt)
	return appt, nil
}

// Cancel moves an appointment to cancelled.
func (s *Service) Cancel(ctx context.Context, sessionID, appointmentID string) (booking.Appointment, error) {
	return s.changeStatus(ctx, sessionID, appointmentID, booking.StatusCancelled)
}

// Confirm moves a pending appointment to confirmed.
func (s *Service) Confirm(ctx context.Context, sessionID, appointmentID string) (booking.Appointment, error) {
	return s.changeStatus(ctx, sessionID, appointmentID, booking.StatusConfirmed)
}

func (s *Service) changeStatus(ctx context.Context, sessionID, appointmentID string, next booking.Status) (booking.Appointment, error) {
	_, span := s.tracer.Start(ctx, "sessions.change_status")
	defer span.End()
	span.SetAttributes(
		attribute.String("material_scheduler.session_id", sessionID),
		attribute.String("material_scheduler.appointment_id", appointmentID),
		attribute.String("material_scheduler.status", string(next)),
	)

	var (
		updated  booking.Appointment
		previous booking.Status
	)
	err := s.withEngine(sessionID, func(e *booking.Engine) (bool, error) {
		current, err := e.Appointment(appointmentID)
		if err != nil {
			return false, err
		}
		previous = current.Status
		if next == booking.StatusCancelled {
			updated, err = e.Cancel(appointmentID)
		} else {
			updated, err = e.Confirm(appointmentID)
		}
		return false, err
	})
	s.metrics.ObserveCommand("set_status_"+string(next), err)
	if err != nil {
		span.RecordError(err)
		return booking.Appointment{}, err
	}
	if previous == next {
		return updated, nil
	}

	if next == booking.StatusCancelled {
		s.metrics.ObserveCancellation()
	}
	s.logger.Info("appointment status changed",
		"session_id", sessionID,
		"appointment_id", appointmentID,
		"from", string(previous),
		"to", string(next),
	)
	at := s.manager.now().UTC()
	s.publish(sessionID, events.AppointmentStatusChangedV1{
		SessionID:      sessionID,
		AppointmentID:  appointmentID,
		PreviousStatus: string(previous),
		Status:         string(next),
		OccurredAt:     at,
	}, at)
	return updated, nil
}

// Appointments lists a session's appointments newest first.
func (s *Service) Appointments(ctx context.Context, sessionID string) ([]booking.Appointment, error) {
	var out []booking.Appointment
	err := s.withEngine(sessionID, func(e *booking.Engine) (bool, error) {
		out = e.Appointments()
		return false, nil
	})
	return out, err
}

// Appointment looks up one appointment.
func (s *Service) Appointment(ctx context.Context, sessionID, appointmentID string) (booking.Appointment, error) {
	var out booking.Appointment
	err := s.withEngine(sessionID, func(e *booking.Engine) (bool, error) {
		var err error
		out, err = e.Appointment(appointmentID)
		return false, err
	})
	return out, err
}

// Subscribe streams a session's summary after every change. The returned
// channel is closed when cancel is called or the session ends.
func (s *Service) Subscribe(sessionID string) (<-chan booking.Summary, func(), error) {
	sess, err := s.manager.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}
	return sess.subscribe()
}

// Wait blocks until in-flight confirmation emails finish.
func (s *Service) Wait() {
	s.pending.Wait()
}

func (s *Service) publish(sessionID string, evt events.Event, at time.Time) {
	if s.outbox == nil {
		return
	}
	env, err := events.Wrap(sessionID, evt, at)
	if err != nil {
		s.logger.Error("failed to build event", "error", err, "session_id", sessionID)
		return
	}
	if err := s.outbox.Enqueue(env); err != nil {
		s.logger.Warn("event dropped", "error", err, "type", env.Type, "session_id", sessionID)
	}
}

func (s *Service) notify(ctx context.Context, sessionID string, appt booking.Appointment) {
	if s.notifier == nil {
		return
	}
	if strings.TrimSpace(appt.Customer.Email) == "" {
		s.logger.Debug("no customer email, confirmation skipped", "session_id", sessionID, "appointment_id", appt.ID)
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyAppointmentCreated(nctx, appt); err != nil {
			s.logger.Error("confirmation email failed", "error", err, "session_id", sessionID, "appointment_id", appt.ID)
		}
	}()
}

func submissionOutcome(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, booking.ErrMissingRequiredField):
		return "missing_field"
	case errors.Is(err, booking.ErrNoProductSelected):
		return "no_product_selected"
	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"
	default:
		return "error"
	}
}

func createdEvent(sessionID string, appt booking.Appointment) events.AppointmentCreatedV1 {
	items := make([]events.LineItemV1, 0, len(appt.LineItems))
	for _, li := range appt.LineItems {
		items = append(items, events.LineItemV1{
			ProductID:     li.ProductID,
			Name:          li.Name,
			Quantity:      li.Quantity,
			SubtotalCents: int64(li.Subtotal),
		})
	}
	return events.AppointmentCreatedV1{
		SessionID:     sessionID,
		AppointmentID: appt.ID,
		CustomerName:  appt.Customer.Name,
		CustomerPhone: appt.Customer.Phone,
		CustomerEmail: appt.Customer.Email,
		Date:          appt.Date,
		Time:          appt.Time,
		LineItems:     items,
		TotalCents:    int64(appt.Total),
		Status:        string(appt.Status),
		OccurredAt:    appt.CreatedAt,
	}
}
