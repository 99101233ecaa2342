package sessions

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/material-scheduler/internal/booking"
	"github.com/wolfman30/material-scheduler/internal/catalog"
	"github.com/wolfman30/material-scheduler/internal/selection"
	"github.com/wolfman30/material-scheduler/pkg/logging"
)

const maxBodyBytes = 16 << 10

// Handler serves the booking commands and queries over HTTP.
type Handler struct {
	service   *Service
	catalog   *catalog.Catalog
	presenter Presenter
	logger    *logging.Logger
}

// NewHandler creates a new sessions handler.
func NewHandler(service *Service, cat *catalog.Catalog, currencySymbol string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:   service,
		catalog:   cat,
		presenter: Presenter{CurrencySymbol: currencySymbol},
		logger:    logger,
	}
}

// Routes returns the session endpoints, meant to be mounted at /sessions.
// createMiddleware only wraps session creation.
func (h *Handler) Routes(createMiddleware ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.With(createMiddleware...).Post("/", h.CreateSession)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Use(requireSession)
		r.Delete("/", h.EndSession)
		r.Get("/summary", h.GetSummary)
		r.Get("/summary/stream", h.StreamSummary)
		r.Post("/products/{productID}/toggle", h.ToggleProduct)
		r.Post("/products/{productID}/quantity", h.AdjustQuantity)
		r.Put("/fields/{field}", h.SetField)
		r.Post("/submit", h.Submit)
		r.Post("/reset", h.Reset)
		r.Get("/appointments", h.ListAppointments)
		r.Get("/appointments/{appointmentID}", h.GetAppointment)
		r.Post("/appointments/{appointmentID}/cancel", h.CancelAppointment)
		r.Post("/appointments/{appointmentID}/confirm", h.ConfirmAppointment)
	})
	return r
}

// ListCatalog returns the product list.
func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"products": h.presenter.Catalog(h.catalog)})
}

func requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "sessionID"))
		if id == "" {
			jsonError(w, "missing sessionID", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
	})
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, sum, err := h.service.Create(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": sess.ID,
		"summary":    h.presenter.Summary(sess.ID, sum),
	})
}

func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	id, _ := SessionIDFromContext(r.Context())
	if err := h.service.End(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id, _ := SessionIDFromContext(r.Context())
	sum, err := h.service.Summary(r.Context(), id)
	h.respondSummary(w, id, sum, err)
}

func (h *Handler) ToggleProduct(w http.ResponseWriter, r *http.Request) {
	id, _ := SessionIDFromContext(r.Context())
	sum, err := h.service.ToggleProduct(r.Context(), id, chi.URLParam(r, "productID"))
	h.respondSummary(w, id, sum, err)
}

func (h *Handler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	id, _ := SessionIDFromContext(r.Context())
	var req struct {
		Direction string `json:"direction"`
	}
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	dir, err := selection.ParseDirection(req.Direction)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_direction"})
		return
	}
	sum, err := h.service.AdjustQuantity(r.Context(), id, chi.URLParam(r, "productID"), dir)
	h.respondSummary(w, id, sum, err)
}

func (h *Handler) SetField(w http.ResponseWriter, r *http.Request) {
	id, _ := SessionIDFromContext(r.Context())
	field, err := booking.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req struct {
		Value string `json:"value"`
	}
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	sum, err := h.service.SetField(r.Context(), id, field, req.Value)
	h.respondSummary(w, id, sum, err)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, _ := SessionIDFromContext(r.Context())
	appt, err := h.service.Submit(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.presenter.Appointment(appt))
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	id, _ := SessionIDFromContext(r.Context())
	sum, err := h.service.Reset(r.Context(), id)
	h.respondSummary(w, id, sum, err)
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	id, _ := SessionIDFromContext(r.Context())
	list, err := h.service.Appointments(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"appointments": h.presenter.Appointments(list),
		"count":        len(list),
	})
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, _ := SessionIDFromContext(r.Context())
	appt, err := h.service.Appointment(r.Context(), id, chi.URLParam(r, "appointmentID"))
	h.respondAppointment(w, appt, err)
}

func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, _ := SessionIDFromContext(r.Context())
	appt, err := h.service.Cancel(r.Context(), id, chi.URLParam(r, "appointmentID"))
	h.respondAppointment(w, appt, err)
}

func (h *Handler) ConfirmAppointment(w http.ResponseWriter, r *http.Request) {
	id, _ := SessionIDFromContext(r.Context())
	appt, err := h.service.Confirm(r.Context(), id, chi.URLParam(r, "appointmentID"))
	h.respondAppointment(w, appt, err)
}

func (h *Handler) respondSummary(w http.ResponseWriter, sessionID string, sum booking.Summary, err error) {
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.presenter.Summary(sessionID, sum))
}

func (h *Handler) respondAppointment(w http.ResponseWriter, appt booking.Appointment, err error) {
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.presenter.Appointment(appt))
}

// writeError maps domain errors to status codes and machine-readable kinds.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var missing *booking.MissingFieldError
	switch {
	case errors.As(err, &missing):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": "missing_required_field",
			"field": string(missing.Field),
		})
	case errors.Is(err, booking.ErrNoProductSelected):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "no_product_selected"})
	case errors.Is(err, catalog.ErrUnknownProduct):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown_product"})
	case errors.Is(err, booking.ErrUnknownField):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown_field"})
	case errors.Is(err, ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session_not_found"})
	case errors.Is(err, booking.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
	case errors.Is(err, booking.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "invalid_transition"})
	default:
		h.logger.Error("booking request failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
