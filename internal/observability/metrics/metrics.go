package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flow.
type BookingMetrics struct {
	commandsTotal    *prometheus.CounterVec
	submissionsTotal *prometheus.CounterVec
	cancelledTotal   prometheus.Counter
	appointmentTotal prometheus.Histogram
	activeSessions   prometheus.Gauge
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "material_scheduler",
			Subsystem: "booking",
			Name:      "commands_total",
			Help:      "Total booking commands applied to sessions",
		}, []string{"command", "status"}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "material_scheduler",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Total booking submissions by outcome",
		}, []string{"outcome"}),
		cancelledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "material_scheduler",
			Subsystem: "booking",
			Name:      "appointments_cancelled_total",
			Help:      "Total appointments moved to cancelled",
		}),
		appointmentTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "material_scheduler",
			Subsystem: "booking",
			Name:      "appointment_total_cents",
			Help:      "Order value of created appointments in minor units",
			Buckets:   prometheus.ExponentialBuckets(100, 4, 8),
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "material_scheduler",
			Subsystem: "booking",
			Name:      "active_sessions",
			Help:      "Booking sessions currently held in memory",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.commandsTotal, m.submissionsTotal, m.cancelledTotal, m.appointmentTotal, m.activeSessions)
	return m
}

func (m *BookingMetrics) ObserveCommand(command string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.commandsTotal.WithLabelValues(command, status).Inc()
}

// ObserveSubmission records a submit outcome such as "created" or "missing_field".
func (m *BookingMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveAppointmentTotal(cents int64) {
	if m == nil {
		return
	}
	m.appointmentTotal.Observe(float64(cents))
}

func (m *BookingMetrics) ObserveCancellation() {
	if m == nil {
		return
	}
	m.cancelledTotal.Inc()
}

func (m *BookingMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
