// Package demo seeds new sessions with example appointments so the list is
// not empty on first load.
package demo

import (
	"fmt"
	"time"

	"github.com/wolfman30/material-scheduler/internal/booking"
	"github.com/wolfman30/material-scheduler/internal/catalog"
	"github.com/wolfman30/material-scheduler/internal/selection"
)

type sampleLine struct {
	productID string
	quantity  int
}

type sample struct {
	fields    booking.CustomerFields
	daysAhead int
	lines     []sampleLine
	status    booking.Status
}

var samples = []sample{
	{
		fields: booking.CustomerFields{
			Name:  "Maria Silva",
			Phone: "(11) 99999-8888",
			Time:  "10:00",
			Notes: "Produto bem embalado",
		},
		daysAhead: 1,
		lines:     []sampleLine{{"1", 10}, {"2", 2}},
		status:    booking.StatusConfirmed,
	},
	{
		fields: booking.CustomerFields{
			Name:  "João Santos",
			Phone: "(11) 97777-6666",
			Time:  "15:00",
		},
		daysAhead: 2,
		lines:     []sampleLine{{"3", 1}, {"4", 5}},
		status:    booking.StatusPending,
	},
}

// Seeder returns a function that registers the example appointments in an
// engine. Totals are computed from the engine's catalog; lines naming
// products the catalog lacks are dropped, as are samples left empty.
func Seeder(now func() time.Time, ids *booking.IDGenerator) func(e *booking.Engine) error {
	if now == nil {
		now = time.Now
	}
	if ids == nil {
		ids = booking.NewIDGenerator(nil)
	}
	return func(e *booking.Engine) error {
		appts, err := build(e.Catalog(), now(), ids, func(id string) bool {
			_, err := e.Appointment(id)
			return err == nil
		})
		if err != nil {
			return err
		}
		return e.Restore(appts...)
	}
}

func build(cat *catalog.Catalog, now time.Time, ids *booking.IDGenerator, exists func(string) bool) ([]booking.Appointment, error) {
	taken := map[string]bool{}
	out := make([]booking.Appointment, 0, len(samples))
	for _, s := range samples {
		sel := selection.ForCatalog(cat)
		for _, l := range s.lines {
			if !cat.Has(l.productID) {
				continue
			}
			if _, err := sel.Toggle(l.productID); err != nil {
				return nil, err
			}
			for q := selection.MinQuantity; q < l.quantity; q++ {
				if _, err := sel.Adjust(l.productID, selection.Up); err != nil {
					return nil, err
				}
			}
		}
		if !sel.AnySelected() {
			continue
		}

		fields := s.fields
		fields.Date = now.AddDate(0, 0, s.daysAhead).Format("2006-01-02")

		id, err := ids.Next(func(id string) bool { return taken[id] || exists(id) })
		if err != nil {
			return nil, fmt.Errorf("demo: sample id: %w", err)
		}
		taken[id] = true

		appt, err := booking.NewAppointment(fields, sel, cat, id, now)
		if err != nil {
			return nil, fmt.Errorf("demo: build sample: %w", err)
		}
		appt.Status = s.status
		out = append(out, appt)
	}
	return out, nil
}
