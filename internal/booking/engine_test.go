package booking

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/material-scheduler/internal/catalog"
	"github.com/wolfman30/material-scheduler/internal/selection"
)

func twoProductCatalog() *catalog.Catalog {
	return catalog.MustNew(
		catalog.Product{ID: "A", Name: "areia", UnitPrice: 50},
		catalog.Product{ID: "B", Name: "brita", UnitPrice: 590},
	)
}

func fillRequired(t *testing.T, e *Engine) {
	t.Helper()
	for f, v := range map[Field]string{
		FieldName:  "Maria Silva",
		FieldPhone: "(11) 99999-8888",
		FieldDate:  "2026-10-20",
		FieldTime:  "10:00",
	} {
		_, err := e.SetField(f, v)
		require.NoError(t, err)
	}
}

func selectQuantity(t *testing.T, e *Engine, id string, qty int) {
	t.Helper()
	_, err := e.ToggleProduct(id)
	require.NoError(t, err)
	for i := 1; i < qty; i++ {
		_, err := e.AdjustQuantity(id, selection.Up)
		require.NoError(t, err)
	}
}

func TestScenarioTotals(t *testing.T) {
	e := NewEngine(twoProductCatalog())
	selectQuantity(t, e, "A", 10)
	selectQuantity(t, e, "B", 2)

	sum, err := e.Summary()
	require.NoError(t, err)
	assert.Equal(t, catalog.Cents(1680), sum.Total)
	assert.Equal(t, 12, sum.SelectedUnits)
	assert.Equal(t, "R$ 16.80", FormatMoney(sum.Total, DefaultCurrencySymbol))

	fillRequired(t, e)
	appt, err := e.Submit()
	require.NoError(t, err)

	require.Len(t, appt.LineItems, 2)
	assert.Equal(t, catalog.Cents(500), appt.LineItems[0].Subtotal)
	assert.Equal(t, catalog.Cents(1180), appt.LineItems[1].Subtotal)
	assert.Equal(t, sum.Total, appt.Total)
	assert.Equal(t, appt.LineItems[0].Subtotal+appt.LineItems[1].Subtotal, appt.Total)
	assert.Equal(t, StatusConfirmed, appt.Status)
	assert.Equal(t, "2026-10-20", appt.Date)
	assert.Equal(t, "10:00", appt.Time)
	assert.True(t, ValidID(appt.ID), appt.ID)
}

func TestSubmitResetsState(t *testing.T) {
	e := NewEngine(twoProductCatalog())
	selectQuantity(t, e, "B", 3)
	fillRequired(t, e)
	_, err := e.SetField(FieldNotes, "entregar pela manhã")
	require.NoError(t, err)

	_, err = e.Submit()
	require.NoError(t, err)

	sum, err := e.Summary()
	require.NoError(t, err)
	assert.Equal(t, catalog.Cents(0), sum.Total)
	assert.Equal(t, 0, sum.SelectedUnits)
	assert.True(t, e.Fields().IsZero())
	for _, entry := range e.Selection() {
		assert.False(t, entry.Selected)
		assert.Equal(t, 1, entry.Quantity)
	}
}

func TestSubmitEmptyFormReportsName(t *testing.T) {
	e := NewEngine(twoProductCatalog())

	_, err := e.Submit()
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, FieldName, missing.Field)
	assert.True(t, errors.Is(err, ErrMissingRequiredField))
	assert.Empty(t, e.Appointments())
}

func TestSubmitFieldOrder(t *testing.T) {
	tests := []struct {
		name   string
		filled map[Field]string
		want   Field
	}{
		{"phone missing", map[Field]string{FieldName: "a", FieldDate: "d", FieldTime: "t"}, FieldPhone},
		{"date missing", map[Field]string{FieldName: "a", FieldPhone: "p", FieldTime: "t"}, FieldDate},
		{"time missing", map[Field]string{FieldName: "a", FieldPhone: "p", FieldDate: "d"}, FieldTime},
		{"only email", map[Field]string{FieldEmail: "x@example.com"}, FieldName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(twoProductCatalog())
			_, _ = e.ToggleProduct("A")
			for f, v := range tt.filled {
				_, err := e.SetField(f, v)
				require.NoError(t, err)
			}

			_, err := e.Submit()
			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.want, missing.Field)

			sum, err := e.Summary()
			require.NoError(t, err)
			assert.Equal(t, 1, sum.SelectedUnits, "failed submit must not reset selection")
		})
	}
}

func TestSubmitNoProduct(t *testing.T) {
	e := NewEngine(twoProductCatalog())
	fillRequired(t, e)

	_, err := e.Submit()
	assert.ErrorIs(t, err, ErrNoProductSelected)
	assert.Empty(t, e.Appointments())
	assert.Equal(t, "Maria Silva", e.Fields().Name)
}

func TestUnknownProductCommands(t *testing.T) {
	e := NewEngine(twoProductCatalog())

	_, err := e.ToggleProduct("Z")
	assert.ErrorIs(t, err, catalog.ErrUnknownProduct)
	_, err = e.AdjustQuantity("Z", selection.Up)
	assert.ErrorIs(t, err, catalog.ErrUnknownProduct)
	_, err = e.SetField(Field("address"), "x")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestAppointmentsNewestFirstAndUnique(t *testing.T) {
	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	tick := 0
	e := NewEngine(twoProductCatalog(), WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}))

	var ids []string
	for i := 0; i < 50; i++ {
		selectQuantity(t, e, "A", 1)
		fillRequired(t, e)
		appt, err := e.Submit()
		require.NoError(t, err)
		ids = append(ids, appt.ID)
	}

	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}

	listed := e.Appointments()
	require.Len(t, listed, 50)
	for i, a := range listed {
		assert.Equal(t, ids[len(ids)-1-i], a.ID)
	}

	_, err := e.Cancel(ids[10])
	require.NoError(t, err)
	after := e.Appointments()
	for i := range listed {
		assert.Equal(t, listed[i].ID, after[i].ID)
	}
	assert.Equal(t, StatusCancelled, after[len(after)-1-10].Status)
}

func TestCancelAndConfirm(t *testing.T) {
	e := NewEngine(twoProductCatalog())
	pending := Appointment{
		ID:        "AGD-PENDING01",
		Customer:  CustomerFields{Name: "João Santos", Phone: "(11) 97777-6666", Date: "2026-10-21", Time: "15:00"},
		Date:      "2026-10-21",
		Time:      "15:00",
		LineItems: []LineItem{{ProductID: "A", Name: "areia", Quantity: 2, UnitPrice: 50, Subtotal: 100}},
		Total:     100,
		Status:    StatusPending,
	}
	require.NoError(t, e.Restore(pending))

	got, err := e.Confirm(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)

	got, err = e.Cancel(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)

	got, err = e.Cancel(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)

	_, err = e.Confirm(pending.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := e.Appointment(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)

	_, err = e.Cancel("AGD-MISSING00")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRestoreRejectsBadRecords(t *testing.T) {
	e := NewEngine(twoProductCatalog())

	err := e.Restore(Appointment{ID: "X", Status: "weird"})
	assert.Error(t, err)

	err = e.Restore(Appointment{
		ID:        "Y",
		Status:    StatusPending,
		LineItems: []LineItem{{Subtotal: 100}},
		Total:     250,
	})
	assert.ErrorIs(t, err, ErrInconsistentTotal)

	require.NoError(t, e.Restore(Appointment{ID: "Z", Status: StatusPending}))
	assert.ErrorIs(t, e.Restore(Appointment{ID: "Z", Status: StatusPending}), ErrDuplicateID)
}

func TestSubmitRetriesCollidingIDs(t *testing.T) {
	src := bytes.NewReader(append(bytes.Repeat([]byte{0}, 9), bytes.Repeat([]byte{1}, 9)...))
	e := NewEngine(twoProductCatalog(), WithIDGenerator(NewIDGenerator(src)))
	require.NoError(t, e.Restore(Appointment{ID: "AGD-000000000", Status: StatusConfirmed}))

	selectQuantity(t, e, "A", 1)
	fillRequired(t, e)
	appt, err := e.Submit()
	require.NoError(t, err)
	assert.Equal(t, "AGD-111111111", appt.ID)
}

func TestReturnedAppointmentsAreCopies(t *testing.T) {
	e := NewEngine(twoProductCatalog())
	selectQuantity(t, e, "A", 2)
	fillRequired(t, e)
	appt, err := e.Submit()
	require.NoError(t, err)

	appt.LineItems[0].Quantity = 99
	appt.Status = StatusCancelled

	stored, err := e.Appointment(appt.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.LineItems[0].Quantity)
	assert.Equal(t, StatusConfirmed, stored.Status)
}

func TestLineItemsFrozenAgainstCatalog(t *testing.T) {
	cat := twoProductCatalog()
	e := NewEngine(cat)
	selectQuantity(t, e, "B", 2)
	fillRequired(t, e)
	appt, err := e.Submit()
	require.NoError(t, err)

	products := cat.Products()
	products[1].UnitPrice = 1

	stored, err := e.Appointment(appt.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.Cents(590), stored.LineItems[0].UnitPrice)
	assert.Equal(t, catalog.Cents(1180), stored.Total)
}

func TestEngineReset(t *testing.T) {
	e := NewEngine(twoProductCatalog())
	selectQuantity(t, e, "A", 4)
	fillRequired(t, e)
	require.NoError(t, e.Restore(Appointment{ID: "keep", Status: StatusPending}))

	e.Reset()

	sum, err := e.Summary()
	require.NoError(t, err)
	assert.Zero(t, sum.Total)
	assert.True(t, e.Fields().IsZero())
	assert.Len(t, e.Appointments(), 1)
}

func TestSummaryCarriesSelectionSnapshot(t *testing.T) {
	e := NewEngine(twoProductCatalog())
	selectQuantity(t, e, "B", 3)

	sum, err := e.Summary()
	require.NoError(t, err)
	assert.Equal(t, []selection.Entry{
		{ProductID: "A", Selected: false, Quantity: 1},
		{ProductID: "B", Selected: true, Quantity: 3},
	}, sum.Entries)

	sum.Entries[1].Quantity = 99
	again, err := e.Summary()
	require.NoError(t, err)
	assert.Equal(t, 3, again.Entries[1].Quantity)
}
