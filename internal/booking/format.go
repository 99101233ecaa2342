package booking

import (
	"time"

	"github.com/wolfman30/material-scheduler/internal/catalog"
)

const (
	// DefaultCurrencySymbol prefixes formatted amounts.
	DefaultCurrencySymbol = "R$"

	isoDateLayout     = "2006-01-02"
	displayDateLayout = "02/01/2006"
)

// FormatMoney renders an amount with two decimal places, e.g. "R$ 16.80".
func FormatMoney(amount catalog.Cents, symbol string) string {
	if symbol == "" {
		return amount.String()
	}
	return symbol + " " + amount.String()
}

// FormatDate turns a YYYY-MM-DD date into DD/MM/YYYY. Anything else is
// returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse(isoDateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(displayDateLayout)
}

// FormatSchedule renders "DD/MM/YYYY às HH:MM" for a date and time slot.
func FormatSchedule(date, slot string) string {
	return FormatDate(date) + " às " + slot
}

// Placeholder returns "-" for an empty value.
func Placeholder(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
