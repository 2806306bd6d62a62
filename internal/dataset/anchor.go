package dataset

import (
	"time"

	"github.com/dvloznov/commerce-insights/internal/domain"
)

// DateFormat is the wire format for every date in the system.
const DateFormat = "2006-01-02"

// Anchor is the dataset-derived date context. "Current month" is the
// calendar month containing the most recent transaction, "previous
// month" the calendar month before it; neither is a rolling window.
// Anchoring to the data instead of the system clock keeps every
// operation reproducible no matter when it runs.
type Anchor struct {
	DataStart time.Time // min transaction date
	DataEnd   time.Time // max transaction date

	CurrentMonthStart time.Time // first day of DataEnd's month
	CurrentMonthEnd   time.Time // DataEnd itself

	PrevMonthStart time.Time // first day of the month before
	PrevMonthEnd   time.Time // last day of the month before
}

// computeAnchor derives the anchor from the transaction dates.
// Transactions must be non-empty; the loader enforces that.
func computeAnchor(txns []domain.Transaction) Anchor {
	var a Anchor
	for i, t := range txns {
		if i == 0 || t.Date.Before(a.DataStart) {
			a.DataStart = t.Date
		}
		if i == 0 || t.Date.After(a.DataEnd) {
			a.DataEnd = t.Date
		}
	}

	y, m, _ := a.DataEnd.Date()
	a.CurrentMonthStart = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	a.CurrentMonthEnd = a.DataEnd

	a.PrevMonthEnd = a.CurrentMonthStart.AddDate(0, 0, -1)
	py, pm, _ := a.PrevMonthEnd.Date()
	a.PrevMonthStart = time.Date(py, pm, 1, 0, 0, 0, 0, time.UTC)

	return a
}

// InCurrentMonth reports whether d falls inside the current-month window.
func (a Anchor) InCurrentMonth(d time.Time) bool {
	return !d.Before(a.CurrentMonthStart) && !d.After(a.CurrentMonthEnd)
}

// InPrevMonth reports whether d falls inside the previous-month window.
func (a Anchor) InPrevMonth(d time.Time) bool {
	return !d.Before(a.PrevMonthStart) && !d.After(a.PrevMonthEnd)
}
