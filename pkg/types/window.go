// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// DateWindow is the inclusive publication-date range used to filter
// provider queries. Both bounds are calendar dates; the time of day is not
// significant.
type DateWindow struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Validate reports an error when Start falls after End.
func (w DateWindow) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("date window is unset")
	}
	if dateOnly(w.Start).After(dateOnly(w.End)) {
		return fmt.Errorf("date window start %s is after end %s", w.StartISO(), w.EndISO())
	}
	return nil
}

// StartISO formats Start as YYYY-MM-DD.
func (w DateWindow) StartISO() string { return w.Start.Format(time.DateOnly) }

// EndISO formats End as YYYY-MM-DD.
func (w DateWindow) EndISO() string { return w.End.Format(time.DateOnly) }

// Format renders both bounds with layout.
func (w DateWindow) Format(layout string) (string, string) {
	return w.Start.Format(layout), w.End.Format(layout)
}

// String returns "start..end".
func (w DateWindow) String() string {
	return w.StartISO() + ".." + w.EndISO()
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
