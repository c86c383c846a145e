// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package window computes the weekly publication-date window shared by every
// provider: Monday of the current ISO week through today.
package window

import (
	"time"

	"github.com/pdiddy/litharvest/pkg/types"
)

// Current returns the window for the ISO week containing now. Start is the
// Monday of that week at midnight in now's location; End is now's date at
// midnight. On a Monday Start equals End.
func Current(now time.Time) types.DateWindow {
	today := midnight(now)
	// time.Weekday counts from Sunday; ISO weeks start on Monday.
	offset := (int(today.Weekday()) + 6) % 7
	return types.DateWindow{
		Start: today.AddDate(0, 0, -offset),
		End:   today,
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
