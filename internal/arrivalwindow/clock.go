// Package arrivalwindow computes the time-gated submission window for an
// arrival card. Evaluate is a pure function of (now, arrival date); no
// state machine is persisted, the state is recomputed on every observation
// and is monotonic in time for a fixed arrival date.
package arrivalwindow

import (
	"math"
	"time"
)

// State is the discrete window state, ordered by urgency.
type State string

const (
	StateNoDate       State = "no-date"
	StatePastDeadline State = "past-deadline"
	StateUrgent       State = "urgent"        // 0 < h <= 24
	StateWithinWindow State = "within-window" // 24 < h <= 72
	StatePreWindow    State = "pre-window"    // h > 72
)

// submitWindow is how far ahead of arrival submission opens.
const submitWindow = 72 * time.Hour

// recalcInterval is how often a submittable countdown refreshes.
const recalcInterval = time.Hour

// Window is one observation of the clock.
type Window struct {
	State     State
	CanSubmit bool

	// Remaining is the exact time until arrival (zero when not ahead).
	Remaining time.Duration

	// HoursRemaining is Remaining rounded up for display, so "0.1 hours
	// left" shows as 1 hour, never 0 while still submittable.
	HoursRemaining int

	// NextRecalculation is when the caller should re-evaluate: in one
	// hour while submittable (countdown refresh), at window opening when
	// pre-window, zero otherwise (nothing left to wait for).
	NextRecalculation time.Time
}

// Evaluate computes the window state at now for the given arrival date.
// A nil arrival date yields StateNoDate.
func Evaluate(now time.Time, arrival *time.Time) Window {
	if arrival == nil {
		return Window{State: StateNoDate}
	}

	// Millisecond precision, per the display contract.
	remaining := arrival.Sub(now).Truncate(time.Millisecond)
	hours := float64(remaining) / float64(time.Hour)

	w := Window{}
	switch {
	case hours <= 0:
		w.State = StatePastDeadline
		return w
	case hours <= 24:
		w.State = StateUrgent
	case hours <= 72:
		w.State = StateWithinWindow
	default:
		w.State = StatePreWindow
	}

	w.Remaining = remaining
	w.HoursRemaining = int(math.Ceil(hours))

	if w.State == StateUrgent || w.State == StateWithinWindow {
		w.CanSubmit = true
		w.NextRecalculation = now.Add(recalcInterval)
	} else {
		w.NextRecalculation = arrival.Add(-submitWindow)
	}
	return w
}
