package cli

import (
	"context"
	"fmt"

	"github.com/entrypass/entrypass/internal/arrivalwindow"
)

// startWindowWatcher keeps a single timer on the record's next
// recalculation instant and announces window transitions between prompts:
// the window opening, and the countdown turning urgent.
func (a *App) startWindowWatcher(ctx context.Context) {
	a.watcher = arrivalwindow.NewScheduler()
	a.checkWindow(ctx, a.rec.ID)
}

// checkWindow takes the record id by value: it runs on the timer goroutine
// while the REPL may be reloading a.rec. The last announced state lives on
// the App under a mutex for the same reason. Besides the timer, itinerary
// edits call this directly so the watcher is re-aimed at the new arrival
// date instead of a stale instant.
func (a *App) checkWindow(ctx context.Context, recordID string) {
	st, err := a.records.GetStatus(ctx, recordID, a.config.CardType)
	if err != nil {
		a.log.Warn(ctx, "window check failed", "err", err)
		return
	}

	w := st.Window

	a.windowMu.Lock()
	changed := w.State != a.lastWindow
	a.lastWindow = w.State
	a.windowMu.Unlock()

	if changed {
		switch w.State {
		case arrivalwindow.StateWithinWindow:
			printlnFn(fmt.Sprintf("\nSubmission window is now open: about %dh until arrival.", w.HoursRemaining))
		case arrivalwindow.StateUrgent:
			printlnFn(fmt.Sprintf("\nURGENT: about %dh until arrival. Submit your arrival card now.", w.HoursRemaining))
		}
	}

	// A zero instant (no date, or past the deadline) parks the watcher;
	// the next itinerary edit re-arms it.
	a.watcher.Schedule(w.NextRecalculation, func() {
		a.checkWindow(ctx, recordID)
	})
}
