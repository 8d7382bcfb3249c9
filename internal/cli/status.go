package cli

import (
	"context"
	"fmt"

	"github.com/entrypass/entrypass/internal/arrivalwindow"
	"github.com/entrypass/entrypass/internal/completion"
)

func describeCategory(name string, c completion.Category) string {
	return fmt.Sprintf("  %-14s %d/%d (%s)", name, c.Complete, c.Total, c.State)
}

// Status prints the completion breakdown, the submission window, and the
// active card if one exists.
func (a *App) Status(ctx context.Context) error {
	st, err := a.records.GetStatus(ctx, a.rec.ID, a.config.CardType)
	if err != nil {
		printlnFn("Could not load status:", err)
		return err
	}

	printlnFn(fmt.Sprintf("Record for %s: %s, %d%% complete", st.Record.Destination, st.Record.Status, st.Metrics.Percent))
	printlnFn(describeCategory("passport", st.Metrics.Passport))
	printlnFn(describeCategory("personal info", st.Metrics.PersonalInfo))
	printlnFn(describeCategory("trip", st.Metrics.Trip))
	printlnFn(describeCategory("funds", st.Metrics.Funds))

	switch st.Window.State {
	case arrivalwindow.StateNoDate:
		printlnFn("No arrival date declared yet; add one with 'trip'.")
	case arrivalwindow.StatePastDeadline:
		printlnFn("The arrival time has passed; submission is closed.")
	case arrivalwindow.StatePreWindow:
		printlnFn(fmt.Sprintf("Submission opens at %s (72h before arrival).",
			st.Window.NextRecalculation.Format("2006-01-02 15:04 MST")))
	case arrivalwindow.StateUrgent:
		printlnFn(fmt.Sprintf("URGENT: about %dh until arrival. Submit now.", st.Window.HoursRemaining))
	case arrivalwindow.StateWithinWindow:
		printlnFn(fmt.Sprintf("Submission window is open: about %dh until arrival.", st.Window.HoursRemaining))
	}

	if st.Active != nil {
		printlnFn(fmt.Sprintf("Active card: %s (version %d, submitted %s)",
			st.Active.CardNo, st.Active.Version, st.Active.SubmittedAt.Format("2006-01-02 15:04")))
	}
	return nil
}
