package cli

import (
	"context"
	"fmt"

	"github.com/entrypass/entrypass/internal/models"
)

// History prints every submission attempt for the working record, newest
// first, including superseded and failed rows.
func (a *App) History(ctx context.Context) error {
	rows, err := a.submissions.History(ctx, a.rec.ID)
	if err != nil {
		printlnFn("Could not load history:", err)
		return err
	}
	if len(rows) == 0 {
		printlnFn("No submissions yet.")
		return nil
	}

	for _, s := range rows {
		line := fmt.Sprintf("v%d %s %s", s.Version, s.SubmittedAt.Format("2006-01-02 15:04"), s.Status)
		if s.Status == models.SubmissionSuccess {
			line += " card " + s.CardNo
		}
		if s.IsSuperseded && s.SupersededReason != nil {
			line += " (" + *s.SupersededReason + ")"
		}
		if s.RetryCount > 0 {
			line += fmt.Sprintf(" [%d retries]", s.RetryCount)
		}
		printlnFn(line)
	}
	return nil
}
