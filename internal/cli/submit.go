package cli

import (
	"context"
	"fmt"
	"os"
)

// Submit runs the arrival-card submission pipeline for the working record.
// The verification token is read without echo; rejections are reported with
// the classified category and its suggestions.
func (a *App) Submit(ctx context.Context) error {
	token, err := GetToken(os.Stdout)
	if err != nil {
		printlnFn("Could not read token:", err)
		return err
	}

	res, err := a.submissions.Submit(ctx, a.rec.ID, a.config.CardType, token)
	if err != nil {
		printlnFn("Submission failed:", err)
		return err
	}

	for _, warn := range res.Warnings {
		printlnFn("note:", warn)
	}

	if res.Failure != nil {
		printlnFn("Submission failed:", res.Failure.Category.Message())
		for _, s := range res.Failure.Category.Suggestions() {
			printlnFn("  -", s)
		}
		return nil
	}

	printlnFn(fmt.Sprintf("Arrival card submitted: %s (version %d)", res.Submission.CardNo, res.Submission.Version))
	return nil
}
