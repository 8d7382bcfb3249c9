package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/entrypass/entrypass/internal/completion"
)

// getStatus summarizes the working record for the prompt, e.g. "(75% ready)".
func (a *App) getStatus() string {
	if a.rec == nil {
		return ""
	}
	var m completion.Metrics
	if err := json.Unmarshal([]byte(a.rec.CompletionMetrics), &m); err != nil {
		return fmt.Sprintf("(%s)", a.rec.Status)
	}
	return fmt.Sprintf("(%d%% %s)", m.Percent, a.rec.Status)
}

// Root runs the interactive loop on stdin. The prompt re-reads the record
// before every line so completion changes show up immediately.
func (a *App) Root(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, func() string {
		a.refreshRecord(ctx)
		return a.getStatus()
	}, scanner)
}
