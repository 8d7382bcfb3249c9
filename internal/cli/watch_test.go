package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrypass/entrypass/internal/config"
	"github.com/entrypass/entrypass/internal/logging"
	"github.com/entrypass/entrypass/internal/services"
	"github.com/entrypass/entrypass/internal/store"
)

func newWatcherApp(t *testing.T) *App {
	t.Helper()
	ctx := context.Background()

	db, err := store.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()

	repos := store.NewRepositories(db)
	rs := services.NewRecordService(db, repos, logging.NewDefault())

	a := &App{config: cfg, db: db, records: rs, log: logging.NewDefault()}
	a.user, err = rs.EnsureUser(ctx)
	require.NoError(t, err)
	a.rec, err = rs.EnsureEntryRecord(ctx, a.user.ID, cfg.Destination)
	require.NoError(t, err)
	return a
}

// Entering an arrival date after launch must wake the parked watcher: the
// watcher starts with no itinerary (nothing scheduled), then a trip edit
// re-aims it and the window-open announcement fires.
func TestWindowWatcher_RearmsAfterItineraryChange(t *testing.T) {
	a := newWatcherApp(t)
	ctx := context.Background()
	out := captureOutput(t)

	a.startWindowWatcher(ctx)
	t.Cleanup(a.watcher.Stop)
	assert.Empty(t, *out, "no itinerary yet, nothing to announce")

	// Arrival the day after tomorrow is always inside the 72h window.
	arrival := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
	script := strings.Join([]string{
		"holiday", "USA", "TG911", arrival, "", "commercial flight", "n",
		"hotel", "1 Main Rd", "Bangkok", "Watthana", "10110",
	}, "\n") + "\n"
	a.reader = bufio.NewReader(strings.NewReader(script))

	require.NoError(t, a.Trip(ctx))

	joined := strings.Join(*out, "")
	assert.Contains(t, joined, "Travel details saved.")
	assert.Contains(t, joined, "Submission window is now open")
}

// Repeating the same window state must not repeat the announcement.
func TestWindowWatcher_AnnouncesTransitionOnce(t *testing.T) {
	a := newWatcherApp(t)
	ctx := context.Background()
	out := captureOutput(t)

	a.startWindowWatcher(ctx)
	t.Cleanup(a.watcher.Stop)

	arrival := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
	script := strings.Join([]string{
		"holiday", "USA", "TG911", arrival, "", "commercial flight", "y",
	}, "\n") + "\n"
	a.reader = bufio.NewReader(strings.NewReader(script))
	require.NoError(t, a.Trip(ctx))

	a.checkWindow(ctx, a.rec.ID)

	joined := strings.Join(*out, "")
	assert.Equal(t, 1, strings.Count(joined, "Submission window is now open"))
}
