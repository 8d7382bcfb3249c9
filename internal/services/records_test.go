package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrypass/entrypass/internal/completion"
	"github.com/entrypass/entrypass/internal/logging"
	"github.com/entrypass/entrypass/internal/models"
	"github.com/entrypass/entrypass/internal/store"
)

var testBase = time.Date(2026, 8, 31, 4, 0, 0, 0, time.UTC) // 30h before test arrival

type testEnv struct {
	db    *sql.DB
	repos *store.Repositories
	rs    *RecordService
	user  *models.User
	rec   *models.EntryRecord
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := store.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos := store.NewRepositories(db)
	rs := NewRecordService(db, repos, logging.NewDefault())
	rs.now = func() time.Time { return testBase }

	user, err := rs.EnsureUser(ctx)
	require.NoError(t, err)
	rec, err := rs.EnsureEntryRecord(ctx, user.ID, "TH")
	require.NoError(t, err)

	return &testEnv{db: db, repos: repos, rs: rs, user: user, rec: rec}
}

func (e *testEnv) metrics(t *testing.T) completion.Metrics {
	t.Helper()
	rec, err := e.repos.Records.GetByID(context.Background(), e.rec.ID)
	require.NoError(t, err)
	var m completion.Metrics
	require.NoError(t, json.Unmarshal([]byte(rec.CompletionMetrics), &m))
	return m
}

// fillRecord drives the record to 100% through the service API.
func (e *testEnv) fillRecord(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	p, pi, trip := completeEntities(t)
	p.UserID, pi.UserID, trip.UserID = e.user.ID, e.user.ID, e.user.ID

	require.NoError(t, e.rs.SavePassport(ctx, e.rec.ID, p))
	require.NoError(t, e.rs.SaveProfile(ctx, e.rec.ID, pi))
	require.NoError(t, e.rs.SaveTravelDetail(ctx, e.rec.ID, trip))

	fund := &models.FundItem{UserID: e.user.ID, Type: "cash", Amount: 20000, Currency: "THB"}
	require.NoError(t, e.rs.SaveFund(ctx, fund))
	require.NoError(t, e.rs.LinkFund(ctx, e.rec.ID, fund.ID))
}

func TestEnsureUserAndRecord_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	again, err := env.rs.EnsureUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, env.user.ID, again.ID)

	rec2, err := env.rs.EnsureEntryRecord(ctx, env.user.ID, "TH")
	require.NoError(t, err)
	assert.Equal(t, env.rec.ID, rec2.ID)

	other, err := env.rs.EnsureEntryRecord(ctx, env.user.ID, "SG")
	require.NoError(t, err)
	assert.NotEqual(t, env.rec.ID, other.ID)
}

func TestNewRecord_StartsEmpty(t *testing.T) {
	env := newTestEnv(t)

	m := env.metrics(t)
	assert.Equal(t, 0, m.Percent)
	assert.Equal(t, completion.StateMissing, m.Passport.State)
	assert.Equal(t, models.EntryStatusIncomplete, env.rec.Status)
}

func TestSavePassport_AttachesAndRecomputes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, _, _ := completeEntities(t)
	p.UserID = env.user.ID
	require.NoError(t, env.rs.SavePassport(ctx, env.rec.ID, p))

	rec, err := env.repos.Records.GetByID(ctx, env.rec.ID)
	require.NoError(t, err)
	require.NotNil(t, rec.PassportID)
	assert.Equal(t, p.ID, *rec.PassportID)

	m := env.metrics(t)
	assert.Equal(t, completion.StateComplete, m.Passport.State)
	assert.Greater(t, m.Percent, 0)
	assert.Equal(t, models.EntryStatusIncomplete, rec.Status, "one category does not make the record ready")
}

func TestSavePassport_PrimaryInvariant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, _, _ := completeEntities(t)
	first.ID, first.UserID, first.IsPrimary = "", env.user.ID, true
	require.NoError(t, env.rs.SavePassport(ctx, env.rec.ID, first))

	second, _, _ := completeEntities(t)
	second.ID, second.UserID, second.IsPrimary = "", env.user.ID, true
	second.Number = "CD7654321"
	require.NoError(t, env.rs.SavePassport(ctx, env.rec.ID, second))

	primary, err := env.repos.Passports.GetPrimary(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, primary.ID)

	all, err := env.repos.Passports.ListByUser(ctx, env.user.ID)
	require.NoError(t, err)
	count := 0
	for _, p := range all {
		if p.IsPrimary {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestFullRecord_BecomesReady(t *testing.T) {
	env := newTestEnv(t)
	env.fillRecord(t)

	m := env.metrics(t)
	assert.Equal(t, 100, m.Percent)
	assert.True(t, m.IsComplete())

	rec, err := env.repos.Records.GetByID(context.Background(), env.rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EntryStatusReady, rec.Status)
}

func TestUnlinkFund_DropsBackToIncomplete(t *testing.T) {
	env := newTestEnv(t)
	env.fillRecord(t)
	ctx := context.Background()

	items, err := env.rs.ListFunds(ctx, env.user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, env.rs.UnlinkFund(ctx, env.rec.ID, items[0].ID))

	m := env.metrics(t)
	assert.Equal(t, completion.StateMissing, m.Funds.State)
	assert.Less(t, m.Percent, 100)

	rec, err := env.repos.Records.GetByID(ctx, env.rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EntryStatusIncomplete, rec.Status)

	// The item itself survives the unlink.
	items, err = env.rs.ListFunds(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestDeleteFund_RecomputesAllRecords(t *testing.T) {
	env := newTestEnv(t)
	env.fillRecord(t)
	ctx := context.Background()

	items, err := env.rs.ListFunds(ctx, env.user.ID)
	require.NoError(t, err)
	require.NoError(t, env.rs.DeleteFund(ctx, env.user.ID, items[0].ID))

	m := env.metrics(t)
	assert.Equal(t, completion.StateMissing, m.Funds.State)

	items, err = env.rs.ListFunds(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetCompletionMetrics_MatchesStoredBlob(t *testing.T) {
	env := newTestEnv(t)
	env.fillRecord(t)

	fresh, err := env.rs.GetCompletionMetrics(context.Background(), env.rec.ID)
	require.NoError(t, err)
	assert.Equal(t, env.metrics(t), fresh)
}

func TestGetStatus_AssemblesView(t *testing.T) {
	env := newTestEnv(t)
	env.fillRecord(t)

	st, err := env.rs.GetStatus(context.Background(), env.rec.ID, "TDAC")
	require.NoError(t, err)
	assert.Equal(t, 100, st.Metrics.Percent)
	assert.True(t, st.Window.CanSubmit, "arrival 30h out is inside the window")
	assert.Nil(t, st.Active)
}
