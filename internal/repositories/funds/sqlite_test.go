package funds

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/entrypass/entrypass/internal/migrations"
	"github.com/entrypass/entrypass/internal/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(db, "."))

	now := time.Now()
	_, err = db.Exec(`INSERT INTO users (id, created_at, updated_at) VALUES ('u-1', ?, ?)`, now, now)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO entry_records (id, user_id, destination, created_at, updated_at)
		VALUES ('rec-1', 'u-1', 'TH', ?, ?)`, now, now)
	require.NoError(t, err)

	return db
}

func newFund(id string) *models.FundItem {
	return &models.FundItem{
		ID: id, UserID: "u-1",
		Type: "cash", Amount: 20000, Currency: "THB",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
}

func TestLink_IdempotentAndListable(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, newFund("f1")))
	require.NoError(t, r.Link(ctx, "rec-1", "f1", time.Now()))
	require.NoError(t, r.Link(ctx, "rec-1", "f1", time.Now()), "double link is a no-op")

	linked, err := r.ListByRecord(ctx, "rec-1")
	require.NoError(t, err)
	assert.Len(t, linked, 1)
	assert.Equal(t, "f1", linked[0].ID)
}

func TestUnlink_KeepsItem(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, newFund("f1")))
	require.NoError(t, r.Link(ctx, "rec-1", "f1", time.Now()))
	require.NoError(t, r.Unlink(ctx, "rec-1", "f1"))

	linked, err := r.ListByRecord(ctx, "rec-1")
	require.NoError(t, err)
	assert.Empty(t, linked)

	n, err := r.CountByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "the item itself must survive the unlink")
}

func TestDeleteItem_CascadesLinkRows(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, newFund("f1")))
	require.NoError(t, r.Link(ctx, "rec-1", "f1", time.Now()))
	require.NoError(t, r.Delete(ctx, "f1"))

	var links int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM entry_record_funds`).Scan(&links))
	assert.Zero(t, links)
}

func TestDeleteRecord_CascadesLinksButNotItems(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, newFund("f1")))
	require.NoError(t, r.Link(ctx, "rec-1", "f1", time.Now()))

	_, err := db.Exec(`DELETE FROM entry_records WHERE id = 'rec-1'`)
	require.NoError(t, err)

	var links int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM entry_record_funds`).Scan(&links))
	assert.Zero(t, links)

	items, err := r.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
