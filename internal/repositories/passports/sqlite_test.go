package passports

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/entrypass/entrypass/internal/common"
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

	_, err = db.Exec(`INSERT INTO users (id, created_at, updated_at) VALUES ('u-1', ?, ?)`,
		time.Now(), time.Now())
	require.NoError(t, err)

	return db
}

func newPassport(id string, primary bool) *models.Passport {
	return &models.Passport{
		ID: id, UserID: "u-1",
		Number: "AB" + id, FullName: "SMITH JOHN",
		BirthDate: "1990-05-14", Nationality: "GBR",
		Gender: "male", ExpiryDate: "2030-01-01",
		IsPrimary: primary,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
}

func TestSave_InsertAndUpdate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	p := newPassport("p1", false)
	require.NoError(t, r.Save(ctx, p))

	p.Number = "CD999"
	require.NoError(t, r.Save(ctx, p))

	got, err := r.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "CD999", got.Number)

	all, err := r.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, all, 1, "upsert must not duplicate")
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClearPrimaryExcept(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, newPassport("p1", true)))
	require.NoError(t, r.Save(ctx, newPassport("p2", true)))
	require.NoError(t, r.ClearPrimaryExcept(ctx, "u-1", "p2"))

	primary, err := r.GetPrimary(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "p2", primary.ID)

	p1, err := r.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, p1.IsPrimary)
}

func TestGetPrimary_NoneMarked(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, newPassport("p1", false)))
	_, err := r.GetPrimary(ctx, "u-1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, newPassport("p1", false)))
	require.NoError(t, r.Delete(ctx, "p1"))

	_, err := r.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
