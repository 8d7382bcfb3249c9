// Package store opens the embedded SQLite record store, applies goose
// migrations, and bundles the per-entity repositories.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/entrypass/entrypass/internal/filex"
	"github.com/entrypass/entrypass/internal/migrations"
	"github.com/entrypass/entrypass/internal/repositories/funds"
	"github.com/entrypass/entrypass/internal/repositories/passports"
	"github.com/entrypass/entrypass/internal/repositories/profiles"
	"github.com/entrypass/entrypass/internal/repositories/records"
	"github.com/entrypass/entrypass/internal/repositories/submissions"
	"github.com/entrypass/entrypass/internal/repositories/trips"
	"github.com/entrypass/entrypass/internal/repositories/users"
)

// Repositories bundles one repository per entity, all bound to the same
// *sql.DB. Transactional flows construct tx-scoped repositories themselves
// via dbx.WithTx.
type Repositories struct {
	Users       users.Repository
	Passports   passports.Repository
	Profiles    profiles.Repository
	Trips       trips.Repository
	Funds       funds.Repository
	Records     records.Repository
	Submissions submissions.Repository
}

// Open opens (creating when needed) the SQLite database at dsn, enables
// foreign keys, and applies pending migrations.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn != ":memory:" {
		if err := filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection; without capping the
	// pool each new connection would see an empty schema.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Foreign keys are off by default in SQLite; the fund link table's
	// cascade rules depend on them.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// NewRepositories binds one repository per entity to db.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Users:       users.NewSQLiteRepository(db),
		Passports:   passports.NewSQLiteRepository(db),
		Profiles:    profiles.NewSQLiteRepository(db),
		Trips:       trips.NewSQLiteRepository(db),
		Funds:       funds.NewSQLiteRepository(db),
		Records:     records.NewSQLiteRepository(db),
		Submissions: submissions.NewSQLiteRepository(db),
	}
}
