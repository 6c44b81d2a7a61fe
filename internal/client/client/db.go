package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/client/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// RunMigrations applies the embedded goose migrations. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// InitDatabase opens (creating if needed) the local SQLite database at dsn
// and migrates it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: shared.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
