package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository works on a *sql.DB or on a *sql.Tx obtained from
// dbx.WithTx.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLiteRepository) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	result := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	q := `SELECT key, value FROM metadata WHERE key IN (` + placeholders(len(keys)) + `)`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate metadata rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

// SetMany upserts every pair. Keys are written in sorted order so failures
// are reproducible; wrap in dbx.WithTx for atomicity.
func (r *SQLiteRepository) SetMany(ctx context.Context, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := r.Set(ctx, k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key IN (`+placeholders(len(keys))+`)`, args...)
	if err != nil {
		return fmt.Errorf("failed to delete metadata%v: %w", keys, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata`)
	if err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
