package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type KVSQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewKVSQLite(db *sql.DB) *KVSQLite {
	return &KVSQLite{db: db, now: time.Now}
}

const (
	upsertKVSQL = `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`

	selectKVSQL = `SELECT value FROM kv WHERE key=?`
)

// Save writes value under key, replacing any previous value (last write wins).
func (r *KVSQLite) Save(ctx context.Context, key string, value []byte) error {
	if _, err := r.db.ExecContext(ctx, upsertKVSQL, key, string(value), r.now().UTC()); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

// Load returns the stored value for key. ok is false when the key is absent.
func (r *KVSQLite) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	if err := r.db.QueryRowContext(ctx, selectKVSQL, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load %q: %w", key, err)
	}
	return []byte(value), true, nil
}
