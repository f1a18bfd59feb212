package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/pintorpro/internal/state"
)

// KV stores one value under a fixed key in the kv_store table.
type KV struct {
	db  *sql.DB
	key string
}

// NewKV returns a KV bound to key.
func NewKV(db *sql.DB, key string) *KV {
	return &KV{db: db, key: key}
}

// Get returns the stored value or state.ErrNotFound.
func (k *KV) Get(ctx context.Context) ([]byte, error) {
	var value []byte
	err := k.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, k.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, state.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query kv_store %q: %w", k.key, err)
	}
	return value, nil
}

// Put writes value, replacing any previous one.
func (k *KV) Put(ctx context.Context, value []byte) error {
	_, err := k.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, k.key, value)
	if err != nil {
		return fmt.Errorf("upsert kv_store %q: %w", k.key, err)
	}
	return nil
}
