package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// KVRepo stores whole documents under a fixed key.
type KVRepo struct{ db *sqlx.DB }

func NewKVRepo(db *sqlx.DB) *KVRepo { return &KVRepo{db: db} }

// Get returns nil, nil when the key has never been written.
func (r *KVRepo) Get(key string) ([]byte, error) {
	var v string
	err := r.db.Get(&v, `SELECT value FROM kv_store WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

func (r *KVRepo) Put(key string, value []byte) error {
	_, err := r.db.Exec(`
		INSERT INTO kv_store(key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, string(value))
	return err
}
