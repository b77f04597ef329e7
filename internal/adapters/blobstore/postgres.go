package blobstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/database"
	"github.com/Fernandol1z6/site-do-estudio/internal/ports"
)

// PostgresStore keeps each blob in a key/value table so a hosted deployment
// can share the local document across instances. Same contract as the file
// store: whole-value reads and writes.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a postgres-backed blob store. The blobs table is
// created by the migrations (see migrations/).
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ ports.BlobStore = (*PostgresStore)(nil)

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	query := `SELECT value FROM blobs WHERE key = $1`

	err := s.db.DB.GetContext(ctx, &value, query, key)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get blob %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO blobs (key, value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP`

	if _, err := s.db.DB.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("set blob %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM blobs WHERE key = $1`

	if _, err := s.db.DB.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}
