package credstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // embedded local storage

	"recipehub/internal/model"
)

// Fixed keys for the persisted pair, matching the browser client's
// localStorage layout.
const (
	keyAccess  = "access_token"
	keyRefresh = "refresh_token"
)

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Store persists the credential pair in a local sqlite database. Both keys
// are written and deleted inside one transaction, so at no observable instant
// is exactly one credential present.
type Store struct {
	db *sqlx.DB
}

func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare credential store: %w", err)
	}
	return &Store{db: db}, nil
}

// Save persists the pair, replacing any previous one.
func (s *Store) Save(ctx context.Context, pair model.TokenPair) error {
	if !pair.Valid() {
		return fmt.Errorf("refusing to persist a partial credential pair: %w", model.ErrValidation)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin credential write: %w", err)
	}
	defer tx.Rollback()

	const upsert = `INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.ExecContext(ctx, upsert, keyAccess, pair.Access); err != nil {
		return fmt.Errorf("store access credential: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsert, keyRefresh, pair.Refresh); err != nil {
		return fmt.Errorf("store refresh credential: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit credential write: %w", err)
	}
	return nil
}

// Load returns the persisted pair. A half-present pair (possible only after
// external tampering) is treated as absent and cleaned up.
func (s *Store) Load(ctx context.Context) (model.TokenPair, bool, error) {
	rows := []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}{}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT key, value FROM credentials WHERE key IN (?, ?)`, keyAccess, keyRefresh)
	if err != nil {
		return model.TokenPair{}, false, fmt.Errorf("load credentials: %w", err)
	}

	var pair model.TokenPair
	for _, row := range rows {
		switch row.Key {
		case keyAccess:
			pair.Access = row.Value
		case keyRefresh:
			pair.Refresh = row.Value
		}
	}
	if !pair.Valid() {
		if pair.Access != "" || pair.Refresh != "" {
			if err := s.Clear(ctx); err != nil {
				return model.TokenPair{}, false, err
			}
		}
		return model.TokenPair{}, false, nil
	}
	return pair, true, nil
}

// Clear removes both credentials in one transaction.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM credentials WHERE key IN (?, ?)`, keyAccess, keyRefresh)
	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
