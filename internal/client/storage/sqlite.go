package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/acemate/acemate-cli/internal/client/models"

	_ "modernc.org/sqlite"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// SQLiteSlot stores the session pair in a small key/value table.
type SQLiteSlot struct {
	db *sql.DB
}

// OpenSQLiteSlot opens (creating if needed) the session database at dsn.
// Use ":memory:" style DSNs in tests.
func OpenSQLiteSlot(ctx context.Context, dsn string) (*SQLiteSlot, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS session (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init session db: %w", err)
	}
	return &SQLiteSlot{db: db}, nil
}

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}

func get(ctx context.Context, q dbtx, key string) ([]byte, error) {
	var value []byte
	err := q.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return value, nil
}

func set(ctx context.Context, q dbtx, key string, value []byte) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}

// Load returns the persisted pair, or ("", nil) when either half is missing.
func (s *SQLiteSlot) Load(ctx context.Context) (string, *models.User, error) {
	token, err := get(ctx, s.db, keyToken)
	if err != nil {
		return "", nil, err
	}
	raw, err := get(ctx, s.db, keyUser)
	if err != nil {
		return "", nil, err
	}
	if len(token) == 0 || len(raw) == 0 {
		return "", nil, nil
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return "", nil, fmt.Errorf("failed to decode stored user: %w", err)
	}
	return string(token), &user, nil
}

// SaveToken records the token of a login in progress. The profile half is
// removed in the same transaction so Load keeps reporting no session until
// Save completes the pair.
func (s *SQLiteSlot) SaveToken(ctx context.Context, token string) error {
	return withTx(ctx, s.db, func(ctx context.Context, tx dbtx) error {
		if err := set(ctx, tx, keyToken, []byte(token)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, keyUser)
		return err
	})
}

// Save persists the full pair in one transaction.
func (s *SQLiteSlot) Save(ctx context.Context, token string, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return withTx(ctx, s.db, func(ctx context.Context, tx dbtx) error {
		if err := set(ctx, tx, keyToken, []byte(token)); err != nil {
			return err
		}
		return set(ctx, tx, keyUser, raw)
	})
}

// Clear removes token and user together.
func (s *SQLiteSlot) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session`)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Token returns the persisted bearer token, empty when absent.
func (s *SQLiteSlot) Token(ctx context.Context) (string, error) {
	value, err := get(ctx, s.db, keyToken)
	if err != nil {
		return "", err
	}
	return string(value), nil
}
