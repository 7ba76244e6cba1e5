// Package storage persists the client session across process restarts.
//
// The slot is the terminal analogue of the browser's localStorage: a single
// global place holding the bearer token and the profile it authenticates.
// Writes that change both values happen in one transaction and the pair is
// always cleared together, so a reload can never observe a token and a user
// that belong to different sessions.
package storage

import (
	"context"
	"database/sql"

	"github.com/acemate/acemate-cli/internal/client/models"
)

// Slot is the durable token/user pair.
//
// Load returns both values or neither: a persisted token without a persisted
// user is reported as no session. SaveToken alone is permitted only as the
// intermediate step of a login in progress; a crash at that point simply
// leaves an unauthenticated slot.
type Slot interface {
	Load(ctx context.Context) (token string, user *models.User, err error)
	SaveToken(ctx context.Context, token string) error
	Save(ctx context.Context, token string, user *models.User) error
	Clear(ctx context.Context) error

	// Token reads the current bearer token directly from durable storage.
	// The API client calls this on every request so it never acts on a
	// stale in-memory copy.
	Token(ctx context.Context) (string, error)
}

// dbtx is the subset of database/sql used here; both *sql.DB and *sql.Tx
// satisfy it.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error or panic. Panics are rethrown.
func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbtx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}
