// Package api contains the HTTP client for the AceMate backend.
//
// All feature code talks to the backend through the Client interface. The
// implementation enforces two cross-cutting policies so callers never repeat
// them: the bearer token is attached to every request (read fresh from the
// persisted session slot at request time), and any unauthorized response is
// fanned out to a registered hook before the error is returned. Wrappers
// return the raw decoded server payload; validation of business data happens
// before the call, in form-handling code.
package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/acemate/acemate-cli/internal/client/models"
)

// TokenSource supplies the current bearer token for outgoing requests.
// An empty token with a nil error means "no session"; the request is sent
// without an Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is the full backend surface used by feature code.
type Client interface {
	// Auth.
	Login(ctx context.Context, username, password string) (*models.TokenResponse, error)
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
	Me(ctx context.Context) (*models.User, error)

	// Payments.
	CreatePayment(ctx context.Context, amount float64) (*models.Payment, error)
	PaymentHistory(ctx context.Context) ([]models.Payment, error)

	// Self-service credits.
	CreditBalance(ctx context.Context) (*models.CreditBalance, error)
	AddCredits(ctx context.Context, amount int64) (*models.CreditEntry, error)
	DeductCredits(ctx context.Context, amount int64) (*models.CreditEntry, error)

	// Activity logging (used by the companion application integration).
	LogTranscription(ctx context.Context, text string) error
	LogAIResponse(ctx context.Context, query, response string, tokensUsed int64) error

	// Admin.
	AdminDashboard(ctx context.Context) (*models.DashboardStats, error)
	AdminUsers(ctx context.Context) ([]models.User, error)
	AdminDeleteUser(ctx context.Context, userID int64) error
	AdminGrantCredits(ctx context.Context, userID, amount int64) (*models.CreditAdjustment, error)
	AdminDeductCredits(ctx context.Context, userID, amount int64) (*models.CreditAdjustment, error)
	AdminPayments(ctx context.Context) ([]models.Payment, error)
	AdminUserPayments(ctx context.Context, userID int64) ([]models.Payment, error)
}

// Error is a non-2xx response from the backend. Detail carries the server's
// human-readable "detail" field when present. Unwrap yields the matching
// sentinel from internal/common so errors.Is keeps working.
type Error struct {
	Status int
	Detail string
	err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: HTTP %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: HTTP %d", e.Status)
}

func (e *Error) Unwrap() error { return e.err }

// Detail extracts the server-provided error detail from err, falling back to
// the given message. Views use this to surface business errors verbatim
// without inspecting transport internals.
func Detail(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
