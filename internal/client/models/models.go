// Package models defines the wire types exchanged with the AceMate backend.
// These mirror the server's JSON schemas; the client renders them as-is and
// never derives business values from them locally.
package models

import "time"

// User is the authoritative profile record returned by GET /auth/me.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Credits  int64  `json:"credits"`
	IsAdmin  bool   `json:"is_admin"`
	IsActive bool   `json:"is_active"`
}

// Registration is the payload for POST /auth/register.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the payload returned by the credential exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Payment statuses as reported by the server.
const (
	PaymentCompleted = "completed"
	PaymentPending   = "pending"
	PaymentFailed    = "failed"
)

// Payment is a read-only payment record. Ordering is not guaranteed by the
// server; callers sort locally when they need newest-first.
type Payment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// DashboardStats are the admin dashboard aggregates.
type DashboardStats struct {
	TotalUsers    int64   `json:"total_users"`
	TotalCredits  int64   `json:"total_credits"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalPayments int64   `json:"total_payments"`
}

// CreditAdjustment is returned by the admin grant/deduct endpoints.
// NewBalance is the server-computed balance after the adjustment.
type CreditAdjustment struct {
	Msg        string `json:"msg"`
	NewBalance int64  `json:"new_balance"`
}

// CreditBalance is returned by GET /credits/balance.
type CreditBalance struct {
	Credits int64 `json:"credits"`
}

// CreditEntry is the ledger row returned by the self-service credit
// add/deduct endpoints.
type CreditEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}
