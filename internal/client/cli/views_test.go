package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acemate/acemate-cli/internal/client/models"
)

// TestBuyView_ConfirmsWithServerBalance exercises the purchase flow end to
// end: a user with zero credits buys $5 worth, and the confirmation shows
// the refreshed server-side balance rather than a local computation.
func TestBuyView_ConfirmsWithServerBalance(t *testing.T) {
	f := loginFakes(0)
	f.meFn = func(context.Context) (*models.User, error) {
		credits := int64(0)
		if f.meCalls > 1 {
			credits = 50 // balance after the purchase settles
		}
		return &models.User{ID: 1, Username: "alice", Credits: credits, IsActive: true}, nil
	}
	var gotAmount float64
	f.createFn = func(_ context.Context, amount float64) (*models.Payment, error) {
		gotAmount = amount
		return &models.Payment{ID: 7, UserID: 1, Amount: amount, Status: models.PaymentCompleted, Timestamp: time.Now()}, nil
	}

	a, out := newTestApp(t, f)
	authenticate(t, a)
	require.Equal(t, int64(0), a.session.Current().User.Credits)

	stubInputs(t, []string{"5"}, nil)
	require.NoError(t, a.buyView(context.Background()))

	require.Equal(t, 1, f.createCalls)
	require.Equal(t, 5.0, gotAmount)
	require.Contains(t, out.String(), "Payment completed (id 7). New balance: 50 credits")
	require.Equal(t, int64(50), a.session.Current().User.Credits)
}

func TestBuyView_InvalidAmountNeverReachesNetwork(t *testing.T) {
	f := loginFakes(10)
	a, _ := newTestApp(t, f)
	authenticate(t, a)

	stubInputs(t, []string{"-3"}, nil)
	require.NoError(t, a.buyView(context.Background()))

	require.Zero(t, f.createCalls)
	require.NotEmpty(t, a.takeFlash())
}

func TestBuyView_PaymentFailureFlashes(t *testing.T) {
	f := loginFakes(10)
	f.createFn = func(context.Context, float64) (*models.Payment, error) {
		return nil, errors.New("gateway unavailable")
	}
	a, _ := newTestApp(t, f)
	authenticate(t, a)

	stubInputs(t, []string{"5"}, nil)
	require.NoError(t, a.buyView(context.Background()))

	require.Equal(t, "Payment failed", a.takeFlash())
}

func TestAddCreditsView_ReportsRefreshedBalance(t *testing.T) {
	f := loginFakes(10)
	f.meFn = func(context.Context) (*models.User, error) {
		credits := int64(10)
		if f.meCalls > 1 {
			credits = 35
		}
		return &models.User{ID: 1, Username: "alice", Credits: credits, IsActive: true}, nil
	}
	var gotAmount int64
	f.addFn = func(_ context.Context, amount int64) (*models.CreditEntry, error) {
		gotAmount = amount
		return &models.CreditEntry{ID: 3, UserID: 1, Amount: amount, Timestamp: time.Now()}, nil
	}

	a, out := newTestApp(t, f)
	authenticate(t, a)

	require.NoError(t, a.addCreditsView(context.Background(), "25"))

	require.Equal(t, int64(25), gotAmount)
	require.Contains(t, out.String(), "Credits added. New balance: 35 credits")
}

// TestDispatch_UnauthenticatedProtectedCommand checks the guard at the
// dispatch level: a signed-out user asking for payment history lands on the
// login view and the history endpoint is never called.
func TestDispatch_UnauthenticatedProtectedCommand(t *testing.T) {
	f := loginFakes(40)
	a, out := newTestApp(t, f)
	a.session.Hydrate(context.Background())

	stubInputs(t, []string{"alice"}, []string{"pw"})
	require.False(t, a.dispatch(context.Background(), "history", nil))

	require.Zero(t, f.historyCalls)
	require.True(t, a.session.IsAuthenticated())
	require.Contains(t, out.String(), "Welcome back, alice!")
}

// TestDispatch_NonAdminAdminCommand: an authenticated non-admin asking for
// the admin console is shown the regular dashboard instead, without any
// admin endpoint being touched.
func TestDispatch_NonAdminAdminCommand(t *testing.T) {
	f := loginFakes(40)
	a, out := newTestApp(t, f)
	authenticate(t, a)

	require.False(t, a.dispatch(context.Background(), "admin", nil))

	require.Zero(t, f.overviewCalls)
	require.Contains(t, out.String(), "Signed in as alice")
}

func TestDispatch_LogoutClearsSession(t *testing.T) {
	f := loginFakes(40)
	a, out := newTestApp(t, f)
	authenticate(t, a)

	require.False(t, a.dispatch(context.Background(), "logout", nil))

	require.False(t, a.session.IsAuthenticated())
	require.Contains(t, out.String(), "Logged out")
	// A deliberate logout is not an expiry; no flash appears.
	require.Empty(t, a.takeFlash())
}

func TestSessionChanged_FlashesOnForcedSignOut(t *testing.T) {
	f := loginFakes(40)
	a, _ := newTestApp(t, f)
	authenticate(t, a)

	// Simulate the transport observing a 401 mid-session.
	a.session.Invalidate()

	require.False(t, a.session.IsAuthenticated())
	require.Equal(t, "Session expired, please log in again", a.takeFlash())
}
