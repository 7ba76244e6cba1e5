package cli

import (
	"context"

	"github.com/acemate/acemate-cli/internal/client/session"
)

// access is the route guard's verdict for one navigation attempt.
type access int

const (
	// accessWait: the startup session check is still in flight. Render
	// nothing rather than flashing the protected view or redirecting early.
	accessWait access = iota
	// accessLogin: not authenticated; land on the login view, discarding
	// the attempted destination.
	accessLogin
	// accessDashboard: authenticated but lacking the required privilege;
	// land on the non-privileged dashboard.
	accessDashboard
	// accessGranted: render the requested view.
	accessGranted
)

// decide evaluates the guard synchronously from a session snapshot.
func decide(snap session.Snapshot, adminOnly bool) access {
	switch {
	case !snap.Hydrated:
		return accessWait
	case snap.Token == "" || snap.User == nil:
		return accessLogin
	case adminOnly && !snap.User.IsAdmin:
		return accessDashboard
	default:
		return accessGranted
	}
}

// open gates view behind the guard, substituting the redirect target when
// access is denied. It is called for every protected view render, so any
// session change since the last command is always observed.
func (a *App) open(ctx context.Context, adminOnly bool, view func(context.Context) error) error {
	switch decide(a.session.Current(), adminOnly) {
	case accessWait:
		return nil
	case accessLogin:
		return a.loginView(ctx)
	case accessDashboard:
		return a.dashboardView(ctx)
	default:
		return view(ctx)
	}
}
