// Package cli provides the interactive AceMate command-line client.
//
// It wires configuration, the persisted session slot, the API client, and
// the session store into an interactive REPL whose "views" mirror the
// product's pages: login, register, dashboard, payment history, profile, and
// the admin console. Every protected view is gated by the route guard in
// guard.go, re-evaluated on each render and after every session change.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/acemate/acemate-cli/internal/client/api"
	"github.com/acemate/acemate-cli/internal/client/config"
	"github.com/acemate/acemate-cli/internal/client/services"
	"github.com/acemate/acemate-cli/internal/client/session"
	"github.com/acemate/acemate-cli/internal/client/storage"
	"github.com/acemate/acemate-cli/internal/logging"
)

type App struct {
	cfg     *config.Config
	log     logging.Logger
	slot    *storage.SQLiteSlot
	session *session.Store

	payments *services.PaymentService
	credits  *services.CreditService
	activity *services.ActivityService
	admin    *services.AdminService

	reader *bufio.Reader
	out    io.Writer

	// flash holds the most recent inline error; the prompt displays it
	// until cfg.FlashDelay passes, then drops it.
	flashMu sync.Mutex
	flash   string
	flashAt time.Time

	wasAuthenticated bool
}

// NewApp builds the composition root: one slot, one API client, one session
// store, all injected — no package-level singletons.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	slot, err := storage.OpenSQLiteSlot(ctx, cfg.SessionDBPath)
	if err != nil {
		return nil, err
	}

	rest := api.NewRESTClient(cfg.APIBaseURL, cfg.RequestTimeout, slot, log)
	store := session.New(rest, slot, log)
	// The transport reports unauthorized responses; the session reacts.
	rest.SetOnUnauthorized(store.Invalidate)

	a := &App{
		cfg:      cfg,
		log:      log,
		slot:     slot,
		session:  store,
		payments: services.NewPaymentService(rest),
		credits:  services.NewCreditService(rest),
		activity: services.NewActivityService(rest),
		admin:    services.NewAdminService(rest),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
	store.OnChange(a.sessionChanged)
	return a, nil
}

func (a *App) Close() error {
	return a.slot.Close()
}

// Session exposes the store for one-shot subcommands.
func (a *App) Session() *session.Store { return a.session }

// Activity exposes the activity service for one-shot subcommands.
func (a *App) Activity() *services.ActivityService { return a.activity }

// Run hydrates the persisted session and starts the REPL. It blocks until
// the user exits or input reaches EOF.
func (a *App) Run(ctx context.Context) error {
	a.session.Hydrate(ctx)
	a.wasAuthenticated = a.session.IsAuthenticated()
	a.repl(ctx)
	return nil
}

// sessionChanged runs after every session store change. A transition from
// authenticated to unauthenticated evicts whatever protected view the user
// was on: the next prompt renders the logged-out command set.
func (a *App) sessionChanged() {
	authed := a.session.IsAuthenticated()
	if a.wasAuthenticated && !authed {
		a.flashError("Session expired, please log in again")
	}
	a.wasAuthenticated = authed
}

func (a *App) flashError(msg string) {
	a.flashMu.Lock()
	a.flash = msg
	a.flashAt = time.Now()
	a.flashMu.Unlock()
}

func (a *App) clearFlash() {
	a.flashMu.Lock()
	a.flash = ""
	a.flashMu.Unlock()
}

// takeFlash returns the current inline error while it is still fresh and
// clears it once the display delay has passed.
func (a *App) takeFlash() string {
	a.flashMu.Lock()
	defer a.flashMu.Unlock()
	if a.flash == "" {
		return ""
	}
	if time.Since(a.flashAt) > a.cfg.FlashDelay {
		a.flash = ""
		return ""
	}
	return a.flash
}
