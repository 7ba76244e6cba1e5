package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acemate/acemate-cli/internal/client/api"
	"github.com/acemate/acemate-cli/internal/client/config"
	"github.com/acemate/acemate-cli/internal/client/models"
	"github.com/acemate/acemate-cli/internal/client/services"
	"github.com/acemate/acemate-cli/internal/client/session"
	"github.com/acemate/acemate-cli/internal/client/storage"
	"github.com/acemate/acemate-cli/internal/logging"
)

// stubInputs swaps the interactive input seams for canned values.
func stubInputs(t *testing.T, texts []string, passwords []string) {
	t.Helper()
	origText, origPass := getSimpleText, getPassword
	ti, pi := 0, 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		v := texts[ti]
		ti++
		return v, nil
	}
	getPassword = func(_ string, _ io.Writer) (string, error) {
		v := passwords[pi]
		pi++
		return v, nil
	}
	t.Cleanup(func() {
		getSimpleText = origText
		getPassword = origPass
	})
}

// fakeAPI covers the endpoints the views exercise; anything unexpected
// panics through the embedded nil interface.
type fakeAPI struct {
	api.Client

	loginFn     func(ctx context.Context, username, password string) (*models.TokenResponse, error)
	meFn        func(ctx context.Context) (*models.User, error)
	registerFn  func(ctx context.Context, reg models.Registration) (*models.User, error)
	createFn    func(ctx context.Context, amount float64) (*models.Payment, error)
	historyFn   func(ctx context.Context) ([]models.Payment, error)
	addFn       func(ctx context.Context, amount int64) (*models.CreditEntry, error)
	dashboardFn func(ctx context.Context) (*models.DashboardStats, error)
	usersFn     func(ctx context.Context) ([]models.User, error)
	paymentsFn  func(ctx context.Context) ([]models.Payment, error)

	loginCalls    int
	registerCalls int
	createCalls   int
	historyCalls  int
	overviewCalls int
	meCalls       int
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	f.loginCalls++
	return f.loginFn(ctx, username, password)
}

func (f *fakeAPI) Me(ctx context.Context) (*models.User, error) {
	f.meCalls++
	return f.meFn(ctx)
}

func (f *fakeAPI) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	f.registerCalls++
	return f.registerFn(ctx, reg)
}

func (f *fakeAPI) CreatePayment(ctx context.Context, amount float64) (*models.Payment, error) {
	f.createCalls++
	return f.createFn(ctx, amount)
}

func (f *fakeAPI) PaymentHistory(ctx context.Context) ([]models.Payment, error) {
	f.historyCalls++
	return f.historyFn(ctx)
}

func (f *fakeAPI) AddCredits(ctx context.Context, amount int64) (*models.CreditEntry, error) {
	return f.addFn(ctx, amount)
}

func (f *fakeAPI) AdminDashboard(ctx context.Context) (*models.DashboardStats, error) {
	f.overviewCalls++
	return f.dashboardFn(ctx)
}

func (f *fakeAPI) AdminUsers(ctx context.Context) ([]models.User, error) {
	return f.usersFn(ctx)
}

func (f *fakeAPI) AdminPayments(ctx context.Context) ([]models.Payment, error) {
	return f.paymentsFn(ctx)
}

func newTestApp(t *testing.T, f api.Client) (*App, *bytes.Buffer) {
	t.Helper()

	slot, err := storage.OpenSQLiteSlot(context.Background(), "file:app-"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = slot.Close() })

	log := logging.NewTextLogger(io.Discard, false)
	store := session.New(f, slot, log)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.FlashDelay = time.Minute

	out := &bytes.Buffer{}
	a := &App{
		cfg:      cfg,
		log:      log,
		slot:     slot,
		session:  store,
		payments: services.NewPaymentService(f),
		credits:  services.NewCreditService(f),
		activity: services.NewActivityService(f),
		admin:    services.NewAdminService(f),
		reader:   bufio.NewReader(strings.NewReader("")),
		out:      out,
	}
	store.OnChange(a.sessionChanged)
	return a, out
}

func loginFakes(credits int64) *fakeAPI {
	f := &fakeAPI{}
	f.loginFn = func(context.Context, string, string) (*models.TokenResponse, error) {
		return &models.TokenResponse{AccessToken: "tok"}, nil
	}
	f.meFn = func(context.Context) (*models.User, error) {
		return &models.User{ID: 1, Username: "alice", Email: "alice@example.org", Credits: credits, IsActive: true}, nil
	}
	return f
}

func authenticate(t *testing.T, a *App) {
	t.Helper()
	a.session.Hydrate(context.Background())
	stubInputs(t, []string{"alice"}, []string{"pw"})
	require.NoError(t, a.loginView(context.Background()))
	require.True(t, a.session.IsAuthenticated())
}
