// Package session holds the single source of truth for "who is logged in".
//
// The Store pairs the bearer token with the profile it authenticates. The
// pair is mirrored to a durable slot on every change and destroyed together
// on logout, validation failure, or an unauthorized response from any API
// call. Public operations that reach the network never fail past their
// boundary: they return a Result carrying a user-facing message instead, so
// views render inline errors without a global crash handler.
//
// The Store is constructed once at process start and passed explicitly to
// whatever wires up views; there is no package-level instance.
package session

import (
	"context"
	"sync"

	"github.com/acemate/acemate-cli/internal/client/api"
	"github.com/acemate/acemate-cli/internal/client/models"
	"github.com/acemate/acemate-cli/internal/client/storage"
	"github.com/acemate/acemate-cli/internal/logging"
)

// Result is the outcome of an operation a view initiated. Err is a
// human-readable message suitable for inline display; it is the server's
// error detail when available, a generic fallback otherwise.
type Result struct {
	OK  bool
	Err string
}

func ok() Result             { return Result{OK: true} }
func fail(msg string) Result { return Result{Err: msg} }

// Snapshot is an immutable view of the session at one instant.
type Snapshot struct {
	Token    string
	User     *models.User
	Hydrated bool
}

// Store owns the in-memory session and its persisted mirror.
type Store struct {
	api  api.Client
	slot storage.Slot
	log  logging.Logger

	mu       sync.Mutex
	token    string
	user     *models.User
	hydrated bool
	// epoch increments on every login/logout so in-flight profile fetches
	// started under an older session cannot write their result back and
	// resurrect a cleared session.
	epoch uint64

	changeMu  sync.Mutex
	listeners []func()
}

// New builds a Store. The caller is responsible for subscribing the store to
// the API client's unauthorized hook (see Invalidate).
func New(apiClient api.Client, slot storage.Slot, log logging.Logger) *Store {
	return &Store{api: apiClient, slot: slot, log: log}
}

// OnChange registers fn to run after every session state change. The REPL
// uses this to re-evaluate route guards, so a logout triggered anywhere
// immediately evicts a protected view.
func (s *Store) OnChange(fn func()) {
	s.changeMu.Lock()
	defer s.changeMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.changeMu.Lock()
	fns := make([]func(), len(s.listeners))
	copy(fns, s.listeners)
	s.changeMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Current returns a snapshot of the session. The user is copied so callers
// cannot mutate store state through it.
func (s *Store) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{Token: s.token, Hydrated: s.hydrated}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// IsAuthenticated reports whether both token and a validated profile are
// present.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user != nil
}

// IsAdmin reports whether the current user has admin privilege. It is false,
// never a panic, when no user is present.
func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.IsAdmin
}

// Login exchanges credentials for a token and then fetches the authoritative
// profile before resolving, so IsAuthenticated never observes a token
// without a user. Any failure along the way tears the session down: no
// half-valid state survives.
func (s *Store) Login(ctx context.Context, username, password string) Result {
	tok, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.log.Warn(ctx, "login failed", "username", username, "error", err)
		s.teardown(ctx)
		return fail(api.Detail(err, "Login failed"))
	}

	// Persist the token first: the profile fetch below authenticates by
	// reading it back from the slot.
	if err := s.slot.SaveToken(ctx, tok.AccessToken); err != nil {
		s.log.Error(ctx, "persisting token failed", "error", err)
		s.teardown(ctx)
		return fail("Login failed")
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		s.log.Warn(ctx, "profile fetch after login failed", "error", err)
		s.teardown(ctx)
		return fail(api.Detail(err, "Login failed"))
	}

	if err := s.slot.Save(ctx, tok.AccessToken, user); err != nil {
		s.log.Error(ctx, "persisting session failed", "error", err)
		s.teardown(ctx)
		return fail("Login failed")
	}

	s.mu.Lock()
	s.token = tok.AccessToken
	s.user = user
	s.epoch++
	s.mu.Unlock()
	s.notify()

	s.log.Info(ctx, "logged in", "username", user.Username, "credits", user.Credits)
	return ok()
}

// Register creates an account. It does not authenticate the new account.
func (s *Store) Register(ctx context.Context, reg models.Registration) Result {
	if _, err := s.api.Register(ctx, reg); err != nil {
		s.log.Warn(ctx, "registration failed", "username", reg.Username, "error", err)
		return fail(api.Detail(err, "Registration failed"))
	}
	return ok()
}

// Logout clears the in-memory and persisted session. Idempotent, no network
// call.
func (s *Store) Logout(ctx context.Context) {
	s.teardown(ctx)
}

// Invalidate is the unauthorized-response subscription target: wire it to the
// API client's OnUnauthorized hook at composition time.
func (s *Store) Invalidate() {
	ctx := context.Background()
	s.log.Info(ctx, "session invalidated by unauthorized response")
	s.teardown(ctx)
}

func (s *Store) teardown(ctx context.Context) {
	if err := s.slot.Clear(ctx); err != nil {
		s.log.Error(ctx, "clearing persisted session failed", "error", err)
	}
	s.mu.Lock()
	changed := s.token != "" || s.user != nil
	s.token = ""
	s.user = nil
	s.epoch++
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// RefreshUser re-fetches the profile and overwrites the stored user. Views
// await it after any credit-changing action so the balance they confirm with
// is never stale. A failure is logged but does not clear the session: a
// transient refresh failure is not an invalid token, and invalid tokens are
// handled centrally by the unauthorized hook.
func (s *Store) RefreshUser(ctx context.Context) error {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return nil
	}
	started := s.epoch
	s.mu.Unlock()

	user, err := s.api.Me(ctx)
	if err != nil {
		s.log.Error(ctx, "refreshing user failed", "error", err)
		return err
	}

	s.mu.Lock()
	if s.epoch != started {
		// Session changed while the fetch was in flight; discard.
		s.mu.Unlock()
		return nil
	}
	token := s.token
	s.user = user
	s.mu.Unlock()

	if err := s.slot.Save(ctx, token, user); err != nil {
		s.log.Error(ctx, "persisting refreshed user failed", "error", err)
	}
	s.notify()
	return nil
}

// Hydrate restores the session at startup. A persisted pair is optimistically
// set as current state and then validated against the backend; validation
// failure performs a full logout. Guards render nothing until Hydrate
// completes.
func (s *Store) Hydrate(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.hydrated = true
		s.mu.Unlock()
		s.notify()
	}()

	token, user, err := s.slot.Load(ctx)
	if err != nil {
		s.log.Error(ctx, "loading persisted session failed", "error", err)
		return
	}
	if token == "" || user == nil {
		return
	}

	if expired(token) {
		s.log.Info(ctx, "persisted token already expired, discarding")
		s.teardown(ctx)
		return
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	started := s.epoch
	s.mu.Unlock()

	fresh, err := s.api.Me(ctx)
	if err != nil {
		s.log.Warn(ctx, "persisted session failed validation", "error", err)
		s.teardown(ctx)
		return
	}

	s.mu.Lock()
	if s.epoch != started {
		s.mu.Unlock()
		return
	}
	s.user = fresh
	s.mu.Unlock()

	if err := s.slot.Save(ctx, token, fresh); err != nil {
		s.log.Error(ctx, "persisting validated session failed", "error", err)
	}
	s.log.Info(ctx, "session restored", "username", fresh.Username)
}
