package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/acemate/acemate-cli/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// loginView prompts for credentials and authenticates. The session store
// resolves only after the profile fetch, so a successful login always has a
// balance to show.
func (a *App) loginView(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}

	if username == "" || password == "" {
		a.flashError("Username and password are required")
		return nil
	}

	res := a.session.Login(ctx, username, password)
	if !res.OK {
		a.flashError(res.Err)
		return nil
	}

	snap := a.session.Current()
	fmt.Fprintf(a.out, "Welcome back, %s! Balance: %d credits\n", snap.User.Username, snap.User.Credits)
	return nil
}

// registerView collects account details, validates them locally, and creates
// the account. Validation failures never reach the network. Registration
// does not log the new account in.
func (a *App) registerView(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}

	if msg := validateRegistration(username, email, password, confirm); msg != "" {
		a.flashError(msg)
		return nil
	}

	res := a.session.Register(ctx, models.Registration{
		Username: username,
		Email:    email,
		Password: password,
	})
	if !res.OK {
		a.flashError(res.Err)
		return nil
	}

	fmt.Fprintln(a.out, "Account created. You can now log in.")
	return nil
}

// validateRegistration returns an inline error message, or "" when the form
// is acceptable to send.
func validateRegistration(username, email, password, confirm string) string {
	switch {
	case username == "" || email == "" || password == "":
		return "All fields are required"
	case !strings.Contains(email, "@"):
		return "Enter a valid email address"
	case len(password) < 6:
		return "Password must be at least 6 characters"
	case password != confirm:
		return "Passwords do not match"
	default:
		return ""
	}
}
