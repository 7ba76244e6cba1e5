package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/acemate/acemate-cli/internal/client/session"
)

func (a *App) profileView(ctx context.Context) error {
	snap := a.session.Current()
	u := snap.User

	fmt.Fprintf(a.out, "Username: %s\n", u.Username)
	fmt.Fprintf(a.out, "Email:    %s\n", u.Email)
	fmt.Fprintf(a.out, "Credits:  %d\n", u.Credits)
	fmt.Fprintf(a.out, "Admin:    %v\n", u.IsAdmin)
	fmt.Fprintf(a.out, "Active:   %v\n", u.IsActive)

	if exp, ok := session.Expiry(snap.Token); ok {
		fmt.Fprintf(a.out, "Session expires %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}
