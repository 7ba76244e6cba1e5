package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/acemate/acemate-cli/internal/client/api"
)

// adminView renders the admin console landing: aggregates plus the full user
// and payment lists, fetched concurrently. Any single failed fetch fails the
// whole render with one generic message.
func (a *App) adminView(ctx context.Context) error {
	ov, err := a.admin.Overview(ctx)
	if err != nil {
		a.log.Error(ctx, "admin overview failed", "error", err)
		a.flashError("Failed to load admin dashboard")
		return nil
	}

	fmt.Fprintf(a.out, "Users: %d  Credits in circulation: %d  Revenue: $%.2f  Payments: %d\n",
		ov.Stats.TotalUsers, ov.Stats.TotalCredits, ov.Stats.TotalRevenue, ov.Stats.TotalPayments)

	fmt.Fprintln(a.out, strings.Repeat("-", 60))
	for _, u := range ov.Users {
		flags := ""
		if u.IsAdmin {
			flags += " admin"
		}
		if !u.IsActive {
			flags += " inactive"
		}
		fmt.Fprintf(a.out, "#%-6d %-20s %-30s %6d cr%s\n", u.ID, u.Username, u.Email, u.Credits, flags)
	}

	fmt.Fprintln(a.out, strings.Repeat("-", 60))
	for _, p := range ov.Payments {
		a.printPayment(p)
	}
	return nil
}

func parseUserID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("user id must be a positive number")
	}
	return id, nil
}

func (a *App) deleteUserView(ctx context.Context, arg string) error {
	id, verr := parseUserID(arg)
	if verr != nil {
		a.flashError(verr.Error())
		return nil
	}

	if err := a.admin.DeleteUser(ctx, id); err != nil {
		a.flashError(api.Detail(err, "Failed to delete user"))
		return nil
	}
	fmt.Fprintf(a.out, "User %d deleted\n", id)
	return nil
}

// adjustCreditsView grants or deducts credits on a user's account and
// reports the server-computed balance. The profile refresh afterwards is
// awaited in case the admin adjusted their own account.
func (a *App) adjustCreditsView(ctx context.Context, grant bool, idArg, amountArg string) error {
	id, verr := parseUserID(idArg)
	if verr != nil {
		a.flashError(verr.Error())
		return nil
	}
	amount, verr := parsePositiveInt(amountArg)
	if verr != nil {
		a.flashError(verr.Error())
		return nil
	}

	var err error
	var newBalance int64
	if grant {
		adj, gerr := a.admin.GrantCredits(ctx, id, amount)
		if gerr == nil {
			newBalance = adj.NewBalance
		}
		err = gerr
	} else {
		adj, derr := a.admin.DeductCredits(ctx, id, amount)
		if derr == nil {
			newBalance = adj.NewBalance
		}
		err = derr
	}
	if err != nil {
		a.flashError(api.Detail(err, "Credit adjustment failed"))
		return nil
	}

	fmt.Fprintf(a.out, "User %d balance is now %d credits\n", id, newBalance)

	if err := a.session.RefreshUser(ctx); err != nil {
		a.log.Warn(ctx, "profile refresh after adjustment failed", "error", err)
	}
	return nil
}

func (a *App) userPaymentsView(ctx context.Context, arg string) error {
	id, verr := parseUserID(arg)
	if verr != nil {
		a.flashError(verr.Error())
		return nil
	}

	list, err := a.admin.UserPayments(ctx, id)
	if err != nil {
		a.flashError(api.Detail(err, "Failed to fetch payments"))
		return nil
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No payments")
		return nil
	}
	for _, p := range list {
		a.printPayment(p)
	}
	return nil
}
