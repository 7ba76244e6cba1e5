package cli

import (
	"context"
	"fmt"

	"github.com/acemate/acemate-cli/internal/client/api"
	"github.com/acemate/acemate-cli/internal/client/services"
)

func (a *App) dashboardView(ctx context.Context) error {
	snap := a.session.Current()
	fmt.Fprintf(a.out, "Signed in as %s <%s>\n", snap.User.Username, snap.User.Email)
	fmt.Fprintf(a.out, "Credit balance: %d\n", snap.User.Credits)
	if snap.User.IsAdmin {
		fmt.Fprintln(a.out, "Admin console available: type 'admin'")
	}
	fmt.Fprintln(a.out, "Buy credits with 'buy', review payments with 'history'")
	return nil
}

// buyView runs the credit purchase flow: validate the amount locally, create
// the payment, then refresh the profile before confirming — the balance
// shown at success time is the server's, never a local computation.
func (a *App) buyView(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "Amount in USD", a.out)
	if err != nil {
		return err
	}
	amount, verr := parsePositiveAmount(raw)
	if verr != nil {
		a.flashError(verr.Error())
		return nil
	}

	fmt.Fprintf(a.out, "Purchasing %d credits for $%.2f...\n", services.DisplayCredits(amount), amount)

	payment, err := a.payments.Create(ctx, amount)
	if err != nil {
		a.flashError(api.Detail(err, "Payment failed"))
		return nil
	}

	if err := a.session.RefreshUser(ctx); err != nil {
		fmt.Fprintf(a.out, "Payment %s (id %d); balance refresh failed, shown balance may be stale\n",
			payment.Status, payment.ID)
		return nil
	}

	snap := a.session.Current()
	fmt.Fprintf(a.out, "Payment %s (id %d). New balance: %d credits\n",
		payment.Status, payment.ID, snap.User.Credits)
	return nil
}

// balanceView shows the server-side balance directly.
func (a *App) balanceView(ctx context.Context) error {
	b, err := a.credits.Balance(ctx)
	if err != nil {
		a.flashError(api.Detail(err, "Failed to fetch balance"))
		return nil
	}
	fmt.Fprintf(a.out, "Credit balance: %d\n", b.Credits)
	return nil
}

func (a *App) addCreditsView(ctx context.Context, arg string) error {
	amount, verr := parsePositiveInt(arg)
	if verr != nil {
		a.flashError(verr.Error())
		return nil
	}

	if _, err := a.credits.Add(ctx, amount); err != nil {
		a.flashError(api.Detail(err, "Failed to add credits"))
		return nil
	}
	return a.reportBalance(ctx, "Credits added")
}

func (a *App) useCreditsView(ctx context.Context, arg string) error {
	amount, verr := parsePositiveInt(arg)
	if verr != nil {
		a.flashError(verr.Error())
		return nil
	}

	// The server rejects overdrafts; no local clamping that would hide
	// the rejection.
	if _, err := a.credits.Deduct(ctx, amount); err != nil {
		a.flashError(api.Detail(err, "Failed to deduct credits"))
		return nil
	}
	return a.reportBalance(ctx, "Credits deducted")
}

// reportBalance awaits a profile refresh and then confirms with the
// authoritative balance.
func (a *App) reportBalance(ctx context.Context, action string) error {
	if err := a.session.RefreshUser(ctx); err != nil {
		fmt.Fprintf(a.out, "%s; balance refresh failed, shown balance may be stale\n", action)
		return nil
	}
	snap := a.session.Current()
	fmt.Fprintf(a.out, "%s. New balance: %d credits\n", action, snap.User.Credits)
	return nil
}
