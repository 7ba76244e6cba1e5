package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) prompt() string {
	snap := a.session.Current()
	status := ""
	if snap.User != nil {
		status = fmt.Sprintf("(%s %d cr) ", snap.User.Username, snap.User.Credits)
	}
	return fmt.Sprintf("acemate %s> ", status)
}

// repl is the interactive loop. It reads a line, parses the first token as
// the command, and dispatches. The loop exits on EOF or "exit"/"quit".
// Handlers surface their own errors through the flash line; the loop stays
// resilient and focused on I/O.
func (a *App) repl(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to AceMate (type 'help' for commands)")

	for {
		if f := a.takeFlash(); f != "" {
			fmt.Fprintln(a.out, "! "+f)
		}
		fmt.Fprint(a.out, a.prompt())

		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		if a.dispatch(ctx, parts[0], parts[1:]) {
			return
		}
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// dispatch executes one command. It reports true when the REPL should exit.
func (a *App) dispatch(ctx context.Context, cmd string, args []string) bool {
	switch cmd {
	case "help":
		a.help()

	case "login":
		_ = a.loginView(ctx)

	case "register":
		_ = a.registerView(ctx)

	case "dashboard", "d":
		_ = a.open(ctx, false, a.dashboardView)

	case "buy":
		_ = a.open(ctx, false, a.buyView)

	case "history":
		status := firstArg(args)
		_ = a.open(ctx, false, func(ctx context.Context) error {
			return a.historyView(ctx, status)
		})

	case "balance":
		_ = a.open(ctx, false, a.balanceView)

	case "addcredits":
		arg := firstArg(args)
		_ = a.open(ctx, false, func(ctx context.Context) error {
			return a.addCreditsView(ctx, arg)
		})

	case "usecredits":
		arg := firstArg(args)
		_ = a.open(ctx, false, func(ctx context.Context) error {
			return a.useCreditsView(ctx, arg)
		})

	case "profile":
		_ = a.open(ctx, false, a.profileView)

	case "admin":
		_ = a.open(ctx, true, a.adminView)

	case "deluser":
		arg := firstArg(args)
		_ = a.open(ctx, true, func(ctx context.Context) error {
			return a.deleteUserView(ctx, arg)
		})

	case "grant", "deduct":
		if len(args) < 2 {
			fmt.Fprintf(a.out, "Usage: %s <user-id> <amount>\n", cmd)
			return false
		}
		grant := cmd == "grant"
		idArg, amountArg := args[0], args[1]
		_ = a.open(ctx, true, func(ctx context.Context) error {
			return a.adjustCreditsView(ctx, grant, idArg, amountArg)
		})

	case "userpayments":
		arg := firstArg(args)
		_ = a.open(ctx, true, func(ctx context.Context) error {
			return a.userPaymentsView(ctx, arg)
		})

	case "logout":
		a.session.Logout(ctx)
		// A deliberate logout is not an expiry; drop the notification the
		// session-change hook raised.
		a.clearFlash()
		fmt.Fprintln(a.out, "Logged out")

	case "exit", "quit":
		fmt.Fprintln(a.out, "Bye!")
		return true

	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
	}
	return false
}

func (a *App) help() {
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(a.out, "Available commands: login, register, exit")
		return
	}
	fmt.Fprintln(a.out, "Available commands: (d)ashboard, buy, history [status], balance, addcredits <n>, usecredits <n>, profile, logout, exit")
	if a.session.IsAdmin() {
		fmt.Fprintln(a.out, "Admin commands: admin, deluser <id>, grant <id> <n>, deduct <id> <n>, userpayments <id>")
	}
}
