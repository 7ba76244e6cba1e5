package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/acemate/acemate-cli/internal/client/api"
	"github.com/acemate/acemate-cli/internal/client/models"
	"github.com/acemate/acemate-cli/internal/client/services"
)

// historyView lists the user's payments newest-first, optionally filtered by
// status (completed, pending, failed).
func (a *App) historyView(ctx context.Context, status string) error {
	list, err := a.payments.History(ctx)
	if err != nil {
		a.flashError(api.Detail(err, "Failed to fetch payment history"))
		return nil
	}

	list = services.FilterByStatus(list, status)
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No payments")
		return nil
	}

	for _, p := range list {
		a.printPayment(p)
	}
	return nil
}

func (a *App) printPayment(p models.Payment) {
	fmt.Fprintf(a.out, "#%-6d $%-8.2f %-10s %s\n",
		p.ID, p.Amount, p.Status, p.Timestamp.Format(time.RFC3339))
}
