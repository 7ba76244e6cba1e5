// Package services contains the application services behind the REPL views.
// Each service is a thin layer over the API client: it owns presentation
// concerns (local ordering, display conversions) but never business rules,
// which live in the backend.
package services

import (
	"context"
	"sort"

	"github.com/acemate/acemate-cli/internal/client/api"
	"github.com/acemate/acemate-cli/internal/client/models"
)

// CreditsPerUSD is the advertised purchase rate. It is a display convention
// only: the persisted balance always comes from the server, never from a
// local multiplication.
const CreditsPerUSD = 10

// DisplayCredits converts a USD amount to the credits it buys, for
// confirmation prompts.
func DisplayCredits(amountUSD float64) int64 {
	return int64(amountUSD * CreditsPerUSD)
}

type PaymentService struct {
	api api.Client
}

func NewPaymentService(apiClient api.Client) *PaymentService {
	return &PaymentService{api: apiClient}
}

// Create initiates a credit purchase. The server applies the credit grant
// atomically for completed payments; the caller must refresh the profile
// before confirming success to the user.
func (s *PaymentService) Create(ctx context.Context, amountUSD float64) (*models.Payment, error) {
	return s.api.CreatePayment(ctx, amountUSD)
}

// History returns the current user's payments sorted newest-first. The
// server does not guarantee ordering.
func (s *PaymentService) History(ctx context.Context) ([]models.Payment, error) {
	list, err := s.api.PaymentHistory(ctx)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(list)
	return list, nil
}

// SortNewestFirst orders payments by timestamp descending, in place.
func SortNewestFirst(list []models.Payment) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Timestamp.After(list[j].Timestamp)
	})
}

// FilterByStatus returns the payments matching status; an empty status
// returns the input unchanged.
func FilterByStatus(list []models.Payment, status string) []models.Payment {
	if status == "" {
		return list
	}
	out := make([]models.Payment, 0, len(list))
	for _, p := range list {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}
