package services

import (
	"context"

	"github.com/acemate/acemate-cli/internal/client/api"
	"github.com/acemate/acemate-cli/internal/client/models"
)

// CreditService wraps the self-service credit endpoints. Amount validation
// (positive, within bounds) happens in form-handling code before these are
// called; the server remains authoritative and its rejections surface as API
// errors.
type CreditService struct {
	api api.Client
}

func NewCreditService(apiClient api.Client) *CreditService {
	return &CreditService{api: apiClient}
}

func (s *CreditService) Balance(ctx context.Context) (*models.CreditBalance, error) {
	return s.api.CreditBalance(ctx)
}

func (s *CreditService) Add(ctx context.Context, amount int64) (*models.CreditEntry, error) {
	return s.api.AddCredits(ctx, amount)
}

func (s *CreditService) Deduct(ctx context.Context, amount int64) (*models.CreditEntry, error) {
	return s.api.DeductCredits(ctx, amount)
}
