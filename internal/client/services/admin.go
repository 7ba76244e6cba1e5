package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/acemate/acemate-cli/internal/client/api"
	"github.com/acemate/acemate-cli/internal/client/models"
)

// AdminService wraps the admin-only endpoints. Privilege enforcement is the
// backend's job; the route guard only keeps non-admin views from rendering.
type AdminService struct {
	api api.Client
}

func NewAdminService(apiClient api.Client) *AdminService {
	return &AdminService{api: apiClient}
}

// Overview is the admin landing data: aggregates, every user, every payment.
type Overview struct {
	Stats    *models.DashboardStats
	Users    []models.User
	Payments []models.Payment
}

// Overview fetches its three parts concurrently and joins the results.
// Failure of any one fetch fails the whole call with a single error.
func (s *AdminService) Overview(ctx context.Context) (*Overview, error) {
	var ov Overview

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.api.AdminDashboard(ctx)
		if err != nil {
			return err
		}
		ov.Stats = stats
		return nil
	})
	g.Go(func() error {
		users, err := s.api.AdminUsers(ctx)
		if err != nil {
			return err
		}
		ov.Users = users
		return nil
	})
	g.Go(func() error {
		payments, err := s.api.AdminPayments(ctx)
		if err != nil {
			return err
		}
		SortNewestFirst(payments)
		ov.Payments = payments
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ov, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, userID int64) error {
	return s.api.AdminDeleteUser(ctx, userID)
}

func (s *AdminService) GrantCredits(ctx context.Context, userID, amount int64) (*models.CreditAdjustment, error) {
	return s.api.AdminGrantCredits(ctx, userID, amount)
}

func (s *AdminService) DeductCredits(ctx context.Context, userID, amount int64) (*models.CreditAdjustment, error) {
	return s.api.AdminDeductCredits(ctx, userID, amount)
}

// UserPayments lists one user's payments, newest first.
func (s *AdminService) UserPayments(ctx context.Context, userID int64) ([]models.Payment, error) {
	list, err := s.api.AdminUserPayments(ctx, userID)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(list)
	return list, nil
}
