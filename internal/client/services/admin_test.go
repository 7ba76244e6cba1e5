package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acemate/acemate-cli/internal/client/api"
	"github.com/acemate/acemate-cli/internal/client/models"
)

type fakeAdminAPI struct {
	api.Client

	dashboardFn func(ctx context.Context) (*models.DashboardStats, error)
	usersFn     func(ctx context.Context) ([]models.User, error)
	paymentsFn  func(ctx context.Context) ([]models.Payment, error)
}

func (f *fakeAdminAPI) AdminDashboard(ctx context.Context) (*models.DashboardStats, error) {
	return f.dashboardFn(ctx)
}

func (f *fakeAdminAPI) AdminUsers(ctx context.Context) ([]models.User, error) {
	return f.usersFn(ctx)
}

func (f *fakeAdminAPI) AdminPayments(ctx context.Context) ([]models.Payment, error) {
	return f.paymentsFn(ctx)
}

func TestOverview_JoinsAllThreeFetches(t *testing.T) {
	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	f := &fakeAdminAPI{
		dashboardFn: func(context.Context) (*models.DashboardStats, error) {
			return &models.DashboardStats{TotalUsers: 2, TotalCredits: 170, TotalRevenue: 25, TotalPayments: 2}, nil
		},
		usersFn: func(context.Context) ([]models.User, error) {
			return []models.User{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}}, nil
		},
		paymentsFn: func(context.Context) ([]models.Payment, error) {
			return []models.Payment{
				paymentAt(1, models.PaymentCompleted, base),
				paymentAt(2, models.PaymentCompleted, base.Add(time.Hour)),
			}, nil
		},
	}

	ov, err := NewAdminService(f).Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), ov.Stats.TotalUsers)
	require.Len(t, ov.Users, 2)

	// Payments arrive newest-first.
	require.Equal(t, int64(2), ov.Payments[0].ID)
	require.Equal(t, int64(1), ov.Payments[1].ID)
}

func TestOverview_AnyFailureFailsTheJoin(t *testing.T) {
	f := &fakeAdminAPI{
		dashboardFn: func(context.Context) (*models.DashboardStats, error) {
			return &models.DashboardStats{}, nil
		},
		usersFn: func(context.Context) ([]models.User, error) {
			return nil, errors.New("users fetch failed")
		},
		paymentsFn: func(context.Context) ([]models.Payment, error) {
			return nil, nil
		},
	}

	ov, err := NewAdminService(f).Overview(context.Background())
	require.Error(t, err)
	require.Nil(t, ov)
}
