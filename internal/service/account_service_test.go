package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cardlink/internal/apperr"
	"cardlink/internal/domain"
	"cardlink/internal/repo/memory"
)

func newAccountFixture() (*AccountService, *memory.UserRepo) {
	users := memory.NewUserRepo()
	settings := memory.NewSettingsRepo(domain.Settings{FreeCardLimit: 1, ProCardLimit: 10})
	return NewAccountService(users, settings, zap.NewNop()), users
}

func TestLoginRegistersOnFirstSight(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountFixture()

	u, isNew, err := svc.Login(ctx, "Jane@Example.com", "s3cret", "")
	require.NoError(t, err)
	require.True(t, isNew)
	require.Equal(t, "jane@example.com", u.Email)
	require.Equal(t, "jane", u.Name)
	require.Equal(t, domain.PlanFree, u.Plan)
	require.Equal(t, 1, u.CardLimit)
	require.Equal(t, 0, u.CardsCreated)
}

func TestLoginExistingAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountFixture()

	first, _, err := svc.Login(ctx, "jane@example.com", "s3cret", "Jane")
	require.NoError(t, err)

	again, isNew, err := svc.Login(ctx, "jane@example.com", "s3cret", "")
	require.NoError(t, err)
	require.False(t, isNew)
	require.Equal(t, first.ID, again.ID)

	_, _, err = svc.Login(ctx, "jane@example.com", "wrong", "")
	require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestLoginValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountFixture()

	_, _, err := svc.Login(ctx, "", "pw", "")
	require.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	_, _, err = svc.Login(ctx, "a@b.c", "", "")
	require.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestUpgradeRequiresPrincipalAndToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountFixture()

	_, err := svc.Upgrade(ctx, nil, "tok_123")
	require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	_, err = svc.Upgrade(ctx, &domain.Principal{ID: "u1"}, "   ")
	require.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestUpgradeSetsProPlan(t *testing.T) {
	ctx := context.Background()
	svc, users := newAccountFixture()

	u, _, err := svc.Login(ctx, "jane@example.com", "s3cret", "")
	require.NoError(t, err)

	res, err := svc.Upgrade(ctx, &domain.Principal{ID: u.ID}, "tok_123")
	require.NoError(t, err)
	require.Equal(t, domain.PlanPro, res.Plan)
	require.Equal(t, 10, res.CardLimit)

	stored, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PlanPro, stored.Plan)
	require.Equal(t, 10, stored.CardLimit)
	require.NotNil(t, stored.UpgradedAt)
}
