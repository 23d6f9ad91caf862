package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"cardlink/internal/apperr"
	"cardlink/internal/domain"
	"cardlink/pkg/utils"
)

const proCardLimit = 10

// AccountService owns registration-on-first-login and the plan upgrade.
type AccountService struct {
	users    domain.UserRepository
	settings domain.SettingsRepository
	log      *zap.Logger
}

func NewAccountService(users domain.UserRepository, settings domain.SettingsRepository, log *zap.Logger) *AccountService {
	return &AccountService{users: users, settings: settings, log: log}
}

// Login finds the account by email or registers it on first sight with the
// free plan and the settings-backed card limit.
func (s *AccountService) Login(ctx context.Context, email, password, name string) (*domain.UserAccount, bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, false, apperr.InvalidArgument("email and password are required")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, apperr.Internal("load account failed", err)
	}
	if u != nil {
		if !utils.CheckPassword(password, u.PasswordHash) {
			return nil, false, apperr.Unauthenticated("invalid credentials")
		}
		return u, false, nil
	}

	if name = strings.TrimSpace(name); name == "" {
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		} else {
			name = "user"
		}
	}
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, false, apperr.Internal("load settings failed", err)
	}
	now := time.Now()
	u = &domain.UserAccount{
		ID:           utils.NewID(),
		Email:        email,
		Name:         name,
		PasswordHash: utils.HashPassword(password),
		Role:         domain.RoleUser,
		Plan:         domain.PlanFree,
		CardLimit:    cfg.LimitFor(domain.PlanFree),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// Unique-email race: the other creator won, read their row.
		if u2, e2 := s.users.FindByEmail(ctx, email); e2 == nil && u2 != nil {
			return u2, false, nil
		}
		return nil, false, apperr.Internal("register account failed", err)
	}
	return u, true, nil
}

// UpgradeResult is the callable response for upgradePlan.
type UpgradeResult struct {
	Plan      string `json:"plan"`
	CardLimit int    `json:"cardLimit"`
}

// Upgrade records the pro plan. Payment processing is an external
// collaborator; only token presence is checked here, which is the seam a
// real processor plugs into.
func (s *AccountService) Upgrade(ctx context.Context, p *domain.Principal, paymentToken string) (UpgradeResult, error) {
	if p == nil {
		return UpgradeResult{}, apperr.Unauthenticated("sign in required")
	}
	if strings.TrimSpace(paymentToken) == "" {
		return UpgradeResult{}, apperr.InvalidArgument("paymentToken is required")
	}
	s.log.Info("plan upgrade",
		zap.String("user", p.ID),
		zap.String("token", utils.MaskToken(paymentToken)),
	)
	if err := s.users.SetPlan(ctx, p.ID, domain.PlanPro, proCardLimit, time.Now()); err != nil {
		return UpgradeResult{}, apperr.Internal("plan upgrade failed", err)
	}
	return UpgradeResult{Plan: domain.PlanPro, CardLimit: proCardLimit}, nil
}

// Get returns the account for a principal id.
func (s *AccountService) Get(ctx context.Context, id string) (*domain.UserAccount, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load account failed", err)
	}
	if u == nil {
		return nil, apperr.NotFound("account not found")
	}
	return u, nil
}
