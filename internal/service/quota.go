package service

import (
	"context"

	"cardlink/internal/apperr"
	"cardlink/internal/domain"
)

// QuotaStatus is what the client sees after a quota check.
type QuotaStatus struct {
	Allowed bool `json:"allowed"`
	Current int  `json:"current"`
	Limit   int  `json:"limit"`
}

// QuotaGuard enforces the per-plan published-card limit. The check and the
// subsequent create are not atomic; a same-owner create race can overshoot
// by one.
type QuotaGuard struct {
	cards    domain.CardRepository
	users    domain.UserRepository
	settings domain.SettingsRepository
}

func NewQuotaGuard(cards domain.CardRepository, users domain.UserRepository, settings domain.SettingsRepository) *QuotaGuard {
	return &QuotaGuard{cards: cards, users: users, settings: settings}
}

// Check reports the owner's standing without failing on an exhausted quota.
func (g *QuotaGuard) Check(ctx context.Context, ownerID string) (QuotaStatus, error) {
	current, err := g.cards.CountPublishedByOwner(ctx, ownerID)
	if err != nil {
		return QuotaStatus{}, apperr.Internal("count cards failed", err)
	}
	limit, err := g.limitFor(ctx, ownerID)
	if err != nil {
		return QuotaStatus{}, err
	}
	return QuotaStatus{
		Allowed: int(current) < limit,
		Current: int(current),
		Limit:   limit,
	}, nil
}

// Enforce fails with QuotaExceeded when the owner is at or above the limit.
func (g *QuotaGuard) Enforce(ctx context.Context, ownerID string) error {
	st, err := g.Check(ctx, ownerID)
	if err != nil {
		return err
	}
	if !st.Allowed {
		return apperr.QuotaExceeded(st.Current, st.Limit)
	}
	return nil
}

// limitFor prefers the per-account limit (set at registration or upgrade)
// and falls back to the plan default from the settings document.
func (g *QuotaGuard) limitFor(ctx context.Context, ownerID string) (int, error) {
	u, err := g.users.FindByID(ctx, ownerID)
	if err != nil {
		return 0, apperr.Internal("load account failed", err)
	}
	if u != nil && u.CardLimit > 0 {
		return u.CardLimit, nil
	}
	s, err := g.settings.Get(ctx)
	if err != nil {
		return 0, apperr.Internal("load settings failed", err)
	}
	plan := domain.PlanFree
	if u != nil {
		plan = u.Plan
	}
	return s.LimitFor(plan), nil
}
