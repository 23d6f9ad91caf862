// Package memory provides in-memory implementations of the domain
// repository ports. They back the service tests; production wiring uses
// the gorm repositories instead.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"cardlink/internal/domain"
)

type CardRepo struct {
	mu    sync.RWMutex
	cards map[string]domain.Card
}

func NewCardRepo() *CardRepo { return &CardRepo{cards: map[string]domain.Card{}} }

func (r *CardRepo) Create(_ context.Context, c *domain.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards[c.ID] = *c
	return nil
}

func (r *CardRepo) FindByID(_ context.Context, id string) (*domain.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.cards[id]; ok {
		out := c
		return &out, nil
	}
	return nil, nil
}

func (r *CardRepo) FindBySlug(_ context.Context, slug string) (*domain.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.cards {
		if c.Slug == slug {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

func (r *CardRepo) ListByOwner(_ context.Context, ownerID string, publishedOnly bool) ([]domain.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Card
	for _, c := range r.cards {
		if c.OwnerID != ownerID {
			continue
		}
		if publishedOnly && !c.Published {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *CardRepo) CountPublishedByOwner(_ context.Context, ownerID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, c := range r.cards {
		if c.OwnerID == ownerID && c.Published {
			n++
		}
	}
	return n, nil
}

func (r *CardRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.cards {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *CardRepo) Update(_ context.Context, c *domain.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards[c.ID] = *c
	return nil
}

func (r *CardRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[id]; !ok {
		return false, nil
	}
	delete(r.cards, id)
	return true, nil
}

type UserRepo struct {
	mu    sync.RWMutex
	users map[string]domain.UserAccount
}

func NewUserRepo() *UserRepo { return &UserRepo{users: map[string]domain.UserAccount{}} }

func (r *UserRepo) Create(_ context.Context, u *domain.UserAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepo) FindByID(_ context.Context, id string) (*domain.UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		out := u
		return &out, nil
	}
	return nil, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*domain.UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(_ context.Context, q string, offset, limit int) ([]domain.UserAccount, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []domain.UserAccount
	for _, u := range r.users {
		if q == "" || strings.Contains(u.Email, q) || strings.Contains(u.Name, q) {
			all = append(all, u)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *UserRepo) Update(_ context.Context, u *domain.UserAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepo) SetPlan(_ context.Context, id, plan string, cardLimit int, upgradedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	u.Plan = plan
	u.CardLimit = cardLimit
	t := upgradedAt
	u.UpgradedAt = &t
	r.users[id] = u
	return nil
}

func (r *UserRepo) DecrementCardCount(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.CardsCreated <= 0 {
		return nil
	}
	u.CardsCreated--
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

func (r *UserRepo) IncrementCardCount(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	u.CardsCreated++
	r.users[id] = u
	return nil
}

type StatRepo struct {
	mu    sync.RWMutex
	stats map[string]domain.CardStat
}

func NewStatRepo() *StatRepo { return &StatRepo{stats: map[string]domain.CardStat{}} }

func (r *StatRepo) FindByCardID(_ context.Context, cardID string) (*domain.CardStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.stats[cardID]; ok {
		out := s
		return &out, nil
	}
	return nil, nil
}

func (r *StatRepo) increment(cardID, ownerID string, bump func(*domain.CardStat)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	s, ok := r.stats[cardID]
	if !ok {
		s = domain.CardStat{CardID: cardID, OwnerID: ownerID, CreatedAt: now}
	}
	bump(&s)
	s.UpdatedAt = now
	r.stats[cardID] = s
	return nil
}

func (r *StatRepo) IncrementViews(_ context.Context, cardID, ownerID string) error {
	return r.increment(cardID, ownerID, func(s *domain.CardStat) { s.Views++ })
}

func (r *StatRepo) IncrementDownloads(_ context.Context, cardID, ownerID string) error {
	return r.increment(cardID, ownerID, func(s *domain.CardStat) { s.Downloads++ })
}

func (r *StatRepo) IncrementShares(_ context.Context, cardID, ownerID string) error {
	return r.increment(cardID, ownerID, func(s *domain.CardStat) { s.Shares++ })
}

func (r *StatRepo) Delete(_ context.Context, cardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stats, cardID)
	return nil
}

type ViewRepo struct {
	mu    sync.Mutex
	views []domain.CardView
}

func NewViewRepo() *ViewRepo { return &ViewRepo{} }

func (r *ViewRepo) Append(_ context.Context, v *domain.CardView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.ID = uint(len(r.views) + 1)
	v.CreatedAt = time.Now()
	r.views = append(r.views, *v)
	return nil
}

func (r *ViewRepo) CountByCard(_ context.Context, cardID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, v := range r.views {
		if v.CardID == cardID {
			n++
		}
	}
	return n, nil
}

type SettingsRepo struct {
	mu sync.RWMutex
	s  domain.Settings
}

func NewSettingsRepo(s domain.Settings) *SettingsRepo { return &SettingsRepo{s: s} }

func (r *SettingsRepo) Get(_ context.Context) (*domain.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.s
	return &out, nil
}

func (r *SettingsRepo) Save(_ context.Context, s *domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s = *s
	return nil
}
