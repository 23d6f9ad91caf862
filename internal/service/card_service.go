package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"cardlink/internal/apperr"
	"cardlink/internal/domain"
	"cardlink/pkg/utils"
)

// CreateCardInput is the tagged payload for card creation. Slug is
// optional; when empty the allocator derives one from Name.
type CreateCardInput struct {
	Slug      string `json:"slug"`
	Published bool   `json:"published"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Title     string `json:"title"`
	Company   string `json:"company"`
	Address   string `json:"address"`
	PhotoURL  string `json:"photoUrl"`
	Theme     string `json:"theme"`
}

type CardService struct {
	cards domain.CardRepository
	users domain.UserRepository
	stats domain.StatRepository
	views domain.ViewRepository
	slugs *SlugAllocator
	quota *QuotaGuard
	log   *zap.Logger

	// injectable for deterministic tests of slug-collision handling on update
	randSuffix func() int
}

func NewCardService(
	cards domain.CardRepository,
	users domain.UserRepository,
	stats domain.StatRepository,
	views domain.ViewRepository,
	slugs *SlugAllocator,
	quota *QuotaGuard,
	log *zap.Logger,
) *CardService {
	return &CardService{
		cards:      cards,
		users:      users,
		stats:      stats,
		views:      views,
		slugs:      slugs,
		quota:      quota,
		log:        log,
		randSuffix: func() int { return rand.Intn(9000) + 1000 },
	}
}

// GetByID fetches a card, applies the visibility policy and records a
// non-owner view best-effort.
func (s *CardService) GetByID(ctx context.Context, cardID string, p *domain.Principal) (*domain.Card, error) {
	card, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		return nil, apperr.Internal("load card failed", err)
	}
	if card == nil {
		return nil, apperr.NotFound("card not found")
	}
	if !CanRead(card, p) {
		return nil, apperr.PermissionDenied("card is not public")
	}
	s.recordView(ctx, card, "", p)
	return card, nil
}

// GetBySlug is GetByID keyed by slug; the slug is kept on the analytics
// event.
func (s *CardService) GetBySlug(ctx context.Context, slug string, p *domain.Principal) (*domain.Card, error) {
	card, err := s.cards.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.Internal("load card failed", err)
	}
	if card == nil {
		return nil, apperr.NotFound("card not found")
	}
	if !CanRead(card, p) {
		return nil, apperr.PermissionDenied("card is not public")
	}
	s.recordView(ctx, card, slug, p)
	return card, nil
}

// GetPublishedBySlug backs the vCard download: unpublished cards are
// indistinguishable from absent ones.
func (s *CardService) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Card, error) {
	card, err := s.cards.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.Internal("load card failed", err)
	}
	if card == nil || !card.Published {
		return nil, apperr.NotFound("no published card with that slug")
	}
	return card, nil
}

// ListForUser returns the caller's own cards in full, or only the
// published cards of another user.
func (s *CardService) ListForUser(ctx context.Context, p *domain.Principal, userID string) ([]domain.Card, error) {
	if p == nil {
		return nil, apperr.Unauthenticated("sign in required")
	}
	if userID == "" {
		userID = p.ID
	}
	cards, err := s.cards.ListByOwner(ctx, userID, userID != p.ID)
	if err != nil {
		return nil, apperr.Internal("list cards failed", err)
	}
	return cards, nil
}

func (s *CardService) Create(ctx context.Context, p *domain.Principal, in CreateCardInput) (*domain.Card, error) {
	if p == nil {
		return nil, apperr.Unauthenticated("sign in required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.InvalidArgument("name is required")
	}
	if err := s.quota.Enforce(ctx, p.ID); err != nil {
		return nil, err
	}

	base := in.Slug
	if base == "" {
		base = in.Name
	}
	slug, err := s.slugs.Allocate(ctx, base)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	card := &domain.Card{
		ID:        utils.NewID(),
		OwnerID:   p.ID,
		Slug:      slug,
		Published: in.Published,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Title:     in.Title,
		Company:   in.Company,
		Address:   in.Address,
		PhotoURL:  in.PhotoURL,
		Theme:     in.Theme,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, apperr.Internal("create card failed", err)
	}
	if err := s.users.IncrementCardCount(ctx, p.ID); err != nil {
		s.log.Warn("card counter increment failed", zap.String("owner", p.ID), zap.Error(err))
	}
	return card, nil
}

func (s *CardService) Update(ctx context.Context, p *domain.Principal, cardID string, patch domain.CardPatch) (*domain.Card, error) {
	card, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		return nil, apperr.Internal("load card failed", err)
	}
	if card == nil {
		return nil, apperr.NotFound("card not found")
	}
	if p == nil {
		return nil, apperr.Unauthenticated("sign in required")
	}
	if !CanWrite(card, p) {
		return nil, apperr.PermissionDenied("not the card owner")
	}

	if patch.Slug != nil {
		want := strings.TrimSpace(*patch.Slug)
		if want != "" && want != card.Slug {
			slug, err := s.dedupeSlug(ctx, want)
			if err != nil {
				return nil, err
			}
			card.Slug = slug
		}
	}
	if patch.Published != nil {
		card.Published = *patch.Published
	}
	if patch.Name != nil {
		card.Name = *patch.Name
	}
	if patch.Email != nil {
		card.Email = *patch.Email
	}
	if patch.Phone != nil {
		card.Phone = *patch.Phone
	}
	if patch.Title != nil {
		card.Title = *patch.Title
	}
	if patch.Company != nil {
		card.Company = *patch.Company
	}
	if patch.Address != nil {
		card.Address = *patch.Address
	}
	if patch.PhotoURL != nil {
		card.PhotoURL = *patch.PhotoURL
	}
	if patch.Theme != nil {
		card.Theme = *patch.Theme
	}

	card.UpdatedAt = time.Now()
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, apperr.Internal("update card failed", err)
	}
	return card, nil
}

func (s *CardService) Delete(ctx context.Context, p *domain.Principal, cardID string) error {
	card, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		return apperr.Internal("load card failed", err)
	}
	if card == nil {
		return apperr.NotFound("card not found")
	}
	if p == nil {
		return apperr.Unauthenticated("sign in required")
	}
	if !CanWrite(card, p) {
		return apperr.PermissionDenied("not the card owner")
	}

	ok, err := s.cards.Delete(ctx, cardID)
	if err != nil {
		return apperr.Internal("delete card failed", err)
	}
	if !ok {
		return apperr.NotFound("card not found")
	}
	if err := s.users.DecrementCardCount(ctx, card.OwnerID); err != nil {
		return apperr.Internal("card counter decrement failed", err)
	}
	// Stat cleanup is best-effort; view history is kept on purpose.
	if err := s.stats.Delete(ctx, cardID); err != nil {
		s.log.Warn("stat cleanup failed", zap.String("card", cardID), zap.Error(err))
	}
	return nil
}

// RecordDownload bumps the download counter best-effort after a vCard is
// served; it never fails the download.
func (s *CardService) RecordDownload(ctx context.Context, card *domain.Card) {
	if err := s.stats.IncrementDownloads(ctx, card.ID, card.OwnerID); err != nil {
		s.log.Warn("download counter failed", zap.String("card", card.ID), zap.Error(err))
	}
}

// RecordShare bumps the share counter for a published card.
func (s *CardService) RecordShare(ctx context.Context, p *domain.Principal, cardID string) error {
	card, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		return apperr.Internal("load card failed", err)
	}
	if card == nil {
		return apperr.NotFound("card not found")
	}
	if !card.Published && !p.IsOwnerOf(card) {
		return apperr.PermissionDenied("card is not public")
	}
	if err := s.stats.IncrementShares(ctx, card.ID, card.OwnerID); err != nil {
		return apperr.Internal("share counter failed", err)
	}
	return nil
}

// recordView appends the analytics event and bumps the view counter for
// non-owner reads. Failures are logged and swallowed so the read itself
// never suffers.
func (s *CardService) recordView(ctx context.Context, card *domain.Card, slug string, p *domain.Principal) {
	if p.IsOwnerOf(card) {
		return
	}
	viewer := domain.AnonymousViewer
	if p != nil {
		viewer = p.ID
	}
	if err := s.views.Append(ctx, &domain.CardView{CardID: card.ID, Slug: slug, ViewerID: viewer}); err != nil {
		s.log.Warn("view log failed", zap.String("card", card.ID), zap.Error(err))
	}
	if err := s.stats.IncrementViews(ctx, card.ID, card.OwnerID); err != nil {
		s.log.Warn("view counter failed", zap.String("card", card.ID), zap.Error(err))
	}
}

// dedupeSlug is the update-path collision policy: unlike creation's
// incrementing probe, a taken slug gets a random numeric suffix.
func (s *CardService) dedupeSlug(ctx context.Context, want string) (string, error) {
	taken, err := s.cards.SlugExists(ctx, want)
	if err != nil {
		return "", apperr.Internal("slug probe failed", err)
	}
	if !taken {
		return want, nil
	}
	return fmt.Sprintf("%s-%d", want, s.randSuffix()), nil
}
