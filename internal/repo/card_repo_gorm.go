package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"cardlink/internal/domain"
)

type CardRepo struct{ db *gorm.DB }

func NewCardRepo(db *gorm.DB) *CardRepo { return &CardRepo{db: db} }

func (r *CardRepo) Create(ctx context.Context, c *domain.Card) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CardRepo) FindByID(ctx context.Context, id string) (*domain.Card, error) {
	var c domain.Card
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *CardRepo) FindBySlug(ctx context.Context, slug string) (*domain.Card, error) {
	var c domain.Card
	err := r.db.WithContext(ctx).First(&c, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *CardRepo) ListByOwner(ctx context.Context, ownerID string, publishedOnly bool) ([]domain.Card, error) {
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	var cards []domain.Card
	err := q.Order("created_at DESC").Find(&cards).Error
	return cards, err
}

func (r *CardRepo) CountPublishedByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Card{}).
		Where("owner_id = ? AND published = ?", ownerID, true).
		Count(&n).Error
	return n, err
}

func (r *CardRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Card{}).
		Where("slug = ?", slug).Count(&n).Error
	return n > 0, err
}

func (r *CardRepo) Update(ctx context.Context, c *domain.Card) error {
	// Save writes all fields; Published=false must survive the round trip,
	// which a struct Updates call would drop as a zero value.
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CardRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Card{})
	return res.RowsAffected > 0, res.Error
}
