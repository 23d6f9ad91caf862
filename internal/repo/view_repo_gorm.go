package repo

import (
	"context"

	"gorm.io/gorm"

	"cardlink/internal/domain"
)

type ViewRepo struct{ db *gorm.DB }

func NewViewRepo(db *gorm.DB) *ViewRepo { return &ViewRepo{db: db} }

func (r *ViewRepo) Append(ctx context.Context, v *domain.CardView) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *ViewRepo) CountByCard(ctx context.Context, cardID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.CardView{}).
		Where("card_id = ?", cardID).Count(&n).Error
	return n, err
}
