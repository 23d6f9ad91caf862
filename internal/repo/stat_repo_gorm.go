package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cardlink/internal/domain"
)

type StatRepo struct{ db *gorm.DB }

func NewStatRepo(db *gorm.DB) *StatRepo { return &StatRepo{db: db} }

func (r *StatRepo) FindByCardID(ctx context.Context, cardID string) (*domain.CardStat, error) {
	var s domain.CardStat
	err := r.db.WithContext(ctx).First(&s, "card_id = ?", cardID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *StatRepo) IncrementViews(ctx context.Context, cardID, ownerID string) error {
	return r.increment(ctx, cardID, ownerID, "views")
}

func (r *StatRepo) IncrementDownloads(ctx context.Context, cardID, ownerID string) error {
	return r.increment(ctx, cardID, ownerID, "downloads")
}

func (r *StatRepo) IncrementShares(ctx context.Context, cardID, ownerID string) error {
	return r.increment(ctx, cardID, ownerID, "shares")
}

// increment upserts the stat row: first touch inserts the row with the
// column at 1, later touches bump it atomically in the store.
func (r *StatRepo) increment(ctx context.Context, cardID, ownerID, column string) error {
	now := time.Now()
	s := domain.CardStat{CardID: cardID, OwnerID: ownerID, CreatedAt: now, UpdatedAt: now}
	switch column {
	case "views":
		s.Views = 1
	case "downloads":
		s.Downloads = 1
	case "shares":
		s.Shares = 1
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "card_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			column:       gorm.Expr(column+" + ?", 1),
			"updated_at": now,
		}),
	}).Create(&s).Error
}

func (r *StatRepo) Delete(ctx context.Context, cardID string) error {
	return r.db.WithContext(ctx).Where("card_id = ?", cardID).Delete(&domain.CardStat{}).Error
}
