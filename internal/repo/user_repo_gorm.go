package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cardlink/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.UserAccount) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.UserAccount, error) {
	var u domain.UserAccount
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	var u domain.UserAccount
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) List(ctx context.Context, q string, offset, limit int) ([]domain.UserAccount, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.UserAccount{})
	if s := strings.TrimSpace(q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("email LIKE ? OR name LIKE ?", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.UserAccount
	if err := tx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.UserAccount) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepo) SetPlan(ctx context.Context, id, plan string, cardLimit int, upgradedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.UserAccount{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"plan":        plan,
			"card_limit":  cardLimit,
			"upgraded_at": upgradedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementCardCount runs a locked read-modify-write so two concurrent
// deletes cannot push the counter below zero.
func (r *UserRepo) DecrementCardCount(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.UserAccount
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&u, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if u.CardsCreated <= 0 {
			return nil
		}
		return tx.Model(&u).Update("cards_created", u.CardsCreated-1).Error
	})
}

func (r *UserRepo) IncrementCardCount(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&domain.UserAccount{}).
		Where("id = ?", id).
		Update("cards_created", gorm.Expr("cards_created + 1")).Error
}
