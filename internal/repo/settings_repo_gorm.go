package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"cardlink/internal/domain"
)

type SettingsRepo struct {
	db       *gorm.DB
	defaults domain.Settings
}

// NewSettingsRepo falls back to defaults when the settings row has not
// been seeded yet.
func NewSettingsRepo(db *gorm.DB, defaults domain.Settings) *SettingsRepo {
	return &SettingsRepo{db: db, defaults: defaults}
}

func (r *SettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	var s domain.Settings
	err := r.db.WithContext(ctx).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d := r.defaults
		return &d, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepo) Save(ctx context.Context, s *domain.Settings) error {
	return r.db.WithContext(ctx).Save(s).Error
}
