package domain

import "context"

// Settings is the single system-config row holding plan limits. The free
// limit here is the source of truth for quota enforcement.
type Settings struct {
	ID            uint `gorm:"primaryKey" json:"-"`
	FreeCardLimit int  `gorm:"not null;default:1" json:"freeCardLimit"`
	ProCardLimit  int  `gorm:"not null;default:10" json:"proCardLimit"`
}

func (Settings) TableName() string { return "settings" }

func (s Settings) LimitFor(plan string) int {
	if plan == PlanPro {
		return s.ProCardLimit
	}
	return s.FreeCardLimit
}

type SettingsRepository interface {
	Get(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}
