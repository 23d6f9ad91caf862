package domain

import (
	"context"
	"time"
)

const (
	PlanFree = "free"
	PlanPro  = "pro"

	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserAccount is one registered principal. CardsCreated is a denormalized
// counter kept best-effort in sync with the cards table.
type UserAccount struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name         string     `gorm:"size:64" json:"name"`
	PasswordHash string     `gorm:"size:100" json:"-"`
	Role         string     `gorm:"size:16;not null;default:user" json:"role"`
	Plan         string     `gorm:"size:16;not null;default:free" json:"plan"`
	CardLimit    int        `gorm:"not null;default:1" json:"cardLimit"`
	CardsCreated int        `gorm:"not null;default:0" json:"cardsCreated"`
	UpgradedAt   *time.Time `json:"upgradedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (UserAccount) TableName() string { return "users" }

type UserRepository interface {
	Create(ctx context.Context, u *UserAccount) error
	FindByID(ctx context.Context, id string) (*UserAccount, error)
	FindByEmail(ctx context.Context, email string) (*UserAccount, error)
	List(ctx context.Context, q string, offset, limit int) ([]UserAccount, int64, error)
	Update(ctx context.Context, u *UserAccount) error
	// SetPlan merges plan, card limit and the upgrade stamp into the account.
	SetPlan(ctx context.Context, id, plan string, cardLimit int, upgradedAt time.Time) error
	// DecrementCardCount atomically decrements CardsCreated when it is
	// above zero; it never drives the counter negative.
	DecrementCardCount(ctx context.Context, id string) error
	// IncrementCardCount bumps the denormalized counter after a create.
	IncrementCardCount(ctx context.Context, id string) error
}
