package domain

import (
	"context"
	"time"
)

// Card is one business-card profile. Slug is unique across all cards;
// ID, OwnerID and CreatedAt never change after creation.
type Card struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   string    `gorm:"index;size:36;not null" json:"ownerId"`
	Slug      string    `gorm:"uniqueIndex;size:191;not null" json:"slug"`
	Published bool      `gorm:"not null;default:false" json:"published"`
	Name      string    `gorm:"size:128" json:"name"`
	Email     string    `gorm:"size:191" json:"email"`
	Phone     string    `gorm:"size:64" json:"phone"`
	Title     string    `gorm:"size:128" json:"title"`
	Company   string    `gorm:"size:128" json:"company"`
	Address   string    `gorm:"size:255" json:"address"`
	PhotoURL  string    `gorm:"size:255" json:"photoUrl"`
	Theme     string    `gorm:"size:32" json:"theme"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Card) TableName() string { return "cards" }

// CardPatch carries the mutable fields of an update request. Immutable
// fields (id, owner, created-at) have no slot here, so a request cannot
// smuggle them through the boundary.
type CardPatch struct {
	Slug      *string `json:"slug"`
	Published *bool   `json:"published"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Title     *string `json:"title"`
	Company   *string `json:"company"`
	Address   *string `json:"address"`
	PhotoURL  *string `json:"photoUrl"`
	Theme     *string `json:"theme"`
}

// CardRepository is the store port for cards.
type CardRepository interface {
	Create(ctx context.Context, c *Card) error
	FindByID(ctx context.Context, id string) (*Card, error)
	FindBySlug(ctx context.Context, slug string) (*Card, error)
	ListByOwner(ctx context.Context, ownerID string, publishedOnly bool) ([]Card, error)
	CountPublishedByOwner(ctx context.Context, ownerID string) (int64, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, c *Card) error
	Delete(ctx context.Context, id string) (bool, error)
}
