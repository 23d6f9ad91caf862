package domain

import (
	"context"
	"time"
)

// AnonymousViewer marks a CardView recorded without a principal.
const AnonymousViewer = "anonymous"

// CardStat holds denormalized counters for one card. Created lazily on the
// first qualifying view; removed (best-effort) when the card is deleted.
type CardStat struct {
	CardID    string    `gorm:"primaryKey;size:36" json:"cardId"`
	OwnerID   string    `gorm:"index;size:36" json:"ownerId"`
	Views     int64     `gorm:"not null;default:0" json:"views"`
	Downloads int64     `gorm:"not null;default:0" json:"downloads"`
	Shares    int64     `gorm:"not null;default:0" json:"shares"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (CardStat) TableName() string { return "card_stats" }

// CardView is one append-only analytics event. Never mutated or deleted,
// even when the parent card goes away.
type CardView struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CardID    string    `gorm:"index;size:36;not null" json:"cardId"`
	Slug      string    `gorm:"size:191" json:"slug"`
	ViewerID  string    `gorm:"size:36;not null" json:"viewerId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (CardView) TableName() string { return "card_views" }

type StatRepository interface {
	FindByCardID(ctx context.Context, cardID string) (*CardStat, error)
	// IncrementViews upserts the stat row for cardID (views=1 on first
	// touch) and atomically bumps the counter afterwards.
	IncrementViews(ctx context.Context, cardID, ownerID string) error
	IncrementDownloads(ctx context.Context, cardID, ownerID string) error
	IncrementShares(ctx context.Context, cardID, ownerID string) error
	Delete(ctx context.Context, cardID string) error
}

type ViewRepository interface {
	Append(ctx context.Context, v *CardView) error
	CountByCard(ctx context.Context, cardID string) (int64, error)
}
