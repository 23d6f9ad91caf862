package service

import "cardlink/internal/domain"

// CanRead: published cards are visible to everyone, private cards only to
// their owner.
func CanRead(card *domain.Card, p *domain.Principal) bool {
	if card == nil {
		return false
	}
	return card.Published || p.IsOwnerOf(card)
}

// CanWrite: only the owner, never an anonymous caller. Published status
// grants no write access.
func CanWrite(card *domain.Card, p *domain.Principal) bool {
	return p.IsOwnerOf(card)
}
