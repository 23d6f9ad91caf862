package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"cardlink/internal/apperr"
	"cardlink/internal/domain"
)

// SlugAllocator turns display names into unique URL-safe slugs. The probe
// and the eventual create are not atomic; the unique index on cards.slug
// catches the losing side of a race.
type SlugAllocator struct {
	cards domain.CardRepository
}

func NewSlugAllocator(cards domain.CardRepository) *SlugAllocator {
	return &SlugAllocator{cards: cards}
}

// Normalize lowercases the name, drops everything outside alphanumerics
// and whitespace, and collapses whitespace runs to single hyphens.
func Normalize(baseName string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(baseName) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte('-')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		return "card"
	}
	return s
}

// Allocate returns the normalized base if free, otherwise the first free
// candidate among base-1, base-2, …
func (a *SlugAllocator) Allocate(ctx context.Context, baseName string) (string, error) {
	base := Normalize(baseName)
	candidate := base
	for i := 1; ; i++ {
		taken, err := a.cards.SlugExists(ctx, candidate)
		if err != nil {
			return "", apperr.Internal("slug probe failed", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
