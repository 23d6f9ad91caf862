package repo

import (
	"context"
	"time"

	"cardlink/internal/core/cache"
	"cardlink/internal/domain"
)

const settingsCacheKey = "cardlink:settings"

// CachedSettingsRepo decorates a SettingsRepository with a short-TTL redis
// cache; every quota check reads the limits, so they are worth caching.
// A nil cache degrades to pass-through.
type CachedSettingsRepo struct {
	inner domain.SettingsRepository
	cache *cache.Cache
	ttl   time.Duration
}

func NewCachedSettingsRepo(inner domain.SettingsRepository, c *cache.Cache) *CachedSettingsRepo {
	return &CachedSettingsRepo{inner: inner, cache: c, ttl: time.Minute}
}

func (r *CachedSettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	return cache.GetOrLoadJSON[domain.Settings](r.cache, ctx, settingsCacheKey, r.ttl, r.inner.Get)
}

func (r *CachedSettingsRepo) Save(ctx context.Context, s *domain.Settings) error {
	if err := r.inner.Save(ctx, s); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, settingsCacheKey)
	return nil
}
