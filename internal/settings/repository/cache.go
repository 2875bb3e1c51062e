package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ambulink/pkg/logger"
	"ambulink/pkg/observability"

	"github.com/redis/go-redis/v9"
)

const settingsKeyPrefix = "settings:"

// KV is the slice of the Redis API the cache uses. *redis.Client satisfies it.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// cachedSettingsRepository is a read-through cache in front of another
// repository. Redis failures fall back to the inner repository.
type cachedSettingsRepository struct {
	inner SettingsRepository
	kv    KV
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedSettingsRepository(inner SettingsRepository, kv KV, ttl time.Duration, log *logger.Logger) SettingsRepository {
	return &cachedSettingsRepository{
		inner: inner,
		kv:    kv,
		ttl:   ttl,
		log:   log,
	}
}

func (r *cachedSettingsRepository) Load(ctx context.Context, section string, out any) (bool, error) {
	key := settingsKeyPrefix + section

	raw, err := r.kv.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, out); jsonErr == nil {
			observability.SettingsCacheTotal.WithLabelValues("hit").Inc()
			return true, nil
		}
		r.log.Warn("Discarding corrupt settings cache entry", "section", section)
		observability.SettingsCacheTotal.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		observability.SettingsCacheTotal.WithLabelValues("miss").Inc()
	default:
		r.log.Warn("Settings cache lookup failed", "section", section, "error", err)
		observability.SettingsCacheTotal.WithLabelValues("error").Inc()
	}

	found, err := r.inner.Load(ctx, section, out)
	if err != nil || !found {
		return found, err
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		r.log.Warn("Failed to encode settings for cache", "section", section, "error", err)
		return true, nil
	}
	if err := r.kv.Set(ctx, key, encoded, r.ttl).Err(); err != nil {
		r.log.Warn("Failed to populate settings cache", "section", section, "error", err)
	}
	return true, nil
}

func (r *cachedSettingsRepository) Save(ctx context.Context, section string, value any, updatedBy string) error {
	if err := r.inner.Save(ctx, section, value, updatedBy); err != nil {
		return err
	}
	if err := r.kv.Del(ctx, settingsKeyPrefix+section).Err(); err != nil {
		r.log.Warn("Failed to invalidate settings cache", "section", section, "error", err)
	}
	return nil
}
