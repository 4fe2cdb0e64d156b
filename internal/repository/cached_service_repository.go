package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shop-at/authentication-service/internal/domain"
)

const serviceCachePrefix = "service_registry:"

type cachedServiceRepository struct {
	next   ServiceRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedServiceRepository wraps next with a Redis read-through cache.
// Cache failures are logged and fall back to next. A nil client or a
// non-positive ttl disables caching.
func NewCachedServiceRepository(next ServiceRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) ServiceRepository {
	if client == nil || ttl <= 0 {
		return next
	}
	return &cachedServiceRepository{next: next, client: client, ttl: ttl, logger: logger}
}

func (r *cachedServiceRepository) GetByName(ctx context.Context, name string) (*domain.ServiceRegistry, error) {
	key := serviceCachePrefix + name

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var svc domain.ServiceRegistry
		if err := json.Unmarshal(raw, &svc); err == nil {
			return &svc, nil
		}
		r.logger.Warn("discarding corrupt service cache entry", zap.String("service", name))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("service cache read failed", zap.String("service", name), zap.Error(err))
	}

	svc, err := r.next.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(svc)
	if err != nil {
		return svc, nil
	}
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("service cache write failed", zap.String("service", name), zap.Error(err))
	}
	return svc, nil
}
