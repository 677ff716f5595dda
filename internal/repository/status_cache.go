package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

const statusCacheKey = "helpdesk:statuses:v1"

// CachedStatusRepository layers a Redis read-through cache over the status
// catalog. The catalog only changes via migrations, so entries expire on TTL
// rather than being invalidated on write.
type CachedStatusRepository struct {
	inner  StatusRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedStatusRepository wraps inner with a Redis cache. A nil client
// disables caching and every call falls through to inner.
func NewCachedStatusRepository(inner StatusRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedStatusRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedStatusRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (r *CachedStatusRepository) List(ctx context.Context) ([]domain.Status, error) {
	if r.client == nil {
		return r.inner.List(ctx)
	}

	payload, err := r.client.Get(ctx, statusCacheKey).Bytes()
	if err == nil {
		var cached []domain.Status
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
		r.logger.Warn("corrupt status cache entry, refetching", zap.String("key", statusCacheKey))
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("status cache read failed", zap.Error(err))
	}

	statuses, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(statuses); err == nil {
		if err := r.client.Set(ctx, statusCacheKey, encoded, r.ttl).Err(); err != nil {
			r.logger.Warn("status cache write failed", zap.Error(err))
		}
	}
	return statuses, nil
}

func (r *CachedStatusRepository) GetByID(ctx context.Context, id int64) (*domain.Status, error) {
	statuses, err := r.List(ctx)
	if err != nil {
		return r.inner.GetByID(ctx, id)
	}
	for i := range statuses {
		if statuses[i].ID == id {
			return &statuses[i], nil
		}
	}
	return r.inner.GetByID(ctx, id)
}
