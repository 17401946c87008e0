package draft

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"saubio/models"
)

// RedisStore keeps drafts in Redis with a TTL matching the tab session lifetime.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

func (s *RedisStore) Load(ctx context.Context, scope string) (*models.PlannerDraft, bool) {
	data, err := s.client.Get(ctx, key(scope)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("draft load failed", zap.String("scope", scope), zap.Error(err))
		}
		return nil, false
	}
	d, ok := Decode(data)
	if !ok {
		s.logger.Debug("discarding unreadable draft", zap.String("scope", scope))
	}
	return d, ok
}

func (s *RedisStore) Save(ctx context.Context, scope string, d models.PlannerDraft) {
	data, err := Encode(d)
	if err != nil {
		s.logger.Warn("draft encode failed", zap.String("scope", scope), zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, key(scope), data, s.ttl).Err(); err != nil {
		s.logger.Warn("draft save failed", zap.String("scope", scope), zap.Error(err))
	}
}

func (s *RedisStore) Clear(ctx context.Context, scope string) {
	if err := s.client.Del(ctx, key(scope)).Err(); err != nil {
		s.logger.Warn("draft clear failed", zap.String("scope", scope), zap.Error(err))
	}
}

var _ Store = (*RedisStore)(nil)
