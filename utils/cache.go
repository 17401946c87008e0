// File: utils/cache.go
package utils

import (
	"context"
	"time"

	"saubio/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DraftCacheClient holds planner drafts.
var DraftCacheClient *redis.Client

// InitDraftCache initializes the Redis client for planner drafts. An unreachable Redis is
// logged, not fatal: draft persistence is best effort.
func InitDraftCache() {
	DraftCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDraftDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := DraftCacheClient.Ping(ctx).Result(); err != nil {
		GetLogger().Warn("Failed to connect to Redis (Drafts)", zap.Error(err))
	}
}

// GetDraftCacheClient returns the Redis client for planner drafts.
func GetDraftCacheClient() *redis.Client {
	if DraftCacheClient == nil {
		InitDraftCache()
	}
	return DraftCacheClient
}
