package utils

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Redis     bool      `json:"redis"`
	API       bool      `json:"api"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth pings Redis (nil when drafts live in memory) and the API health endpoint once.
func CheckHealth(ctx context.Context, redisClient *redis.Client, apiHealthURL string) HealthStatus {
	status := HealthStatus{Redis: true, API: true, CheckedAt: time.Now()}

	if redisClient != nil {
		status.Redis = redisClient.Ping(ctx).Err() == nil
	}
	if apiHealthURL != "" {
		status.API = false
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiHealthURL, nil)
		if err == nil {
			if resp, err := http.DefaultClient.Do(req); err == nil {
				status.API = resp.StatusCode < http.StatusInternalServerError
				resp.Body.Close()
			}
		}
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks and updates in-memory state.
func StartHealthMonitor(ctx context.Context, redisClient *redis.Client, apiHealthURL string) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for {
			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			CheckHealth(checkCtx, redisClient, apiHealthURL)
			cancel()

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
