package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/lineup-optimizer/internal/types"
)

// LineupCacheService caches solved lineups in Redis, keyed by a hash of the
// canonical request. A nil receiver (no Redis configured) behaves as an
// always-miss cache so callers never need to branch.
type LineupCacheService struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewLineupCacheService creates a new lineup cache service
func NewLineupCacheService(client *redis.Client, logger *logrus.Logger) *LineupCacheService {
	return &LineupCacheService{
		client: client,
		logger: logger,
	}
}

// SetLineups stores a solved lineup table in cache
func (c *LineupCacheService) SetLineups(ctx context.Context, key string, lineups []types.PlayerLineup, expiration time.Duration) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(lineups)
	if err != nil {
		return fmt.Errorf("failed to marshal lineups: %w", err)
	}

	fullKey := fmt.Sprintf("optimize:%s", key)
	if err := c.client.Set(ctx, fullKey, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set lineups in cache: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key":  fullKey,
		"expiration": expiration,
		"players":    len(lineups),
	}).Debug("Cached lineup result")

	return nil
}

// GetLineups retrieves a solved lineup table from cache
func (c *LineupCacheService) GetLineups(ctx context.Context, key string) ([]types.PlayerLineup, error) {
	if c == nil {
		return nil, fmt.Errorf("lineup cache not configured")
	}

	fullKey := fmt.Sprintf("optimize:%s", key)
	data, err := c.client.Get(ctx, fullKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("lineup result not found in cache")
		}
		return nil, fmt.Errorf("failed to get lineups from cache: %w", err)
	}

	var lineups []types.PlayerLineup
	if err := json.Unmarshal([]byte(data), &lineups); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lineups: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key": fullKey,
		"players":   len(lineups),
	}).Debug("Retrieved lineup result from cache")

	return lineups, nil
}

// InvalidateLineups removes a cached lineup table
func (c *LineupCacheService) InvalidateLineups(ctx context.Context, key string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, fmt.Sprintf("optimize:%s", key)).Err()
}
