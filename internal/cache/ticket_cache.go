// Package cache holds the short-lived ticket list cache. The cache is an
// optimization only: every failure degrades to a direct store read.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/support-panel/internal/config"
	"github.com/spec-kit/support-panel/internal/domain"
	"github.com/spec-kit/support-panel/internal/persistence"
)

// TicketListCache caches the normalized ticket list between polls.
type TicketListCache interface {
	Get(ctx context.Context) ([]domain.Ticket, bool)
	Set(ctx context.Context, tickets []domain.Ticket)
	Invalidate(ctx context.Context)
}

const listKey = "support-panel:tickets:list"

// RedisTicketCache stores the list as a JSON blob with a short TTL.
type RedisTicketCache struct {
	redis  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisTicketCache builds the cache. A zero TTL disables caching.
func NewRedisTicketCache(r *persistence.Redis, cfg config.CacheConfig, logger *zap.Logger) *RedisTicketCache {
	return &RedisTicketCache{redis: r, ttl: cfg.TTL(), logger: logger}
}

// Get returns the cached list, or a miss when the cache is disabled,
// unreachable, or holds an undecodable payload.
func (c *RedisTicketCache) Get(ctx context.Context) ([]domain.Ticket, bool) {
	if c.ttl <= 0 || c.redis == nil || c.redis.Client == nil {
		return nil, false
	}
	payload, err := c.redis.Client.Get(ctx, listKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug("ticket cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var tickets []domain.Ticket
	if err := json.Unmarshal(payload, &tickets); err != nil {
		c.logger.Debug("ticket cache payload undecodable", zap.Error(err))
		return nil, false
	}
	return tickets, true
}

// Set stores the list for the configured TTL.
func (c *RedisTicketCache) Set(ctx context.Context, tickets []domain.Ticket) {
	if c.ttl <= 0 || c.redis == nil || c.redis.Client == nil {
		return
	}
	payload, err := json.Marshal(tickets)
	if err != nil {
		c.logger.Debug("ticket cache encode failed", zap.Error(err))
		return
	}
	if err := c.redis.Client.Set(ctx, listKey, payload, c.ttl).Err(); err != nil {
		c.logger.Debug("ticket cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached list after a mutation.
func (c *RedisTicketCache) Invalidate(ctx context.Context) {
	if c.redis == nil || c.redis.Client == nil {
		return
	}
	if err := c.redis.Client.Del(ctx, listKey).Err(); err != nil {
		c.logger.Debug("ticket cache invalidation failed", zap.Error(err))
	}
}
