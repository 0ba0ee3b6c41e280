package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"RuleForge/internal/domain/models"
	"RuleForge/internal/domain/repository"
	"RuleForge/pkg/cache"
)

// SignalSetCache implements ResultCache on top of a cache.Service.
type SignalSetCache struct {
	svc cache.Service
	ttl time.Duration
}

// NewSignalSetCache creates a result cache with the given TTL.
func NewSignalSetCache(svc cache.Service, ttl time.Duration) repository.ResultCache {
	return &SignalSetCache{svc: svc, ttl: ttl}
}

func (c *SignalSetCache) Get(ctx context.Context, key string) (*models.SignalSet, bool, error) {
	var set models.SignalSet
	if err := c.svc.Get(ctx, "signals:"+key, &set); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("result cache get: %w", err)
	}
	return &set, true, nil
}

func (c *SignalSetCache) Set(ctx context.Context, key string, set *models.SignalSet) error {
	if err := c.svc.Set(ctx, "signals:"+key, set, c.ttl); err != nil {
		return fmt.Errorf("result cache set: %w", err)
	}
	return nil
}

func (c *SignalSetCache) Close() error {
	return c.svc.Close()
}

// NopResultCache is used when caching is disabled.
type NopResultCache struct{}

func (NopResultCache) Get(context.Context, string) (*models.SignalSet, bool, error) {
	return nil, false, nil
}

func (NopResultCache) Set(context.Context, string, *models.SignalSet) error { return nil }

func (NopResultCache) Close() error { return nil }
