package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/domain/aggregates/fixture"
	"github.com/lemu/seamless-sea-sub000/pkg/composables"
	"github.com/lemu/seamless-sea-sub000/pkg/metrics"
)

// CountService serves the per-unit totals behind system-bookmark badges.
// Counts are cheap to stale-serve, so they sit behind a short Redis TTL; a
// cache outage degrades to direct queries, never to an error.
type CountService struct {
	repo  fixture.Repository
	cache redis.UniversalClient
	ttl   time.Duration
}

func NewCountService(repo fixture.Repository, cache redis.UniversalClient, ttl time.Duration) *CountService {
	return &CountService{repo: repo, cache: cache, ttl: ttl}
}

func (s *CountService) Counts(ctx context.Context, organizationID uuid.UUID) (fixture.Counts, error) {
	key := fmt.Sprintf("chartering:counts:%s", organizationID)

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var counts fixture.Counts
			if err := json.Unmarshal(raw, &counts); err == nil {
				metrics.GridCacheHits.WithLabelValues("counts").Inc()
				return counts, nil
			}
		} else if err != redis.Nil {
			composables.UseLogger(ctx).WithError(err).Warn("count cache read failed")
		}
		metrics.GridCacheMisses.WithLabelValues("counts").Inc()
	}

	counts, err := s.repo.Counts(ctx, organizationID)
	if err != nil {
		return fixture.Counts{}, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(counts); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
				composables.UseLogger(ctx).WithError(err).Warn("count cache write failed")
			}
		}
	}
	return counts, nil
}

// Invalidate drops the cached totals, typically after a data import.
func (s *CountService) Invalidate(ctx context.Context, organizationID uuid.UUID) {
	if s.cache == nil {
		return
	}
	key := fmt.Sprintf("chartering:counts:%s", organizationID)
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		composables.UseLogger(ctx).WithError(err).Warn("count cache invalidation failed")
	}
}
