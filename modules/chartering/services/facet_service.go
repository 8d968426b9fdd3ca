package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/redis/go-redis/v9"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/domain/aggregates/fixture"
	"github.com/lemu/seamless-sea-sub000/pkg/composables"
	"github.com/lemu/seamless-sea-sub000/pkg/metrics"
)

// FacetService serves the distinct option lists the filter panel offers.
// Option sets move slowly, so they tolerate a longer TTL than counts.
type FacetService struct {
	repo  fixture.Repository
	cache redis.UniversalClient
	ttl   time.Duration
}

func NewFacetService(repo fixture.Repository, cache redis.UniversalClient, ttl time.Duration) *FacetService {
	return &FacetService{repo: repo, cache: cache, ttl: ttl}
}

func (s *FacetService) Facets(ctx context.Context, organizationID uuid.UUID) (fixture.FacetOptions, error) {
	key := fmt.Sprintf("chartering:facets:%s", organizationID)

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var options fixture.FacetOptions
			if err := json.Unmarshal(raw, &options); err == nil {
				metrics.GridCacheHits.WithLabelValues("facets").Inc()
				return options, nil
			}
		} else if err != redis.Nil {
			composables.UseLogger(ctx).WithError(err).Warn("facet cache read failed")
		}
		metrics.GridCacheMisses.WithLabelValues("facets").Inc()
	}

	options, err := s.repo.Facets(ctx, organizationID)
	if err != nil {
		return fixture.FacetOptions{}, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(options); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
				composables.UseLogger(ctx).WithError(err).Warn("facet cache write failed")
			}
		}
	}
	return options, nil
}

// SearchOptions fuzzy-matches one facet's options against a typed query and
// returns them best match first. An empty query returns the full list.
func (s *FacetService) SearchOptions(ctx context.Context, organizationID uuid.UUID, facetID, query string) ([]string, error) {
	options, err := s.Facets(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	var pool []string
	switch facetID {
	case "status":
		pool = options.Statuses
	case "vessels":
		pool = options.VesselNames
	case "owners":
		pool = options.OwnerNames
	case "charterers":
		pool = options.ChartererNames
	case "cargoType":
		pool = options.CargoTypes
	case "loadPort":
		pool = options.LoadPorts
	case "dischargePort":
		pool = options.DischargePorts
	default:
		return nil, nil
	}

	if query == "" {
		return pool, nil
	}

	ranks := fuzzy.RankFindNormalizedFold(query, pool)
	sort.Sort(ranks)
	matches := make([]string, 0, len(ranks))
	for _, r := range ranks {
		matches = append(matches, r.Target)
	}
	return matches, nil
}
