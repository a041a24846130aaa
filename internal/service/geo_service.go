package service

import (
	"context"
	"time"

	"github.com/wealth-analytics/internal/logging"
	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/policy"
)

// GeoService aggregates the client base by state and zip for market analysis
type GeoService struct {
	geo    GeoRepository
	cache  ResultCache
	ttl    time.Duration
	policy *policy.Policy
}

// NewGeoService creates a new geo service
func NewGeoService(geo GeoRepository, cache ResultCache, ttl time.Duration, p *policy.Policy) *GeoService {
	return &GeoService{
		geo:    geo,
		cache:  cache,
		ttl:    ttl,
		policy: p,
	}
}

// GeographicDistribution returns per-state rollups with tolerance mix and
// market tier
func (s *GeoService) GeographicDistribution(ctx context.Context) []*models.GeoRollupRow {
	rows, err := fetchCached(ctx, s.cache, s.ttl, "geo_states", nil,
		func(ctx context.Context) ([]*models.GeoRollupRow, error) {
			rollups, err := s.geo.StateRollups(ctx)
			if err != nil {
				return nil, err
			}
			return s.classify(rollups), nil
		})
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Geographic rollup failed, returning empty result")
		return []*models.GeoRollupRow{}
	}
	return rows
}

// zipParams is the cache identity of a zip drill-down
type zipParams struct {
	State string `json:"state"`
}

// ZipRollup returns zip-level rollups for one state
func (s *GeoService) ZipRollup(ctx context.Context, state string) []*models.GeoRollupRow {
	rows, err := fetchCached(ctx, s.cache, s.ttl, "geo_zips", zipParams{State: state},
		func(ctx context.Context) ([]*models.GeoRollupRow, error) {
			rollups, err := s.geo.ZipRollups(ctx, state)
			if err != nil {
				return nil, err
			}
			return s.classify(rollups), nil
		})
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Zip rollup failed, returning empty result")
		return []*models.GeoRollupRow{}
	}
	return rows
}

func (s *GeoService) classify(rollups []*models.GeoRollupRow) []*models.GeoRollupRow {
	if rollups == nil {
		return []*models.GeoRollupRow{}
	}
	for _, r := range rollups {
		if r.ClientCount > 0 {
			r.PctAggressive = float64(r.AggressiveClients) / float64(r.ClientCount) * 100
			r.PctConservative = float64(r.ConservativeClients) / float64(r.ClientCount) * 100
		}
		r.MarketTier = s.policy.MarketTier(r.TotalAUM)
	}
	return rollups
}
