package service

import (
	"context"
	"time"

	"github.com/wealth-analytics/internal/logging"
	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/storage"
)

// KPIService computes the firm-level dashboard KPIs
type KPIService struct {
	repo  KPIRepository
	cache ResultCache
	ttl   time.Duration
	clock func() time.Time
}

// NewKPIService creates a new KPI service. The TTL should be longer than the
// engine TTLs since firm-level KPIs move slowly.
func NewKPIService(repo KPIRepository, cache ResultCache, ttl time.Duration) *KPIService {
	return &KPIService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		clock: time.Now,
	}
}

// Snapshot returns the current firm KPIs, from cache when fresh. A warehouse
// failure yields a zero snapshot rather than an error.
func (s *KPIService) Snapshot(ctx context.Context) *models.KPISnapshot {
	if s.cache != nil {
		key := s.cache.GenerateCacheKey(storage.CacheKeyKPI, "snapshot")
		var cached models.KPISnapshot
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			storage.CacheError("kpi")
		} else if found {
			storage.CacheHit("kpi")
			return &cached
		} else {
			storage.CacheMiss("kpi")
		}
	}

	snapshot, err := s.compute(ctx)
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("KPI snapshot failed, returning empty snapshot")
		return &models.KPISnapshot{}
	}

	s.store(ctx, snapshot)
	return snapshot
}

// Refresh recomputes the KPIs and rewrites the cache entry. Used by the
// scheduled cache warmer so interactive requests rarely pay the query cost.
func (s *KPIService) Refresh(ctx context.Context) error {
	snapshot, err := s.compute(ctx)
	if err != nil {
		return err
	}
	s.store(ctx, snapshot)
	return nil
}

func (s *KPIService) store(ctx context.Context, snapshot *models.KPISnapshot) {
	if s.cache == nil {
		return
	}
	key := s.cache.GenerateCacheKey(storage.CacheKeyKPI, "snapshot")
	if err := s.cache.SetWithTTL(ctx, key, snapshot, s.ttl); err != nil {
		logging.FromContext(ctx).WithError(err).Warn("Failed to cache KPI snapshot")
	}
}

func (s *KPIService) compute(ctx context.Context) (*models.KPISnapshot, error) {
	numClients, numAdvisors, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}

	aum, err := s.repo.AUM(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &models.KPISnapshot{
		NumClients:  numClients,
		NumAdvisors: numAdvisors,
		AUM:         aum,
	}

	now := s.clock()
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	startAUM, err := s.repo.AUMAsOf(ctx, startOfYear)
	if err != nil {
		return nil, err
	}
	// Growth is undefined when there was nothing under management at the
	// start of the year. Reported as a fraction: 0.10 means 10% growth.
	if startAUM > 0 {
		growth := (aum - startAUM) / startAUM
		snapshot.YTDGrowthPct = &growth
	}

	return snapshot, nil
}
