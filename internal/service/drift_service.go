package service

import (
	"context"
	"sort"
	"time"

	"github.com/wealth-analytics/internal/logging"
	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/policy"
)

// DriftService compares portfolio allocations against their strategy targets
type DriftService struct {
	portfolios PortfolioRepository
	cache      ResultCache
	ttl        time.Duration
	policy     *policy.Policy
}

// NewDriftService creates a new drift service
func NewDriftService(portfolios PortfolioRepository, cache ResultCache, ttl time.Duration, p *policy.Policy) *DriftService {
	return &DriftService{
		portfolios: portfolios,
		cache:      cache,
		ttl:        ttl,
		policy:     p,
	}
}

// DriftAnalysis returns one row per portfolio and targeted asset class. The
// drift denominator is the full portfolio value including cash; asset classes
// without a target for the strategy are omitted, as are portfolios whose
// strategy has no target table or whose total value is zero.
func (s *DriftService) DriftAnalysis(ctx context.Context) []*models.DriftRow {
	rows, err := fetchCached(ctx, s.cache, s.ttl, "drift", nil, s.compute)
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Drift analysis failed, returning empty result")
		return []*models.DriftRow{}
	}
	return rows
}

func (s *DriftService) compute(ctx context.Context) ([]*models.DriftRow, error) {
	allocations, err := s.portfolios.Allocations(ctx)
	if err != nil {
		return nil, err
	}

	totals := map[string]float64{}
	for _, a := range allocations {
		totals[a.PortfolioID] += a.ClassValue
	}

	rows := []*models.DriftRow{}
	for _, a := range allocations {
		targets, ok := s.policy.TargetAllocations[a.StrategyType]
		if !ok {
			continue
		}
		targetPct, ok := targets[a.AssetClass]
		if !ok {
			continue
		}
		total := totals[a.PortfolioID]
		if total <= 0 {
			continue
		}

		currentPct := a.ClassValue / total * 100
		driftPct := currentPct - targetPct
		rows = append(rows, &models.DriftRow{
			PortfolioID:  a.PortfolioID,
			StrategyType: a.StrategyType,
			AssetClass:   a.AssetClass,
			CurrentValue: a.ClassValue,
			TotalValue:   total,
			CurrentPct:   currentPct,
			TargetPct:    targetPct,
			DriftPct:     driftPct,
			DriftLevel:   s.policy.DriftLevel(driftPct),
		})
	}

	// Stable order for rendering and caching
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PortfolioID != rows[j].PortfolioID {
			return rows[i].PortfolioID < rows[j].PortfolioID
		}
		return rows[i].AssetClass < rows[j].AssetClass
	})
	return rows, nil
}
