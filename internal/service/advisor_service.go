package service

import (
	"context"
	"time"

	"github.com/wealth-analytics/internal/logging"
	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/policy"
)

// AdvisorService summarizes advisor coverage and productivity
type AdvisorService struct {
	advisors AdvisorRepository
	cache    ResultCache
	ttl      time.Duration
	policy   *policy.Policy
	clock    func() time.Time
}

// NewAdvisorService creates a new advisor service
func NewAdvisorService(advisors AdvisorRepository, cache ResultCache, ttl time.Duration, p *policy.Policy) *AdvisorService {
	return &AdvisorService{
		advisors: advisors,
		cache:    cache,
		ttl:      ttl,
		policy:   p,
		clock:    time.Now,
	}
}

// advisorParams is the cache identity of a productivity query
type advisorParams struct {
	WindowDays int `json:"windowDays"`
}

// AdvisorProductivity returns one row per advisor. Only Active relationships
// count toward client and AUM totals; per-client ratios are zero for advisors
// with no active clients.
func (s *AdvisorService) AdvisorProductivity(ctx context.Context, windowDays int) []*models.AdvisorProductivityRow {
	if windowDays <= 0 {
		windowDays = s.policy.Advisor.RecentWindowDays
	}

	rows, err := fetchCached(ctx, s.cache, s.ttl, "advisor_productivity", advisorParams{WindowDays: windowDays},
		func(ctx context.Context) ([]*models.AdvisorProductivityRow, error) {
			return s.compute(ctx, windowDays)
		})
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Advisor productivity failed, returning empty result")
		return []*models.AdvisorProductivityRow{}
	}
	return rows
}

func (s *AdvisorService) compute(ctx context.Context, windowDays int) ([]*models.AdvisorProductivityRow, error) {
	recentSince := s.clock().AddDate(0, 0, -windowDays)
	rows, err := s.advisors.ProductivityRows(ctx, recentSince)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*models.AdvisorProductivityRow{}
	}
	for _, row := range rows {
		if row.TotalClients > 0 {
			row.AUMPerClient = row.TotalAUM / float64(row.TotalClients)
			row.InteractionsPerClient = float64(row.TotalInteractions) / float64(row.TotalClients)
		}
	}
	return rows, nil
}
