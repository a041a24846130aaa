package service

import (
	"context"
	"time"

	"github.com/wealth-analytics/internal/logging"
	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/policy"
)

// ActionService recommends the next product or planning conversation per
// client
type ActionService struct {
	clients ClientRepository
	cache   ResultCache
	ttl     time.Duration
	policy  *policy.Policy
}

// NewActionService creates a new next-best-action service
func NewActionService(clients ClientRepository, cache ResultCache, ttl time.Duration, p *policy.Policy) *ActionService {
	return &ActionService{
		clients: clients,
		cache:   cache,
		ttl:     ttl,
		policy:  p,
	}
}

// NextBestActions returns one recommendation per client with priority and
// estimated revenue impact
func (s *ActionService) NextBestActions(ctx context.Context) []*models.NextBestActionRow {
	rows, err := fetchCached(ctx, s.cache, s.ttl, "next_best_actions", nil, s.compute)
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Next-best-action analysis failed, returning empty result")
		return []*models.NextBestActionRow{}
	}
	return rows
}

func (s *ActionService) compute(ctx context.Context) ([]*models.NextBestActionRow, error) {
	candidates, err := s.clients.NextBestActionRows(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]*models.NextBestActionRow, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, &models.NextBestActionRow{
			ClientID:          c.ClientID,
			FirstName:         c.FirstName,
			LastName:          c.LastName,
			NetWorthEstimate:  c.NetWorthEstimate,
			RiskTolerance:     c.RiskTolerance,
			TotalAUM:          c.TotalAUM,
			SavingsBehavior:   s.policy.SavingsBehavior(c.NetWorthEstimate, c.AnnualIncome),
			RecommendedAction: s.policy.RecommendedAction(c.NumPortfolios, c.TotalAUM, c.NetWorthEstimate, c.AnnualIncome, c.Age, c.RiskTolerance, c.LifeEvent),
			Priority:          s.policy.ActionPriority(c.NetWorthEstimate),
			RevenueImpact:     s.policy.RevenueImpact(c.NetWorthEstimate),
		})
	}
	return rows, nil
}
