package service

import (
	"context"
	"time"

	"github.com/wealth-analytics/internal/logging"
	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/policy"
)

// ChurnService scores client attrition risk from balance and engagement
// trends across the recent and prior windows
type ChurnService struct {
	clients ClientRepository
	cache   ResultCache
	ttl     time.Duration
	policy  *policy.Policy
	clock   func() time.Time
}

// NewChurnService creates a new churn service
func NewChurnService(clients ClientRepository, cache ResultCache, ttl time.Duration, p *policy.Policy) *ChurnService {
	return &ChurnService{
		clients: clients,
		cache:   cache,
		ttl:     ttl,
		policy:  p,
		clock:   time.Now,
	}
}

// ChurnRisk returns one row per eligible client. Clients with no prior-window
// balance are excluded rather than scored.
func (s *ChurnService) ChurnRisk(ctx context.Context) []*models.ChurnRow {
	rows, err := fetchCached(ctx, s.cache, s.ttl, "churn", nil, s.compute)
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Churn analysis failed, returning empty result")
		return []*models.ChurnRow{}
	}
	return rows
}

func (s *ChurnService) compute(ctx context.Context) ([]*models.ChurnRow, error) {
	now := s.clock()
	recentStart := now.AddDate(0, 0, -s.policy.Churn.RecentDays)
	priorStart := now.AddDate(0, 0, -s.policy.Churn.PriorDays)

	windows, err := s.clients.ChurnRows(ctx, recentStart, priorStart)
	if err != nil {
		return nil, err
	}

	rows := []*models.ChurnRow{}
	for _, w := range windows {
		level, eligible := s.policy.ChurnRisk(w.RecentBalance, w.PriorBalance, w.RecentInteractions, w.PriorInteractions)
		if !eligible {
			continue
		}
		rows = append(rows, &models.ChurnRow{
			ClientID:           w.ClientID,
			FirstName:          w.FirstName,
			LastName:           w.LastName,
			NetWorthEstimate:   w.NetWorthEstimate,
			RecentBalance:      w.RecentBalance,
			PriorBalance:       w.PriorBalance,
			RecentInteractions: w.RecentInteractions,
			PriorInteractions:  w.PriorInteractions,
			RiskLevel:          level,
		})
	}
	return rows, nil
}
