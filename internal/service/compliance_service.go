package service

import (
	"context"
	"time"

	"github.com/wealth-analytics/internal/logging"
	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/policy"
)

// ComplianceService queues clients whose profiles are due for review
type ComplianceService struct {
	clients ClientRepository
	cache   ResultCache
	ttl     time.Duration
	policy  *policy.Policy
	clock   func() time.Time
}

// NewComplianceService creates a new compliance service
func NewComplianceService(clients ClientRepository, cache ResultCache, ttl time.Duration, p *policy.Policy) *ComplianceService {
	return &ComplianceService{
		clients: clients,
		cache:   cache,
		ttl:     ttl,
		policy:  p,
		clock:   time.Now,
	}
}

// ComplianceReviews returns the review queue. Clients whose profile is
// current are excluded.
func (s *ComplianceService) ComplianceReviews(ctx context.Context) []*models.ComplianceReviewRow {
	rows, err := fetchCached(ctx, s.cache, s.ttl, "compliance", nil, s.compute)
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Compliance review failed, returning empty result")
		return []*models.ComplianceReviewRow{}
	}
	return rows
}

func (s *ComplianceService) compute(ctx context.Context) ([]*models.ComplianceReviewRow, error) {
	candidates, err := s.clients.ComplianceRows(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	rows := []*models.ComplianceReviewRow{}
	for _, c := range candidates {
		daysSinceUpdate := daysBetween(c.LastUpdate, now)
		status, priority, due := s.policy.ComplianceStatus(daysSinceUpdate, c.LifeEvent)
		if !due {
			continue
		}
		rows = append(rows, &models.ComplianceReviewRow{
			ClientID:        c.ClientID,
			FirstName:       c.FirstName,
			LastName:        c.LastName,
			DateJoined:      c.DateJoined,
			LastUpdate:      c.LastUpdate,
			DaysSinceUpdate: daysSinceUpdate,
			Status:          status,
			Priority:        priority,
		})
	}
	return rows, nil
}
