package service

import (
	"context"
	"time"

	"github.com/wealth-analytics/internal/logging"
	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/policy"
)

// OutreachService prioritizes which clients an advisor should contact next
type OutreachService struct {
	clients ClientRepository
	cache   ResultCache
	ttl     time.Duration
	policy  *policy.Policy
	clock   func() time.Time
}

// NewOutreachService creates a new outreach service
func NewOutreachService(clients ClientRepository, cache ResultCache, ttl time.Duration, p *policy.Policy) *OutreachService {
	return &OutreachService{
		clients: clients,
		cache:   cache,
		ttl:     ttl,
		policy:  p,
		clock:   time.Now,
	}
}

// OutreachPriorities returns the outreach queue. Candidates either have a
// life event on file or have gone quiet past the recency threshold;
// never-contacted clients qualify only through a life event.
func (s *OutreachService) OutreachPriorities(ctx context.Context) []*models.OutreachRow {
	rows, err := fetchCached(ctx, s.cache, s.ttl, "outreach", nil, s.compute)
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Outreach prioritization failed, returning empty result")
		return []*models.OutreachRow{}
	}
	return rows
}

func (s *OutreachService) compute(ctx context.Context) ([]*models.OutreachRow, error) {
	candidates, err := s.clients.OutreachRows(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	marketEventSince := now.AddDate(0, 0, -s.policy.Outreach.MarketEventDays)
	marketEvents, err := s.clients.CountMarketEventsSince(ctx, marketEventSince)
	if err != nil {
		return nil, err
	}
	recentMarketEvent := marketEvents > 0

	rows := []*models.OutreachRow{}
	for _, c := range candidates {
		var daysSinceContact *int64
		if c.LastContact != nil {
			days := daysBetween(*c.LastContact, now)
			daysSinceContact = &days
		}

		quiet := daysSinceContact != nil && *daysSinceContact > s.policy.Outreach.QuietClientDays
		if c.LifeEvent == nil && !quiet {
			continue
		}

		row := &models.OutreachRow{
			ClientID:         c.ClientID,
			FirstName:        c.FirstName,
			LastName:         c.LastName,
			LifeEvent:        c.LifeEvent,
			LastContact:      c.LastContact,
			DaysSinceContact: daysSinceContact,
			Priority:         s.policy.OutreachPriority(c.LifeEvent, daysSinceContact),
			SuggestedTopics:  s.policy.SuggestedTopics(c.LifeEvent, daysSinceContact),
		}

		// The profile update timestamp stands in for the life-event date,
		// the warehouse does not carry one separately
		var lifeEventAgeDays *int64
		if c.LifeEvent != nil {
			eventDate := c.LastUpdate
			row.LifeEventDate = &eventDate
			age := daysBetween(eventDate, now)
			lifeEventAgeDays = &age
		}
		row.OutreachType = s.policy.OutreachType(c.LifeEvent, lifeEventAgeDays, daysSinceContact, recentMarketEvent)

		rows = append(rows, row)
	}
	return rows, nil
}
