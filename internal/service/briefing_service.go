package service

import (
	"context"
	"time"

	"github.com/wealth-analytics/internal/errors"
	"github.com/wealth-analytics/internal/models"
)

// BriefingService assembles the per-client summary advisors read before a
// meeting
type BriefingService struct {
	clients ClientRepository
	cache   ResultCache
	ttl     time.Duration
}

// NewBriefingService creates a new briefing service
func NewBriefingService(clients ClientRepository, cache ResultCache, ttl time.Duration) *BriefingService {
	return &BriefingService{
		clients: clients,
		cache:   cache,
		ttl:     ttl,
	}
}

// briefingParams is the cache identity of a briefing query
type briefingParams struct {
	ClientID string `json:"clientId"`
}

// ClientBriefing returns the overview and portfolio lines for one client.
// Unlike the dashboard engines this is a lookup, so an unknown client is an
// error rather than an empty result.
func (s *BriefingService) ClientBriefing(ctx context.Context, clientID string) (*models.ClientBriefing, error) {
	if clientID == "" {
		return nil, errors.NewInvalidParameterError("clientId", "must not be empty")
	}

	return fetchCached(ctx, s.cache, s.ttl, "briefing", briefingParams{ClientID: clientID},
		func(ctx context.Context) (*models.ClientBriefing, error) {
			return s.compute(ctx, clientID)
		})
}

func (s *BriefingService) compute(ctx context.Context, clientID string) (*models.ClientBriefing, error) {
	overview, err := s.clients.BriefingOverview(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if overview == nil {
		return nil, errors.NewNotFoundError("client", clientID)
	}

	portfolios, err := s.clients.BriefingPortfolios(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if portfolios == nil {
		portfolios = []models.BriefingPortfolio{}
	}

	return &models.ClientBriefing{
		Overview:   *overview,
		Portfolios: portfolios,
	}, nil
}
