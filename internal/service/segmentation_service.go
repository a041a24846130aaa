package service

import (
	"context"
	"time"

	"github.com/wealth-analytics/internal/logging"
	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/policy"
)

// SegmentationService classifies clients into wealth tiers and summarizes
// engagement recency
type SegmentationService struct {
	clients ClientRepository
	cache   ResultCache
	ttl     time.Duration
	policy  *policy.Policy
	clock   func() time.Time
}

// NewSegmentationService creates a new segmentation service
func NewSegmentationService(clients ClientRepository, cache ResultCache, ttl time.Duration, p *policy.Policy) *SegmentationService {
	return &SegmentationService{
		clients: clients,
		cache:   cache,
		ttl:     ttl,
		policy:  p,
		clock:   time.Now,
	}
}

// Segments returns every client with their wealth tier. Tiers are assigned
// from the net-worth estimate against the canonical ladder.
func (s *SegmentationService) Segments(ctx context.Context) []*models.WealthSegmentRow {
	rows, err := fetchCached(ctx, s.cache, s.ttl, "segments", nil, s.computeSegments)
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Wealth segmentation failed, returning empty result")
		return []*models.WealthSegmentRow{}
	}
	return rows
}

func (s *SegmentationService) computeSegments(ctx context.Context) ([]*models.WealthSegmentRow, error) {
	rows, err := s.clients.SegmentRows(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*models.WealthSegmentRow{}
	}
	for _, row := range rows {
		row.WealthSegment = s.policy.WealthSegment(row.NetWorthEstimate)
	}
	return rows, nil
}

// Engagement returns every client's interaction recency. Clients who have
// never been contacted carry a nil days-since-contact.
func (s *SegmentationService) Engagement(ctx context.Context) []*models.EngagementRow {
	rows, err := fetchCached(ctx, s.cache, s.ttl, "engagement", nil, s.computeEngagement)
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Engagement summary failed, returning empty result")
		return []*models.EngagementRow{}
	}
	return rows
}

func (s *SegmentationService) computeEngagement(ctx context.Context) ([]*models.EngagementRow, error) {
	rows, err := s.clients.EngagementRows(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*models.EngagementRow{}
	}
	now := s.clock()
	for _, row := range rows {
		if row.LastInteraction != nil {
			days := daysBetween(*row.LastInteraction, now)
			row.DaysSinceContact = &days
		}
	}
	return rows, nil
}
