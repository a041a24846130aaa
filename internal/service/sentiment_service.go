package service

import (
	"context"
	"time"

	"github.com/wealth-analytics/internal/logging"
	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/policy"
)

// SentimentService labels recent interaction notes by keyword lookup
type SentimentService struct {
	interactions InteractionRepository
	cache        ResultCache
	ttl          time.Duration
	policy       *policy.Policy
	clock        func() time.Time
}

// NewSentimentService creates a new sentiment service
func NewSentimentService(interactions InteractionRepository, cache ResultCache, ttl time.Duration, p *policy.Policy) *SentimentService {
	return &SentimentService{
		interactions: interactions,
		cache:        cache,
		ttl:          ttl,
		policy:       p,
		clock:        time.Now,
	}
}

// sentimentParams is the cache identity of a sentiment query
type sentimentParams struct {
	WindowDays int `json:"windowDays"`
}

// Sentiment returns every noted interaction in the trailing window with its
// keyword-derived sentiment and follow-up priority. A non-positive window
// falls back to the policy default.
func (s *SentimentService) Sentiment(ctx context.Context, windowDays int) []*models.SentimentRow {
	if windowDays <= 0 {
		windowDays = s.policy.Sentiment.WindowDays
	}

	rows, err := fetchCached(ctx, s.cache, s.ttl, "sentiment", sentimentParams{WindowDays: windowDays},
		func(ctx context.Context) ([]*models.SentimentRow, error) {
			return s.compute(ctx, windowDays)
		})
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Sentiment analysis failed, returning empty result")
		return []*models.SentimentRow{}
	}
	return rows
}

func (s *SentimentService) compute(ctx context.Context, windowDays int) ([]*models.SentimentRow, error) {
	since := s.clock().AddDate(0, 0, -windowDays)
	notes, err := s.interactions.RecentNotes(ctx, since)
	if err != nil {
		return nil, err
	}

	rows := make([]*models.SentimentRow, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, &models.SentimentRow{
			InteractionID: n.InteractionID,
			ClientID:      n.ClientID,
			FirstName:     n.FirstName,
			LastName:      n.LastName,
			AdvisorID:     n.AdvisorID,
			Type:          n.Type,
			Channel:       n.Channel,
			OutcomeNotes:  n.OutcomeNotes,
			Timestamp:     n.Timestamp,
			Sentiment:     s.policy.NoteSentiment(n.OutcomeNotes),
			Priority:      s.policy.NotePriority(n.OutcomeNotes),
		})
	}
	return rows, nil
}
