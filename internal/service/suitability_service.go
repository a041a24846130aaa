package service

import (
	"context"
	"time"

	"github.com/wealth-analytics/internal/logging"
	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/policy"
)

// SuitabilityService flags portfolios whose strategy conflicts with the
// owner's risk tolerance, and positions concentrated beyond the threshold
type SuitabilityService struct {
	portfolios PortfolioRepository
	cache      ResultCache
	ttl        time.Duration
	policy     *policy.Policy
}

// NewSuitabilityService creates a new suitability service
func NewSuitabilityService(portfolios PortfolioRepository, cache ResultCache, ttl time.Duration, p *policy.Policy) *SuitabilityService {
	return &SuitabilityService{
		portfolios: portfolios,
		cache:      cache,
		ttl:        ttl,
		policy:     p,
	}
}

// SuitabilityAlerts returns a row per mismatched portfolio. Unknown tolerance
// or strategy values produce no alert.
func (s *SuitabilityService) SuitabilityAlerts(ctx context.Context) []*models.SuitabilityAlert {
	alerts, err := fetchCached(ctx, s.cache, s.ttl, "suitability", nil, s.computeAlerts)
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Suitability analysis failed, returning empty result")
		return []*models.SuitabilityAlert{}
	}
	return alerts
}

func (s *SuitabilityService) computeAlerts(ctx context.Context) ([]*models.SuitabilityAlert, error) {
	rows, err := s.portfolios.SuitabilityRows(ctx)
	if err != nil {
		return nil, err
	}

	alerts := []*models.SuitabilityAlert{}
	for _, row := range rows {
		result := s.policy.ClassifySuitability(row.RiskTolerance, row.StrategyType)
		if !result.Mismatch {
			continue
		}
		alerts = append(alerts, &models.SuitabilityAlert{
			ClientID:       row.ClientID,
			FirstName:      row.FirstName,
			LastName:       row.LastName,
			RiskTolerance:  row.RiskTolerance,
			PortfolioID:    row.PortfolioID,
			StrategyType:   row.StrategyType,
			PortfolioValue: row.PortfolioValue,
			Alignment:      result.Alignment,
			AlertLevel:     result.AlertLevel,
		})
	}
	return alerts, nil
}

// concentrationParams is the cache identity of a concentration query
type concentrationParams struct {
	ThresholdPct float64 `json:"thresholdPct"`
}

// ConcentrationBreaches returns every non-cash position whose share of the
// portfolio's invested value meets or exceeds the threshold. A non-positive
// threshold falls back to the policy default.
func (s *SuitabilityService) ConcentrationBreaches(ctx context.Context, thresholdPct float64) []*models.ConcentrationBreach {
	if thresholdPct <= 0 {
		thresholdPct = s.policy.ConcentrationThresholdPct
	}

	breaches, err := fetchCached(ctx, s.cache, s.ttl, "concentration", concentrationParams{ThresholdPct: thresholdPct},
		func(ctx context.Context) ([]*models.ConcentrationBreach, error) {
			return s.computeBreaches(ctx, thresholdPct)
		})
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Concentration analysis failed, returning empty result")
		return []*models.ConcentrationBreach{}
	}
	return breaches
}

func (s *SuitabilityService) computeBreaches(ctx context.Context, thresholdPct float64) ([]*models.ConcentrationBreach, error) {
	rows, err := s.portfolios.PositionShares(ctx)
	if err != nil {
		return nil, err
	}

	breaches := []*models.ConcentrationBreach{}
	for _, row := range rows {
		// Zero invested totals never reach here, the repository filters them
		sharePct := row.MarketValue / row.InvestedValue * 100
		if sharePct < thresholdPct {
			continue
		}
		breaches = append(breaches, &models.ConcentrationBreach{
			PortfolioID:   row.PortfolioID,
			ClientID:      row.ClientID,
			Ticker:        row.Ticker,
			AssetClass:    row.AssetClass,
			MarketValue:   row.MarketValue,
			InvestedValue: row.InvestedValue,
			SharePct:      sharePct,
			ThresholdPct:  thresholdPct,
		})
	}
	return breaches, nil
}
