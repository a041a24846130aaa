package service

import (
	"context"
	"time"

	"github.com/wealth-analytics/internal/logging"
	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/policy"
)

// CashSweepService finds portfolios holding idle cash and estimates the
// income foregone by leaving it unswept
type CashSweepService struct {
	portfolios PortfolioRepository
	cache      ResultCache
	ttl        time.Duration
	policy     *policy.Policy
}

// NewCashSweepService creates a new cash-sweep service
func NewCashSweepService(portfolios PortfolioRepository, cache ResultCache, ttl time.Duration, p *policy.Policy) *CashSweepService {
	return &CashSweepService{
		portfolios: portfolios,
		cache:      cache,
		ttl:        ttl,
		policy:     p,
	}
}

// IdleCash returns one row per portfolio with a cash status, sweep
// recommendation, and estimated annual income at the assumed yield.
// Portfolios with no snapshot value report a zero cash percentage.
func (s *CashSweepService) IdleCash(ctx context.Context) []*models.CashSweepRow {
	rows, err := fetchCached(ctx, s.cache, s.ttl, "idle_cash", nil, s.compute)
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Cash-sweep analysis failed, returning empty result")
		return []*models.CashSweepRow{}
	}
	return rows
}

func (s *CashSweepService) compute(ctx context.Context) ([]*models.CashSweepRow, error) {
	positions, err := s.portfolios.CashPositions(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]*models.CashSweepRow, 0, len(positions))
	for _, p := range positions {
		var cashPct float64
		if p.TotalValue > 0 {
			cashPct = p.CashBalance / p.TotalValue * 100
		}
		rows = append(rows, &models.CashSweepRow{
			PortfolioID:           p.PortfolioID,
			ClientID:              p.ClientID,
			FirstName:             p.FirstName,
			LastName:              p.LastName,
			RiskTolerance:         p.RiskTolerance,
			StrategyType:          p.StrategyType,
			CashBalance:           p.CashBalance,
			TotalValue:            p.TotalValue,
			CashPct:               cashPct,
			Status:                s.policy.CashStatus(cashPct),
			Recommendation:        s.policy.SweepAction(p.CashBalance, cashPct),
			PotentialAnnualIncome: s.policy.PotentialAnnualIncome(p.CashBalance),
		})
	}
	return rows, nil
}
