package service

import (
	"context"
	"time"

	"github.com/wealth-analytics/internal/logging"
	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/policy"
)

// AnomalyService flags transactions that look out of pattern for their type
type AnomalyService struct {
	transactions TransactionRepository
	cache        ResultCache
	ttl          time.Duration
	policy       *policy.Policy
	clock        func() time.Time
}

// NewAnomalyService creates a new anomaly service
func NewAnomalyService(transactions TransactionRepository, cache ResultCache, ttl time.Duration, p *policy.Policy) *AnomalyService {
	return &AnomalyService{
		transactions: transactions,
		cache:        cache,
		ttl:          ttl,
		policy:       p,
		clock:        time.Now,
	}
}

// anomalyParams is the cache identity of an anomaly query
type anomalyParams struct {
	WindowDays int `json:"windowDays"`
}

// TransactionAnomalies screens transactions in the trailing window against
// the per-type amount statistics of the same window and the rule ladder. A
// non-positive window falls back to the policy default.
func (s *AnomalyService) TransactionAnomalies(ctx context.Context, windowDays int) []*models.AnomalyRow {
	if windowDays <= 0 {
		windowDays = s.policy.Anomaly.WindowDays
	}

	rows, err := fetchCached(ctx, s.cache, s.ttl, "anomalies", anomalyParams{WindowDays: windowDays},
		func(ctx context.Context) ([]*models.AnomalyRow, error) {
			return s.compute(ctx, windowDays)
		})
	if err != nil {
		logging.FromContext(ctx).WithError(err).Error("Anomaly screening failed, returning empty result")
		return []*models.AnomalyRow{}
	}
	return rows
}

func (s *AnomalyService) compute(ctx context.Context, windowDays int) ([]*models.AnomalyRow, error) {
	since := s.clock().AddDate(0, 0, -windowDays)

	typeStats, err := s.transactions.TypeStats(ctx, since)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]*policy.TypeStats, len(typeStats))
	for _, ts := range typeStats {
		stats[ts.TransactionType] = &policy.TypeStats{
			Mean:   ts.Mean,
			Stddev: ts.Stddev,
			P95:    ts.P95,
		}
	}

	candidates, err := s.transactions.Window(ctx, since)
	if err != nil {
		return nil, err
	}

	rows := []*models.AnomalyRow{}
	for _, c := range candidates {
		txn := c.Transaction
		typeStat := stats[txn.Type]
		anomalyType, flagged := s.policy.ClassifyTransaction(txn.Type, txn.TotalAmount, txn.Quantity, txn.Price, typeStat)
		if !flagged {
			continue
		}

		row := &models.AnomalyRow{
			TransactionID:   txn.TransactionID,
			ClientID:        c.ClientID,
			PortfolioID:     txn.PortfolioID,
			FirstName:       c.FirstName,
			LastName:        c.LastName,
			TransactionType: txn.Type,
			Ticker:          txn.Ticker,
			TotalAmount:     txn.TotalAmount,
			Quantity:        txn.Quantity,
			Price:           txn.Price,
			Timestamp:       txn.Timestamp,
			AnomalyType:     anomalyType,
		}
		if typeStat != nil && typeStat.Mean > 0 {
			deviation := (txn.TotalAmount/typeStat.Mean - 1) * 100
			difference := txn.TotalAmount - typeStat.Mean
			row.DeviationPct = &deviation
			row.AmountDifference = &difference
		}
		rows = append(rows, row)
	}
	return rows, nil
}
