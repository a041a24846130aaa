package storage

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/wealth-analytics/internal/types"
)

// KPIRepository reads the firm-level aggregates from the warehouse
type KPIRepository struct {
	executor *Executor
}

// NewKPIRepository creates a new KPI repository
func NewKPIRepository(executor *Executor) *KPIRepository {
	return &KPIRepository{executor: executor}
}

// Counts returns the total number of clients and advisors
func (r *KPIRepository) Counts(ctx context.Context) (numClients int64, numAdvisors int64, err error) {
	query := `
		SELECT
			(SELECT count() FROM clients)  AS num_clients,
			(SELECT count() FROM advisors) AS num_advisors
	`

	err = r.executor.Select(ctx, "kpi_counts", query, func(rows driver.Rows) error {
		numClients, numAdvisors = 0, 0
		for rows.Next() {
			var clients, advisors uint64
			if err := rows.Scan(&clients, &advisors); err != nil {
				return err
			}
			numClients = int64(clients)
			numAdvisors = int64(advisors)
		}
		return nil
	})
	return numClients, numAdvisors, err
}

// AUM returns assets under management at the latest snapshot per portfolio.
// Cash positions are excluded.
func (r *KPIRepository) AUM(ctx context.Context) (float64, error) {
	query := `
		SELECT sum(ph.market_value) AS aum
		FROM position_history ph
		INNER JOIN (
			SELECT portfolio_id, max(timestamp) AS latest_ts
			FROM position_history
			GROUP BY portfolio_id
		) latest ON ph.portfolio_id = latest.portfolio_id AND ph.timestamp = latest.latest_ts
		WHERE ph.ticker != ?
	`

	var aum float64
	err := r.executor.Select(ctx, "kpi_aum", query, func(rows driver.Rows) error {
		aum = 0
		for rows.Next() {
			if err := rows.Scan(&aum); err != nil {
				return err
			}
		}
		return nil
	}, types.CashTicker)
	return aum, err
}

// AUMAsOf returns assets under management as of the given time: for every
// portfolio, the snapshot at its latest timestamp at or before asOf. Cash
// positions are excluded. Portfolios with no snapshot by asOf contribute
// nothing.
func (r *KPIRepository) AUMAsOf(ctx context.Context, asOf time.Time) (float64, error) {
	query := `
		SELECT sum(ph.market_value) AS aum
		FROM position_history ph
		INNER JOIN (
			SELECT portfolio_id, max(timestamp) AS latest_ts
			FROM position_history
			WHERE timestamp <= ?
			GROUP BY portfolio_id
		) latest ON ph.portfolio_id = latest.portfolio_id AND ph.timestamp = latest.latest_ts
		WHERE ph.ticker != ?
	`

	var aum float64
	err := r.executor.Select(ctx, "kpi_aum_asof", query, func(rows driver.Rows) error {
		aum = 0
		for rows.Next() {
			if err := rows.Scan(&aum); err != nil {
				return err
			}
		}
		return nil
	}, asOf, types.CashTicker)
	return aum, err
}
