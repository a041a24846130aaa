package storage

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/wealth-analytics/internal/models"
)

// GeoRepository reads geographic client rollups from the warehouse
type GeoRepository struct {
	executor *Executor
}

// NewGeoRepository creates a new geo repository
func NewGeoRepository(executor *Executor) *GeoRepository {
	return &GeoRepository{executor: executor}
}

const geoClientValuesCTE = `
	WITH client_values AS (
		SELECT c.client_id AS client_id, c.state AS state, c.zip_code AS zip_code,
		       c.net_worth_estimate AS net_worth_estimate,
		       c.annual_income AS annual_income,
		       c.risk_tolerance AS risk_tolerance,
		       pv.total_value AS portfolio_value
		FROM clients c
		LEFT JOIN (
			SELECT p.client_id AS client_id, sum(ph.market_value) AS total_value
			FROM portfolios p
			INNER JOIN position_history ph ON ph.portfolio_id = p.portfolio_id
			INNER JOIN (
				SELECT portfolio_id, max(timestamp) AS latest_ts
				FROM position_history
				GROUP BY portfolio_id
			) latest ON ph.portfolio_id = latest.portfolio_id AND ph.timestamp = latest.latest_ts
			GROUP BY p.client_id
		) pv ON pv.client_id = c.client_id
		WHERE c.state != ''
	)
`

// StateRollups returns per-state client aggregates. Percentages and market
// tier are left for the service layer.
func (r *GeoRepository) StateRollups(ctx context.Context) ([]*models.GeoRollupRow, error) {
	query := geoClientValuesCTE + `
		SELECT state,
		       uniqExact(client_id) AS client_count,
		       sum(portfolio_value) AS total_aum,
		       avg(portfolio_value) AS avg_aum_per_client,
		       sum(net_worth_estimate) AS total_net_worth,
		       avg(annual_income) AS avg_income,
		       countIf(risk_tolerance = 'Aggressive Growth') AS aggressive_clients,
		       countIf(risk_tolerance = 'Conservative') AS conservative_clients
		FROM client_values
		GROUP BY state
		ORDER BY total_aum DESC
	`

	return r.rollups(ctx, "geo_states", query, false)
}

// ZipRollups returns per-zip aggregates within one state
func (r *GeoRepository) ZipRollups(ctx context.Context, state string) ([]*models.GeoRollupRow, error) {
	query := geoClientValuesCTE + `
		SELECT state, zip_code,
		       uniqExact(client_id) AS client_count,
		       sum(portfolio_value) AS total_aum,
		       avg(portfolio_value) AS avg_aum_per_client,
		       sum(net_worth_estimate) AS total_net_worth,
		       avg(annual_income) AS avg_income,
		       countIf(risk_tolerance = 'Aggressive Growth') AS aggressive_clients,
		       countIf(risk_tolerance = 'Conservative') AS conservative_clients
		FROM client_values
		WHERE state = ?
		GROUP BY state, zip_code
		ORDER BY total_aum DESC
	`

	return r.rollups(ctx, "geo_zips", query, true, state)
}

func (r *GeoRepository) rollups(ctx context.Context, operation, query string, withZip bool, args ...interface{}) ([]*models.GeoRollupRow, error) {
	var results []*models.GeoRollupRow
	err := r.executor.Select(ctx, operation, query, func(rows driver.Rows) error {
		results = nil
		for rows.Next() {
			var row models.GeoRollupRow
			var clientCount, aggressive, conservative uint64

			dest := []interface{}{&row.State}
			if withZip {
				dest = append(dest, &row.ZipCode)
			}
			dest = append(dest,
				&clientCount,
				&row.TotalAUM,
				&row.AvgAUMPerClient,
				&row.TotalNetWorth,
				&row.AvgIncome,
				&aggressive,
				&conservative,
			)

			if err := rows.Scan(dest...); err != nil {
				return err
			}

			row.ClientCount = int64(clientCount)
			row.AggressiveClients = int64(aggressive)
			row.ConservativeClients = int64(conservative)
			results = append(results, &row)
		}
		return nil
	}, args...)
	return results, err
}
