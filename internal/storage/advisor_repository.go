package storage

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/types"
)

// AdvisorRepository reads advisor coverage aggregates from the warehouse
type AdvisorRepository struct {
	executor *Executor
}

// NewAdvisorRepository creates a new advisor repository
func NewAdvisorRepository(executor *Executor) *AdvisorRepository {
	return &AdvisorRepository{executor: executor}
}

// ProductivityRows returns per-advisor client counts, AUM and interaction
// totals. Only Active relationships count toward clients and AUM; the
// per-client ratios are left for the service layer.
func (r *AdvisorRepository) ProductivityRows(ctx context.Context, recentSince time.Time) ([]*models.AdvisorProductivityRow, error) {
	query := `
		SELECT a.advisor_id, a.name, a.specialization, a.experience_years,
		       rel.total_clients, rel.total_aum,
		       it.total_interactions, it.recent_interactions
		FROM advisors a
		LEFT JOIN (
			SELECT acr.advisor_id AS advisor_id,
			       uniqExact(acr.client_id) AS total_clients,
			       sum(cpv.total_value) AS total_aum
			FROM advisor_client_relationships acr
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
			) cpv ON cpv.client_id = acr.client_id
			WHERE acr.status = ?
			GROUP BY acr.advisor_id
		) rel ON rel.advisor_id = a.advisor_id
		LEFT JOIN (
			SELECT advisor_id,
			       count() AS total_interactions,
			       countIf(timestamp >= ?) AS recent_interactions
			FROM interactions
			GROUP BY advisor_id
		) it ON it.advisor_id = a.advisor_id
		ORDER BY rel.total_aum DESC
	`

	var results []*models.AdvisorProductivityRow
	err := r.executor.Select(ctx, "advisor_productivity", query, func(rows driver.Rows) error {
		results = nil
		for rows.Next() {
			var row models.AdvisorProductivityRow
			var totalClients, totalInteractions, recentInteractions uint64

			if err := rows.Scan(
				&row.AdvisorID,
				&row.AdvisorName,
				&row.Specialization,
				&row.ExperienceYears,
				&totalClients,
				&row.TotalAUM,
				&totalInteractions,
				&recentInteractions,
			); err != nil {
				return err
			}

			row.TotalClients = int64(totalClients)
			row.TotalInteractions = int64(totalInteractions)
			row.RecentInteractions = int64(recentInteractions)
			results = append(results, &row)
		}
		return nil
	}, string(types.RelationshipActive), recentSince)
	return results, err
}
