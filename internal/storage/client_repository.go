package storage

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/types"
)

// ClientRepository reads client-centric aggregates from the warehouse. It
// returns raw measurements; all classification (segments, ladders, labels)
// happens in the service layer against the policy.
type ClientRepository struct {
	executor *Executor
}

// NewClientRepository creates a new client repository
func NewClientRepository(executor *Executor) *ClientRepository {
	return &ClientRepository{executor: executor}
}

// SegmentRows returns every client with their latest-snapshot portfolio value.
// The WealthSegment field is left empty for the service layer to fill.
func (r *ClientRepository) SegmentRows(ctx context.Context) ([]*models.WealthSegmentRow, error) {
	query := `
		SELECT c.client_id, c.first_name, c.last_name, c.net_worth_estimate,
		       c.annual_income, c.risk_tolerance, pv.total_value
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
		ORDER BY c.net_worth_estimate DESC
	`

	var results []*models.WealthSegmentRow
	err := r.executor.Select(ctx, "client_segments", query, func(rows driver.Rows) error {
		results = nil
		for rows.Next() {
			var row models.WealthSegmentRow
			var toleranceStr string

			if err := rows.Scan(
				&row.ClientID,
				&row.FirstName,
				&row.LastName,
				&row.NetWorthEstimate,
				&row.AnnualIncome,
				&toleranceStr,
				&row.PortfolioValue,
			); err != nil {
				return err
			}

			row.RiskTolerance = types.RiskTolerance(toleranceStr)
			results = append(results, &row)
		}
		return nil
	})
	return results, err
}

// EngagementRows returns per-client interaction totals and last-contact
// timestamps. LastInteraction is nil for clients never contacted;
// DaysSinceContact is left for the service layer.
func (r *ClientRepository) EngagementRows(ctx context.Context) ([]*models.EngagementRow, error) {
	query := `
		SELECT c.client_id, c.first_name, c.last_name,
		       countIf(i.interaction_id != '') AS total_interactions,
		       if(countIf(i.interaction_id != '') = 0, NULL, max(i.timestamp)) AS last_interaction
		FROM clients c
		LEFT JOIN interactions i ON i.client_id = c.client_id
		GROUP BY c.client_id, c.first_name, c.last_name
		ORDER BY total_interactions DESC
	`

	var results []*models.EngagementRow
	err := r.executor.Select(ctx, "client_engagement", query, func(rows driver.Rows) error {
		results = nil
		for rows.Next() {
			var row models.EngagementRow
			var total uint64

			if err := rows.Scan(
				&row.ClientID,
				&row.FirstName,
				&row.LastName,
				&total,
				&row.LastInteraction,
			); err != nil {
				return err
			}

			row.TotalInteractions = int64(total)
			results = append(results, &row)
		}
		return nil
	})
	return results, err
}

// ChurnWindowRow holds one client's balances and interaction counts over the
// recent and prior observation windows
type ChurnWindowRow struct {
	ClientID           string
	FirstName          string
	LastName           string
	NetWorthEstimate   float64
	RecentBalance      float64
	PriorBalance       float64
	RecentInteractions int64
	PriorInteractions  int64
}

// ChurnRows returns per-client average balances and interaction counts for
// the window [recentStart, now) and the window [priorStart, recentStart).
// Balances are averages of per-snapshot portfolio totals within the window.
func (r *ClientRepository) ChurnRows(ctx context.Context, recentStart, priorStart time.Time) ([]*ChurnWindowRow, error) {
	query := `
		SELECT c.client_id, c.first_name, c.last_name, c.net_worth_estimate,
		       rb.balance AS recent_balance,
		       pb.balance AS prior_balance,
		       ri.cnt AS recent_interactions,
		       pi.cnt AS prior_interactions
		FROM clients c
		LEFT JOIN (
			SELECT client_id, sum(avg_total) AS balance
			FROM (
				SELECT p.client_id AS client_id, s.portfolio_id, avg(s.total_value) AS avg_total
				FROM (
					SELECT portfolio_id, timestamp, sum(market_value) AS total_value
					FROM position_history
					WHERE timestamp >= ?
					GROUP BY portfolio_id, timestamp
				) s
				INNER JOIN portfolios p ON p.portfolio_id = s.portfolio_id
				GROUP BY p.client_id, s.portfolio_id
			)
			GROUP BY client_id
		) rb ON rb.client_id = c.client_id
		LEFT JOIN (
			SELECT client_id, sum(avg_total) AS balance
			FROM (
				SELECT p.client_id AS client_id, s.portfolio_id, avg(s.total_value) AS avg_total
				FROM (
					SELECT portfolio_id, timestamp, sum(market_value) AS total_value
					FROM position_history
					WHERE timestamp >= ? AND timestamp < ?
					GROUP BY portfolio_id, timestamp
				) s
				INNER JOIN portfolios p ON p.portfolio_id = s.portfolio_id
				GROUP BY p.client_id, s.portfolio_id
			)
			GROUP BY client_id
		) pb ON pb.client_id = c.client_id
		LEFT JOIN (
			SELECT client_id, count() AS cnt
			FROM interactions
			WHERE timestamp >= ?
			GROUP BY client_id
		) ri ON ri.client_id = c.client_id
		LEFT JOIN (
			SELECT client_id, count() AS cnt
			FROM interactions
			WHERE timestamp >= ? AND timestamp < ?
			GROUP BY client_id
		) pi ON pi.client_id = c.client_id
	`

	var results []*ChurnWindowRow
	err := r.executor.Select(ctx, "client_churn", query, func(rows driver.Rows) error {
		results = nil
		for rows.Next() {
			var row ChurnWindowRow
			var recentCnt, priorCnt uint64

			if err := rows.Scan(
				&row.ClientID,
				&row.FirstName,
				&row.LastName,
				&row.NetWorthEstimate,
				&row.RecentBalance,
				&row.PriorBalance,
				&recentCnt,
				&priorCnt,
			); err != nil {
				return err
			}

			row.RecentInteractions = int64(recentCnt)
			row.PriorInteractions = int64(priorCnt)
			results = append(results, &row)
		}
		return nil
	}, recentStart, priorStart, recentStart, recentStart, priorStart, recentStart)
	return results, err
}

// OutreachCandidateRow holds the raw outreach inputs for one client. The
// life-event date is the client's profile update timestamp, which is when
// the event was recorded.
type OutreachCandidateRow struct {
	ClientID    string
	FirstName   string
	LastName    string
	LifeEvent   *string
	LastUpdate  time.Time
	LastContact *time.Time
}

// OutreachRows returns every client with their life event and last-contact
// timestamp
func (r *ClientRepository) OutreachRows(ctx context.Context) ([]*OutreachCandidateRow, error) {
	query := `
		SELECT c.client_id, c.first_name, c.last_name, c.life_event,
		       c.last_update_timestamp,
		       if(countIf(i.interaction_id != '') = 0, NULL, max(i.timestamp)) AS last_contact
		FROM clients c
		LEFT JOIN interactions i ON i.client_id = c.client_id
		GROUP BY c.client_id, c.first_name, c.last_name, c.life_event, c.last_update_timestamp
	`

	var results []*OutreachCandidateRow
	err := r.executor.Select(ctx, "client_outreach", query, func(rows driver.Rows) error {
		results = nil
		for rows.Next() {
			var row OutreachCandidateRow

			if err := rows.Scan(
				&row.ClientID,
				&row.FirstName,
				&row.LastName,
				&row.LifeEvent,
				&row.LastUpdate,
				&row.LastContact,
			); err != nil {
				return err
			}

			results = append(results, &row)
		}
		return nil
	})
	return results, err
}

// CountMarketEventsSince returns the number of market events that started or
// ended at or after the given time
func (r *ClientRepository) CountMarketEventsSince(ctx context.Context, since time.Time) (int64, error) {
	query := `
		SELECT count() FROM market_events
		WHERE start_date >= ? OR end_date >= ?
	`

	var count int64
	err := r.executor.Select(ctx, "market_events_recent", query, func(rows driver.Rows) error {
		count = 0
		for rows.Next() {
			var c uint64
			if err := rows.Scan(&c); err != nil {
				return err
			}
			count = int64(c)
		}
		return nil
	}, since, since)
	return count, err
}

// ComplianceCandidateRow holds the raw profile-freshness inputs for one client
type ComplianceCandidateRow struct {
	ClientID   string
	FirstName  string
	LastName   string
	DateJoined time.Time
	LastUpdate time.Time
	LifeEvent  *string
}

// ComplianceRows returns every client's profile timestamps for review
// classification
func (r *ClientRepository) ComplianceRows(ctx context.Context) ([]*ComplianceCandidateRow, error) {
	query := `
		SELECT client_id, first_name, last_name, date_joined,
		       last_update_timestamp, life_event
		FROM clients
		ORDER BY last_update_timestamp ASC
	`

	var results []*ComplianceCandidateRow
	err := r.executor.Select(ctx, "client_compliance", query, func(rows driver.Rows) error {
		results = nil
		for rows.Next() {
			var row ComplianceCandidateRow

			if err := rows.Scan(
				&row.ClientID,
				&row.FirstName,
				&row.LastName,
				&row.DateJoined,
				&row.LastUpdate,
				&row.LifeEvent,
			); err != nil {
				return err
			}

			results = append(results, &row)
		}
		return nil
	})
	return results, err
}

// ActionCandidateRow holds the raw inputs for next-best-action scoring
type ActionCandidateRow struct {
	ClientID         string
	FirstName        string
	LastName         string
	Age              uint8
	NetWorthEstimate float64
	AnnualIncome     float64
	RiskTolerance    types.RiskTolerance
	LifeEvent        *string
	TotalAUM         float64
	NumPortfolios    int64
}

// NextBestActionRows returns every client with their portfolio count and
// latest-snapshot AUM
func (r *ClientRepository) NextBestActionRows(ctx context.Context) ([]*ActionCandidateRow, error) {
	query := `
		SELECT c.client_id, c.first_name, c.last_name, c.age,
		       c.net_worth_estimate, c.annual_income, c.risk_tolerance,
		       c.life_event, pv.total_value, pc.num_portfolios
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
		LEFT JOIN (
			SELECT client_id, count() AS num_portfolios
			FROM portfolios
			GROUP BY client_id
		) pc ON pc.client_id = c.client_id
		ORDER BY c.net_worth_estimate DESC
	`

	var results []*ActionCandidateRow
	err := r.executor.Select(ctx, "client_next_best_actions", query, func(rows driver.Rows) error {
		results = nil
		for rows.Next() {
			var row ActionCandidateRow
			var toleranceStr string
			var numPortfolios uint64

			if err := rows.Scan(
				&row.ClientID,
				&row.FirstName,
				&row.LastName,
				&row.Age,
				&row.NetWorthEstimate,
				&row.AnnualIncome,
				&toleranceStr,
				&row.LifeEvent,
				&row.TotalAUM,
				&numPortfolios,
			); err != nil {
				return err
			}

			row.RiskTolerance = types.RiskTolerance(toleranceStr)
			row.NumPortfolios = int64(numPortfolios)
			results = append(results, &row)
		}
		return nil
	})
	return results, err
}

// BriefingOverview returns the profile section of a client briefing, or nil
// when the client does not exist
func (r *ClientRepository) BriefingOverview(ctx context.Context, clientID string) (*models.ClientOverview, error) {
	query := `
		SELECT c.client_id, c.first_name, c.last_name, c.risk_tolerance,
		       c.net_worth_estimate, c.life_event, c.last_update_timestamp,
		       pc.num_portfolios, ar.num_advisors
		FROM clients c
		LEFT JOIN (
			SELECT client_id, count() AS num_portfolios
			FROM portfolios
			GROUP BY client_id
		) pc ON pc.client_id = c.client_id
		LEFT JOIN (
			SELECT client_id, uniqExact(advisor_id) AS num_advisors
			FROM advisor_client_relationships
			WHERE status = ?
			GROUP BY client_id
		) ar ON ar.client_id = c.client_id
		WHERE c.client_id = ?
	`

	var overview *models.ClientOverview
	err := r.executor.Select(ctx, "client_briefing_overview", query, func(rows driver.Rows) error {
		overview = nil
		for rows.Next() {
			var o models.ClientOverview
			var toleranceStr string
			var lastUpdate time.Time
			var numPortfolios, numAdvisors uint64

			if err := rows.Scan(
				&o.ClientID,
				&o.FirstName,
				&o.LastName,
				&toleranceStr,
				&o.NetWorthEstimate,
				&o.LifeEvent,
				&lastUpdate,
				&numPortfolios,
				&numAdvisors,
			); err != nil {
				return err
			}

			o.RiskTolerance = types.RiskTolerance(toleranceStr)
			o.NumPortfolios = int64(numPortfolios)
			o.NumAdvisors = int64(numAdvisors)
			if o.LifeEvent != nil {
				o.LifeEventDate = &lastUpdate
			}
			overview = &o
		}
		return nil
	}, string(types.RelationshipActive), clientID)
	return overview, err
}

// BriefingPortfolios returns the client's portfolios with their
// latest-snapshot values. Portfolios without snapshots carry zero value.
func (r *ClientRepository) BriefingPortfolios(ctx context.Context, clientID string) ([]models.BriefingPortfolio, error) {
	query := `
		SELECT p.portfolio_id, p.strategy_type, t.total_value
		FROM portfolios p
		LEFT JOIN (
			SELECT ph.portfolio_id AS portfolio_id, sum(ph.market_value) AS total_value
			FROM position_history ph
			INNER JOIN (
				SELECT portfolio_id, max(timestamp) AS latest_ts
				FROM position_history
				GROUP BY portfolio_id
			) latest ON ph.portfolio_id = latest.portfolio_id AND ph.timestamp = latest.latest_ts
			GROUP BY ph.portfolio_id
		) t ON t.portfolio_id = p.portfolio_id
		WHERE p.client_id = ?
		ORDER BY t.total_value DESC
	`

	var results []models.BriefingPortfolio
	err := r.executor.Select(ctx, "client_briefing_portfolios", query, func(rows driver.Rows) error {
		results = nil
		for rows.Next() {
			var row models.BriefingPortfolio
			var strategyStr string

			if err := rows.Scan(&row.PortfolioID, &strategyStr, &row.CurrentValue); err != nil {
				return err
			}

			row.StrategyType = types.StrategyType(strategyStr)
			results = append(results, row)
		}
		return nil
	}, clientID)
	return results, err
}
