package storage

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/wealth-analytics/internal/types"
)

// PortfolioRepository reads portfolio-level aggregates from the warehouse.
// Every query is anchored on the latest snapshot per portfolio.
type PortfolioRepository struct {
	executor *Executor
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(executor *Executor) *PortfolioRepository {
	return &PortfolioRepository{executor: executor}
}

// SuitabilityRow pairs a portfolio's strategy with its owner's tolerance
type SuitabilityRow struct {
	ClientID       string
	FirstName      string
	LastName       string
	RiskTolerance  types.RiskTolerance
	PortfolioID    string
	StrategyType   types.StrategyType
	PortfolioValue float64
}

// SuitabilityRows returns every portfolio joined with its owner's risk
// tolerance and latest-snapshot value
func (r *PortfolioRepository) SuitabilityRows(ctx context.Context) ([]*SuitabilityRow, error) {
	query := `
		SELECT c.client_id, c.first_name, c.last_name, c.risk_tolerance,
		       p.portfolio_id, p.strategy_type, t.total_value
		FROM portfolios p
		INNER JOIN clients c ON c.client_id = p.client_id
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
		ORDER BY t.total_value DESC
	`

	var results []*SuitabilityRow
	err := r.executor.Select(ctx, "portfolio_suitability", query, func(rows driver.Rows) error {
		results = nil
		for rows.Next() {
			var row SuitabilityRow
			var toleranceStr, strategyStr string

			if err := rows.Scan(
				&row.ClientID,
				&row.FirstName,
				&row.LastName,
				&toleranceStr,
				&row.PortfolioID,
				&strategyStr,
				&row.PortfolioValue,
			); err != nil {
				return err
			}

			row.RiskTolerance = types.RiskTolerance(toleranceStr)
			row.StrategyType = types.StrategyType(strategyStr)
			results = append(results, &row)
		}
		return nil
	})
	return results, err
}

// PositionShareRow is one non-cash position with its portfolio's invested
// total at the latest snapshot
type PositionShareRow struct {
	PortfolioID   string
	ClientID      string
	Ticker        string
	AssetClass    types.AssetClass
	MarketValue   float64
	InvestedValue float64
}

// PositionShares returns every non-cash position at the latest snapshot
// together with the portfolio's invested (non-cash) total. Portfolios with a
// zero invested total produce no rows.
func (r *PortfolioRepository) PositionShares(ctx context.Context) ([]*PositionShareRow, error) {
	query := `
		SELECT p.portfolio_id, p.client_id, ph.ticker, ph.asset_class,
		       ph.market_value, inv.invested_value
		FROM position_history ph
		INNER JOIN (
			SELECT portfolio_id, max(timestamp) AS latest_ts
			FROM position_history
			GROUP BY portfolio_id
		) latest ON ph.portfolio_id = latest.portfolio_id AND ph.timestamp = latest.latest_ts
		INNER JOIN portfolios p ON p.portfolio_id = ph.portfolio_id
		INNER JOIN (
			SELECT ph2.portfolio_id AS portfolio_id, sum(ph2.market_value) AS invested_value
			FROM position_history ph2
			INNER JOIN (
				SELECT portfolio_id, max(timestamp) AS latest_ts
				FROM position_history
				GROUP BY portfolio_id
			) l2 ON ph2.portfolio_id = l2.portfolio_id AND ph2.timestamp = l2.latest_ts
			WHERE ph2.ticker != ?
			GROUP BY ph2.portfolio_id
			HAVING sum(ph2.market_value) > 0
		) inv ON inv.portfolio_id = ph.portfolio_id
		WHERE ph.ticker != ?
		ORDER BY ph.market_value DESC
	`

	var results []*PositionShareRow
	err := r.executor.Select(ctx, "portfolio_concentration", query, func(rows driver.Rows) error {
		results = nil
		for rows.Next() {
			var row PositionShareRow
			var classStr string

			if err := rows.Scan(
				&row.PortfolioID,
				&row.ClientID,
				&row.Ticker,
				&classStr,
				&row.MarketValue,
				&row.InvestedValue,
			); err != nil {
				return err
			}

			row.AssetClass = types.AssetClass(classStr)
			results = append(results, &row)
		}
		return nil
	}, types.CashTicker, types.CashTicker)
	return results, err
}

// AllocationRow is one portfolio's current value in one asset class at the
// latest snapshot
type AllocationRow struct {
	PortfolioID  string
	StrategyType types.StrategyType
	AssetClass   types.AssetClass
	ClassValue   float64
}

// Allocations returns per-portfolio, per-asset-class values at the latest
// snapshot. Cash is included; the drift denominator is the full portfolio
// value.
func (r *PortfolioRepository) Allocations(ctx context.Context) ([]*AllocationRow, error) {
	query := `
		SELECT p.portfolio_id, p.strategy_type, ph.asset_class,
		       sum(ph.market_value) AS class_value
		FROM portfolios p
		INNER JOIN position_history ph ON ph.portfolio_id = p.portfolio_id
		INNER JOIN (
			SELECT portfolio_id, max(timestamp) AS latest_ts
			FROM position_history
			GROUP BY portfolio_id
		) latest ON ph.portfolio_id = latest.portfolio_id AND ph.timestamp = latest.latest_ts
		GROUP BY p.portfolio_id, p.strategy_type, ph.asset_class
		ORDER BY p.portfolio_id, ph.asset_class
	`

	var results []*AllocationRow
	err := r.executor.Select(ctx, "portfolio_allocations", query, func(rows driver.Rows) error {
		results = nil
		for rows.Next() {
			var row AllocationRow
			var strategyStr, classStr string

			if err := rows.Scan(
				&row.PortfolioID,
				&strategyStr,
				&classStr,
				&row.ClassValue,
			); err != nil {
				return err
			}

			row.StrategyType = types.StrategyType(strategyStr)
			row.AssetClass = types.AssetClass(classStr)
			results = append(results, &row)
		}
		return nil
	})
	return results, err
}

// CashPositionRow is one portfolio's cash balance against its total value
type CashPositionRow struct {
	PortfolioID   string
	ClientID      string
	FirstName     string
	LastName      string
	RiskTolerance types.RiskTolerance
	StrategyType  types.StrategyType
	CashBalance   float64
	TotalValue    float64
}

// CashPositions returns per-portfolio cash balances and totals at the latest
// snapshot
func (r *PortfolioRepository) CashPositions(ctx context.Context) ([]*CashPositionRow, error) {
	query := `
		SELECT p.portfolio_id, p.client_id, c.first_name, c.last_name,
		       c.risk_tolerance, p.strategy_type,
		       sumIf(ph.market_value, ph.ticker = ?) AS cash_balance,
		       sum(ph.market_value) AS total_value
		FROM portfolios p
		INNER JOIN clients c ON c.client_id = p.client_id
		INNER JOIN position_history ph ON ph.portfolio_id = p.portfolio_id
		INNER JOIN (
			SELECT portfolio_id, max(timestamp) AS latest_ts
			FROM position_history
			GROUP BY portfolio_id
		) latest ON ph.portfolio_id = latest.portfolio_id AND ph.timestamp = latest.latest_ts
		GROUP BY p.portfolio_id, p.client_id, c.first_name, c.last_name,
		         c.risk_tolerance, p.strategy_type
		ORDER BY cash_balance DESC
	`

	var results []*CashPositionRow
	err := r.executor.Select(ctx, "portfolio_cash", query, func(rows driver.Rows) error {
		results = nil
		for rows.Next() {
			var row CashPositionRow
			var toleranceStr, strategyStr string

			if err := rows.Scan(
				&row.PortfolioID,
				&row.ClientID,
				&row.FirstName,
				&row.LastName,
				&toleranceStr,
				&strategyStr,
				&row.CashBalance,
				&row.TotalValue,
			); err != nil {
				return err
			}

			row.RiskTolerance = types.RiskTolerance(toleranceStr)
			row.StrategyType = types.StrategyType(strategyStr)
			results = append(results, &row)
		}
		return nil
	}, types.CashTicker)
	return results, err
}
