package storage

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/wealth-analytics/internal/models"
)

// TransactionRepository reads transaction rows and statistics for anomaly
// detection
type TransactionRepository struct {
	executor *Executor
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(executor *Executor) *TransactionRepository {
	return &TransactionRepository{executor: executor}
}

// TxnTypeStats holds the distribution of positive transaction amounts for
// one transaction type
type TxnTypeStats struct {
	TransactionType string
	Mean            float64
	Stddev          float64
	P95             float64
	Count           int64
}

// TypeStats computes per-type amount statistics over positive amounts at or
// after the given time. Types with a single transaction report a zero stddev.
func (r *TransactionRepository) TypeStats(ctx context.Context, since time.Time) ([]*TxnTypeStats, error) {
	query := `
		SELECT transaction_type,
		       avg(total_amount) AS avg_amount,
		       stddevSamp(total_amount) AS stddev_amount,
		       quantile(0.95)(total_amount) AS p95_amount,
		       count() AS txn_count
		FROM transactions
		WHERE total_amount > 0 AND timestamp >= ?
		GROUP BY transaction_type
	`

	var results []*TxnTypeStats
	err := r.executor.Select(ctx, "transaction_type_stats", query, func(rows driver.Rows) error {
		results = nil
		for rows.Next() {
			var row TxnTypeStats
			var count uint64

			if err := rows.Scan(
				&row.TransactionType,
				&row.Mean,
				&row.Stddev,
				&row.P95,
				&count,
			); err != nil {
				return err
			}

			row.Count = int64(count)
			results = append(results, &row)
		}
		return nil
	}, since)
	return results, err
}

// WindowRow is one transaction in the anomaly window joined with the owning
// client
type WindowRow struct {
	Transaction models.Transaction
	ClientID    string
	FirstName   string
	LastName    string
}

// Window returns every transaction at or after the given time with the
// owning client attached
func (r *TransactionRepository) Window(ctx context.Context, since time.Time) ([]*WindowRow, error) {
	query := `
		SELECT t.transaction_id, t.portfolio_id, t.transaction_type, t.ticker,
		       t.quantity, t.price, t.total_amount, t.timestamp,
		       p.client_id, c.first_name, c.last_name
		FROM transactions t
		LEFT JOIN portfolios p ON p.portfolio_id = t.portfolio_id
		LEFT JOIN clients c ON c.client_id = p.client_id
		WHERE t.timestamp >= ?
		ORDER BY t.timestamp DESC
	`

	var results []*WindowRow
	err := r.executor.Select(ctx, "transaction_window", query, func(rows driver.Rows) error {
		results = nil
		for rows.Next() {
			var row WindowRow

			if err := rows.Scan(
				&row.Transaction.TransactionID,
				&row.Transaction.PortfolioID,
				&row.Transaction.Type,
				&row.Transaction.Ticker,
				&row.Transaction.Quantity,
				&row.Transaction.Price,
				&row.Transaction.TotalAmount,
				&row.Transaction.Timestamp,
				&row.ClientID,
				&row.FirstName,
				&row.LastName,
			); err != nil {
				return err
			}

			results = append(results, &row)
		}
		return nil
	}, since)
	return results, err
}
