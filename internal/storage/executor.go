package storage

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/sirupsen/logrus"

	"github.com/wealth-analytics/internal/circuitbreaker"
	"github.com/wealth-analytics/internal/config"
	"github.com/wealth-analytics/internal/errors"
	"github.com/wealth-analytics/internal/logging"
	"github.com/wealth-analytics/internal/retry"
)

// ScanFunc consumes the rows of one query attempt. On retry the function is
// called again with a fresh result set, so implementations must reset any
// partial state they accumulated.
type ScanFunc func(rows driver.Rows) error

// Executor runs warehouse queries with a per-query timeout, bounded retries
// for transient failures, and query metrics. All analytics repositories go
// through it.
type Executor struct {
	db       *WarehouseDB
	timeout  time.Duration
	retryCfg *retry.Config
	breaker  *circuitbreaker.CircuitBreaker
}

// NewExecutor creates a query executor from the query settings
func NewExecutor(db *WarehouseDB, cfg *config.QueryConfig) *Executor {
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.MaxRetries + 1

	return &Executor{
		db:       db,
		timeout:  cfg.Timeout,
		retryCfg: retryCfg,
		breaker:  circuitbreaker.New(circuitbreaker.DefaultConfig("warehouse")),
	}
}

// Select executes a query and streams the rows into scan. The operation name
// labels metrics and log entries.
func (e *Executor) Select(ctx context.Context, operation string, query string, scan ScanFunc, args ...interface{}) error {
	startTime := time.Now()

	err := e.breaker.Execute(func() error {
		result := retry.WithExponentialBackoff(ctx, e.retryCfg, func(ctx context.Context, attempt int) error {
			if attempt > 1 {
				queryRetriesTotal.WithLabelValues(operation).Inc()
			}
			return e.attempt(ctx, operation, query, scan, args)
		})

		if !result.Success {
			logging.FromContext(ctx).WithFields(logrus.Fields{
				"operation": operation,
				"attempts":  result.Attempts,
				"duration":  result.TotalDuration,
				"error":     result.LastError,
			}).Error("Warehouse query failed")

			return result.LastError
		}

		return nil
	})

	queryDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())

	if err != nil {
		reason := "query"
		switch {
		case stderrors.Is(err, circuitbreaker.ErrCircuitOpen):
			reason = "circuit_open"
			err = errors.NewServiceUnavailableError("warehouse")
		default:
			if catErr := errors.Categorize(err); catErr != nil && catErr.Code == "QUERY_TIMEOUT" {
				reason = "timeout"
			}
		}
		queryErrorsTotal.WithLabelValues(operation, reason).Inc()

		return err
	}

	return nil
}

// attempt runs a single query attempt under the per-query timeout
func (e *Executor) attempt(ctx context.Context, operation string, query string, scan ScanFunc, args []interface{}) error {
	attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	rows, err := e.db.Conn().Query(attemptCtx, query, args...)
	if err != nil {
		return e.classify(attemptCtx, operation, err)
	}
	defer rows.Close()

	if err := scan(rows); err != nil {
		// Scan errors are shape mismatches, retrying will not help
		return errors.NewInternalError("failed to scan warehouse rows", err)
	}

	if err := rows.Err(); err != nil {
		return e.classify(attemptCtx, operation, err)
	}

	return nil
}

// classify maps a driver error onto the error taxonomy
func (e *Executor) classify(ctx context.Context, operation string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError(operation)
	}
	return errors.NewWarehouseError(operation, err)
}

// Ping checks warehouse reachability
func (e *Executor) Ping(ctx context.Context) error {
	return e.db.Ping(ctx)
}
