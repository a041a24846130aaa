package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wealth-analytics/internal/config"
)

// PolicyDB wraps the pgxpool connection to the optional policy store
type PolicyDB struct {
	pool *pgxpool.Pool
}

// NewPolicyDB creates a new policy store connection
func NewPolicyDB(cfg *config.PolicyStoreConfig) (*PolicyDB, error) {
	connString := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable pool_max_conns=%d",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Database,
		cfg.MaxConnections,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections) // #nosec G115 - MaxConnections is validated in config
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping policy store: %w", err)
	}

	return &PolicyDB{pool: pool}, nil
}

// Close closes the connection pool
func (db *PolicyDB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Pool returns the underlying connection pool
func (db *PolicyDB) Pool() *pgxpool.Pool {
	return db.pool
}

// Ping checks if the policy store is reachable
func (db *PolicyDB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}
