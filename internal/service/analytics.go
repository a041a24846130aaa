// Package service implements the analytics engines. Each engine reads raw
// aggregates through a repository interface, classifies them against the
// policy, and caches the typed result. Engines fail open: a backend error is
// logged and an empty result returned, so one broken panel never takes down
// the rest of the dashboard.
package service

import (
	"context"
	"time"

	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/storage"
)

// Repository interfaces for dependency injection

// KPIRepository provides the firm-level aggregates
type KPIRepository interface {
	Counts(ctx context.Context) (numClients int64, numAdvisors int64, err error)
	AUM(ctx context.Context) (float64, error)
	AUMAsOf(ctx context.Context, asOf time.Time) (float64, error)
}

// ClientRepository provides client-centric raw aggregates
type ClientRepository interface {
	SegmentRows(ctx context.Context) ([]*models.WealthSegmentRow, error)
	EngagementRows(ctx context.Context) ([]*models.EngagementRow, error)
	ChurnRows(ctx context.Context, recentStart, priorStart time.Time) ([]*storage.ChurnWindowRow, error)
	OutreachRows(ctx context.Context) ([]*storage.OutreachCandidateRow, error)
	CountMarketEventsSince(ctx context.Context, since time.Time) (int64, error)
	ComplianceRows(ctx context.Context) ([]*storage.ComplianceCandidateRow, error)
	NextBestActionRows(ctx context.Context) ([]*storage.ActionCandidateRow, error)
	BriefingOverview(ctx context.Context, clientID string) (*models.ClientOverview, error)
	BriefingPortfolios(ctx context.Context, clientID string) ([]models.BriefingPortfolio, error)
}

// PortfolioRepository provides portfolio-level raw aggregates
type PortfolioRepository interface {
	SuitabilityRows(ctx context.Context) ([]*storage.SuitabilityRow, error)
	PositionShares(ctx context.Context) ([]*storage.PositionShareRow, error)
	Allocations(ctx context.Context) ([]*storage.AllocationRow, error)
	CashPositions(ctx context.Context) ([]*storage.CashPositionRow, error)
}

// TransactionRepository provides anomaly-detection inputs
type TransactionRepository interface {
	TypeStats(ctx context.Context, since time.Time) ([]*storage.TxnTypeStats, error)
	Window(ctx context.Context, since time.Time) ([]*storage.WindowRow, error)
}

// InteractionRepository provides interaction notes for sentiment analysis
type InteractionRepository interface {
	RecentNotes(ctx context.Context, since time.Time) ([]*storage.NoteRow, error)
}

// GeoRepository provides geographic rollups
type GeoRepository interface {
	StateRollups(ctx context.Context) ([]*models.GeoRollupRow, error)
	ZipRollups(ctx context.Context, state string) ([]*models.GeoRollupRow, error)
}

// AdvisorRepository provides advisor coverage aggregates
type AdvisorRepository interface {
	ProductivityRows(ctx context.Context, recentSince time.Time) ([]*models.AdvisorProductivityRow, error)
}

// ResultCache is the slice of the cache service the engines use
type ResultCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GenerateCacheKey(keyType storage.CacheKeyType, params ...string) string
	GenerateResultKey(operation string, paramsHash string) string
}

// resultParams is the hashed identity of one cached result
type resultParams struct {
	Operation string      `json:"operation"`
	Params    interface{} `json:"params,omitempty"`
}

// fetchCached serves an engine result from cache when present, otherwise
// computes it and stores it. Cache failures degrade to a direct fetch; a nil
// cache disables caching entirely.
func fetchCached[T any](ctx context.Context, cache ResultCache, ttl time.Duration, operation string, params interface{}, fetch func(context.Context) (T, error)) (T, error) {
	if cache == nil {
		return fetch(ctx)
	}

	var zero T
	hash, err := storage.HashParams(resultParams{Operation: operation, Params: params})
	if err != nil {
		return zero, err
	}
	key := cache.GenerateResultKey(operation, hash)

	var cached T
	found, err := cache.Get(ctx, key, &cached)
	if err != nil {
		storage.CacheError(operation)
	} else if found {
		storage.CacheHit(operation)
		return cached, nil
	} else {
		storage.CacheMiss(operation)
	}

	result, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	// Cache set failures are not fatal, next request recomputes
	_ = cache.SetWithTTL(ctx, key, result, ttl)

	return result, nil
}

// daysBetween returns whole days from then to now, used by the recency ladders
func daysBetween(then, now time.Time) int64 {
	return int64(now.Sub(then).Hours() / 24)
}
