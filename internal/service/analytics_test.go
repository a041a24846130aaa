package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/storage"
	"github.com/wealth-analytics/internal/types"
)

// redisClientFor connects a go-redis client to a miniredis address
func redisClientFor(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// Mock repositories for testing

// testNow is the fixed clock all engine tests run against
var testNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(days int) time.Time {
	return testNow.AddDate(0, 0, -days)
}

func warehouseDown() error {
	return &types.ServiceError{Code: "WAREHOUSE_ERROR", Message: "connection refused"}
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

type mockKPIRepo struct {
	numClients  int64
	numAdvisors int64
	aum         float64
	aumAsOf     map[int]float64 // keyed by year of the as-of date
	shouldFail  bool
}

func (m *mockKPIRepo) Counts(ctx context.Context) (int64, int64, error) {
	if m.shouldFail {
		return 0, 0, warehouseDown()
	}
	return m.numClients, m.numAdvisors, nil
}

func (m *mockKPIRepo) AUM(ctx context.Context) (float64, error) {
	if m.shouldFail {
		return 0, warehouseDown()
	}
	return m.aum, nil
}

func (m *mockKPIRepo) AUMAsOf(ctx context.Context, asOf time.Time) (float64, error) {
	if m.shouldFail {
		return 0, warehouseDown()
	}
	return m.aumAsOf[asOf.Year()], nil
}

type mockClientRepo struct {
	segments     []*models.WealthSegmentRow
	engagement   []*models.EngagementRow
	churn        []*storage.ChurnWindowRow
	outreach     []*storage.OutreachCandidateRow
	marketEvents int64
	compliance   []*storage.ComplianceCandidateRow
	actions      []*storage.ActionCandidateRow
	overviews    map[string]*models.ClientOverview
	briefings    map[string][]models.BriefingPortfolio
	shouldFail   bool
}

func (m *mockClientRepo) SegmentRows(ctx context.Context) ([]*models.WealthSegmentRow, error) {
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.segments, nil
}

func (m *mockClientRepo) EngagementRows(ctx context.Context) ([]*models.EngagementRow, error) {
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.engagement, nil
}

func (m *mockClientRepo) ChurnRows(ctx context.Context, recentStart, priorStart time.Time) ([]*storage.ChurnWindowRow, error) {
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.churn, nil
}

func (m *mockClientRepo) OutreachRows(ctx context.Context) ([]*storage.OutreachCandidateRow, error) {
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.outreach, nil
}

func (m *mockClientRepo) CountMarketEventsSince(ctx context.Context, since time.Time) (int64, error) {
	if m.shouldFail {
		return 0, warehouseDown()
	}
	return m.marketEvents, nil
}

func (m *mockClientRepo) ComplianceRows(ctx context.Context) ([]*storage.ComplianceCandidateRow, error) {
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.compliance, nil
}

func (m *mockClientRepo) NextBestActionRows(ctx context.Context) ([]*storage.ActionCandidateRow, error) {
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.actions, nil
}

func (m *mockClientRepo) BriefingOverview(ctx context.Context, clientID string) (*models.ClientOverview, error) {
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.overviews[clientID], nil
}

func (m *mockClientRepo) BriefingPortfolios(ctx context.Context, clientID string) ([]models.BriefingPortfolio, error) {
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.briefings[clientID], nil
}

type mockPortfolioRepo struct {
	suitability []*storage.SuitabilityRow
	shares      []*storage.PositionShareRow
	allocations []*storage.AllocationRow
	cash        []*storage.CashPositionRow
	shouldFail  bool
}

func (m *mockPortfolioRepo) SuitabilityRows(ctx context.Context) ([]*storage.SuitabilityRow, error) {
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.suitability, nil
}

func (m *mockPortfolioRepo) PositionShares(ctx context.Context) ([]*storage.PositionShareRow, error) {
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.shares, nil
}

func (m *mockPortfolioRepo) Allocations(ctx context.Context) ([]*storage.AllocationRow, error) {
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.allocations, nil
}

func (m *mockPortfolioRepo) CashPositions(ctx context.Context) ([]*storage.CashPositionRow, error) {
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.cash, nil
}

type mockTransactionRepo struct {
	stats      []*storage.TxnTypeStats
	window     []*storage.WindowRow
	shouldFail bool
}

func (m *mockTransactionRepo) TypeStats(ctx context.Context, since time.Time) ([]*storage.TxnTypeStats, error) {
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.stats, nil
}

func (m *mockTransactionRepo) Window(ctx context.Context, since time.Time) ([]*storage.WindowRow, error) {
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.window, nil
}

type mockInteractionRepo struct {
	notes      []*storage.NoteRow
	shouldFail bool
}

func (m *mockInteractionRepo) RecentNotes(ctx context.Context, since time.Time) ([]*storage.NoteRow, error) {
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.notes, nil
}

type mockGeoRepo struct {
	states     []*models.GeoRollupRow
	zips       map[string][]*models.GeoRollupRow
	shouldFail bool
}

func (m *mockGeoRepo) StateRollups(ctx context.Context) ([]*models.GeoRollupRow, error) {
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.states, nil
}

func (m *mockGeoRepo) ZipRollups(ctx context.Context, state string) ([]*models.GeoRollupRow, error) {
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.zips[state], nil
}

type mockAdvisorRepo struct {
	rows       []*models.AdvisorProductivityRow
	shouldFail bool
	gotSince   time.Time
}

func (m *mockAdvisorRepo) ProductivityRows(ctx context.Context, recentSince time.Time) ([]*models.AdvisorProductivityRow, error) {
	m.gotSince = recentSince
	if m.shouldFail {
		return nil, warehouseDown()
	}
	return m.rows, nil
}
