package service

import (
	"context"
	"testing"
	"time"

	"github.com/wealth-analytics/internal/policy"
	"github.com/wealth-analytics/internal/storage"
	"github.com/wealth-analytics/internal/types"
)

func newTestActionService(repo *mockClientRepo) *ActionService {
	return NewActionService(repo, nil, 30*time.Second, policy.Default())
}

func TestNextBestActionLadder(t *testing.T) {
	repo := &mockClientRepo{
		actions: []*storage.ActionCandidateRow{
			// No portfolios at all
			{ClientID: "c1", NetWorthEstimate: 500_000, AnnualIncome: 100_000, RiskTolerance: types.RiskModerate, NumPortfolios: 0},
			// Holds almost nothing with the firm relative to net worth
			{ClientID: "c2", NetWorthEstimate: 2_000_000, AnnualIncome: 300_000, RiskTolerance: types.RiskModerate, NumPortfolios: 1, TotalAUM: 50_000},
			// Aggressive Growth at 60
			{ClientID: "c3", Age: 60, NetWorthEstimate: 2_000_000, AnnualIncome: 300_000, RiskTolerance: types.RiskAggressiveGrowth, NumPortfolios: 2, TotalAUM: 1_500_000},
			// Life event on file
			{ClientID: "c4", Age: 40, NetWorthEstimate: 2_000_000, AnnualIncome: 300_000, RiskTolerance: types.RiskModerate, LifeEvent: strPtr("Marriage"), NumPortfolios: 2, TotalAUM: 1_500_000},
			// Net worth more than 10x income
			{ClientID: "c5", Age: 40, NetWorthEstimate: 4_000_000, AnnualIncome: 300_000, RiskTolerance: types.RiskModerate, NumPortfolios: 2, TotalAUM: 3_000_000},
			// Very high net worth, moderate saver
			{ClientID: "c6", Age: 40, NetWorthEstimate: 6_000_000, AnnualIncome: 1_000_000, RiskTolerance: types.RiskModerate, NumPortfolios: 2, TotalAUM: 5_000_000},
			// Nothing stands out
			{ClientID: "c7", Age: 40, NetWorthEstimate: 400_000, AnnualIncome: 150_000, RiskTolerance: types.RiskModerate, NumPortfolios: 1, TotalAUM: 350_000},
		},
	}
	svc := newTestActionService(repo)

	rows := svc.NextBestActions(context.Background())
	if len(rows) != 7 {
		t.Fatalf("Expected 7 rows, got %d", len(rows))
	}

	expected := map[string]string{
		"c1": "Portfolio Setup",
		"c2": "Investment Advisory",
		"c3": "Risk Adjustment",
		"c4": "Life Event Planning",
		"c5": "Alternative Investments",
		"c6": "Private Banking",
		"c7": "Portfolio Review",
	}
	for _, row := range rows {
		if row.RecommendedAction != expected[row.ClientID] {
			t.Errorf("Client %s: expected %q, got %q", row.ClientID, expected[row.ClientID], row.RecommendedAction)
		}
	}
}

func TestNextBestActionPriorityAndImpact(t *testing.T) {
	repo := &mockClientRepo{
		actions: []*storage.ActionCandidateRow{
			{ClientID: "c1", NetWorthEstimate: 20_000_000, AnnualIncome: 1_000_000, RiskTolerance: types.RiskModerate, NumPortfolios: 1, TotalAUM: 15_000_000},
			{ClientID: "c2", NetWorthEstimate: 2_000_000, AnnualIncome: 300_000, RiskTolerance: types.RiskModerate, NumPortfolios: 1, TotalAUM: 1_500_000},
			{ClientID: "c3", NetWorthEstimate: 500_000, AnnualIncome: 150_000, RiskTolerance: types.RiskModerate, NumPortfolios: 1, TotalAUM: 400_000},
		},
	}
	svc := newTestActionService(repo)

	rows := svc.NextBestActions(context.Background())

	if rows[0].Priority != types.AlertHigh || rows[0].RevenueImpact != 400_000 {
		t.Errorf("c1: expected High/400000, got %q/%f", rows[0].Priority, rows[0].RevenueImpact)
	}
	if rows[1].Priority != types.AlertMedium || rows[1].RevenueImpact != 30_000 {
		t.Errorf("c2: expected Medium/30000, got %q/%f", rows[1].Priority, rows[1].RevenueImpact)
	}
	if rows[2].Priority != types.AlertLow || rows[2].RevenueImpact != 5_000 {
		t.Errorf("c3: expected Low/5000, got %q/%f", rows[2].Priority, rows[2].RevenueImpact)
	}
}

func TestNextBestActionSavingsBehavior(t *testing.T) {
	repo := &mockClientRepo{
		actions: []*storage.ActionCandidateRow{
			{ClientID: "c1", NetWorthEstimate: 4_000_000, AnnualIncome: 300_000, RiskTolerance: types.RiskModerate, NumPortfolios: 1, TotalAUM: 3_000_000},
			{ClientID: "c2", NetWorthEstimate: 2_000_000, AnnualIncome: 300_000, RiskTolerance: types.RiskModerate, NumPortfolios: 1, TotalAUM: 1_500_000},
			{ClientID: "c3", NetWorthEstimate: 400_000, AnnualIncome: 300_000, RiskTolerance: types.RiskModerate, NumPortfolios: 1, TotalAUM: 350_000},
		},
	}
	svc := newTestActionService(repo)

	rows := svc.NextBestActions(context.Background())
	expected := map[string]string{
		"c1": policy.SaverHigh,
		"c2": policy.SaverModerate,
		"c3": policy.SaverActive,
	}
	for _, row := range rows {
		if row.SavingsBehavior != expected[row.ClientID] {
			t.Errorf("Client %s: expected %q, got %q", row.ClientID, expected[row.ClientID], row.SavingsBehavior)
		}
	}
}

func TestNextBestActionWarehouseFailure(t *testing.T) {
	svc := newTestActionService(&mockClientRepo{shouldFail: true})
	rows := svc.NextBestActions(context.Background())
	if rows == nil || len(rows) != 0 {
		t.Errorf("Expected empty result on failure, got %v", rows)
	}
}
