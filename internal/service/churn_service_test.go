package service

import (
	"context"
	"testing"
	"time"

	"github.com/wealth-analytics/internal/policy"
	"github.com/wealth-analytics/internal/storage"
	"github.com/wealth-analytics/internal/types"
)

func newTestChurnService(repo *mockClientRepo) *ChurnService {
	s := NewChurnService(repo, nil, 30*time.Second, policy.Default())
	s.clock = func() time.Time { return testNow }
	return s
}

func TestChurnRiskLadder(t *testing.T) {
	repo := &mockClientRepo{
		churn: []*storage.ChurnWindowRow{
			// Balance down 60% and interactions down 60% -> High
			{ClientID: "c1", RecentBalance: 40_000, PriorBalance: 100_000, RecentInteractions: 2, PriorInteractions: 5},
			// Balance down 15% -> Medium
			{ClientID: "c2", RecentBalance: 85_000, PriorBalance: 100_000, RecentInteractions: 5, PriorInteractions: 5},
			// Interactions down 40% -> Medium
			{ClientID: "c3", RecentBalance: 100_000, PriorBalance: 100_000, RecentInteractions: 3, PriorInteractions: 5},
			// Stable -> Low
			{ClientID: "c4", RecentBalance: 100_000, PriorBalance: 100_000, RecentInteractions: 5, PriorInteractions: 5},
		},
	}
	svc := newTestChurnService(repo)

	rows := svc.ChurnRisk(context.Background())
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}

	expected := map[string]types.AlertLevel{
		"c1": types.AlertHigh,
		"c2": types.AlertMedium,
		"c3": types.AlertMedium,
		"c4": types.AlertLow,
	}
	for _, row := range rows {
		if row.RiskLevel != expected[row.ClientID] {
			t.Errorf("Client %s: expected %q, got %q", row.ClientID, expected[row.ClientID], row.RiskLevel)
		}
	}
}

func TestChurnIneligibleWithoutPriorBalance(t *testing.T) {
	repo := &mockClientRepo{
		churn: []*storage.ChurnWindowRow{
			{ClientID: "c1", RecentBalance: 50_000, PriorBalance: 0, RecentInteractions: 0, PriorInteractions: 0},
		},
	}
	svc := newTestChurnService(repo)

	rows := svc.ChurnRisk(context.Background())
	if len(rows) != 0 {
		t.Errorf("Expected new clients to be excluded, got %d rows", len(rows))
	}
}

func TestChurnHighNeedsBothSignals(t *testing.T) {
	// Balance collapsed but engagement held up: Medium, not High
	repo := &mockClientRepo{
		churn: []*storage.ChurnWindowRow{
			{ClientID: "c1", RecentBalance: 30_000, PriorBalance: 100_000, RecentInteractions: 5, PriorInteractions: 5},
		},
	}
	svc := newTestChurnService(repo)

	rows := svc.ChurnRisk(context.Background())
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].RiskLevel != types.AlertMedium {
		t.Errorf("Expected Medium with only the balance signal, got %q", rows[0].RiskLevel)
	}
}

func TestChurnWarehouseFailure(t *testing.T) {
	svc := newTestChurnService(&mockClientRepo{shouldFail: true})
	rows := svc.ChurnRisk(context.Background())
	if rows == nil || len(rows) != 0 {
		t.Errorf("Expected empty result on failure, got %v", rows)
	}
}
