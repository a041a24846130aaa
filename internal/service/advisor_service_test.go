package service

import (
	"context"
	"testing"
	"time"

	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/policy"
)

func newTestAdvisorService(repo *mockAdvisorRepo) *AdvisorService {
	s := NewAdvisorService(repo, nil, 30*time.Second, policy.Default())
	s.clock = func() time.Time { return testNow }
	return s
}

func TestAdvisorProductivityRatios(t *testing.T) {
	repo := &mockAdvisorRepo{
		rows: []*models.AdvisorProductivityRow{
			{AdvisorID: "a1", TotalClients: 10, TotalAUM: 50_000_000, TotalInteractions: 40, RecentInteractions: 5},
			{AdvisorID: "a2", TotalClients: 0, TotalAUM: 0, TotalInteractions: 3},
		},
	}
	svc := newTestAdvisorService(repo)

	rows := svc.AdvisorProductivity(context.Background(), 30)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	if rows[0].AUMPerClient != 5_000_000 {
		t.Errorf("Expected 5M AUM per client, got %f", rows[0].AUMPerClient)
	}
	if rows[0].InteractionsPerClient != 4 {
		t.Errorf("Expected 4 interactions per client, got %f", rows[0].InteractionsPerClient)
	}

	// No active clients: ratios stay zero instead of dividing by zero
	if rows[1].AUMPerClient != 0 || rows[1].InteractionsPerClient != 0 {
		t.Errorf("Expected zero ratios for advisor without clients, got %f/%f", rows[1].AUMPerClient, rows[1].InteractionsPerClient)
	}
}

func TestAdvisorProductivityDefaultWindow(t *testing.T) {
	repo := &mockAdvisorRepo{}
	svc := newTestAdvisorService(repo)
	svc.policy.Advisor.RecentWindowDays = 7

	rows := svc.AdvisorProductivity(context.Background(), 0)
	if rows == nil {
		t.Error("Expected empty slice, got nil")
	}

	want := testNow.AddDate(0, 0, -7)
	if !repo.gotSince.Equal(want) {
		t.Errorf("Expected policy window %v, got %v", want, repo.gotSince)
	}
}

func TestAdvisorProductivityWarehouseFailure(t *testing.T) {
	svc := newTestAdvisorService(&mockAdvisorRepo{shouldFail: true})
	rows := svc.AdvisorProductivity(context.Background(), 30)
	if rows == nil || len(rows) != 0 {
		t.Errorf("Expected empty result on failure, got %v", rows)
	}
}
