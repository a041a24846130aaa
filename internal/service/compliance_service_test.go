package service

import (
	"context"
	"testing"
	"time"

	"github.com/wealth-analytics/internal/policy"
	"github.com/wealth-analytics/internal/storage"
	"github.com/wealth-analytics/internal/types"
)

func newTestComplianceService(repo *mockClientRepo) *ComplianceService {
	s := NewComplianceService(repo, nil, 30*time.Second, policy.Default())
	s.clock = func() time.Time { return testNow }
	return s
}

func TestComplianceReviewLadder(t *testing.T) {
	repo := &mockClientRepo{
		compliance: []*storage.ComplianceCandidateRow{
			{ClientID: "c1", LastUpdate: daysAgo(400)},
			{ClientID: "c2", LastUpdate: daysAgo(200)},
			{ClientID: "c3", LastUpdate: daysAgo(10), LifeEvent: strPtr("Marriage")},
		},
	}
	svc := newTestComplianceService(repo)

	rows := svc.ComplianceReviews(context.Background())
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}

	expected := map[string]struct {
		status   string
		priority types.AlertLevel
	}{
		"c1": {policy.ComplianceAnnualReview, types.AlertHigh},
		"c2": {policy.ComplianceSemiAnnual, types.AlertMedium},
		"c3": {policy.ComplianceLifeEvent, types.AlertMedium},
	}
	for _, row := range rows {
		want := expected[row.ClientID]
		if row.Status != want.status {
			t.Errorf("Client %s: expected status %q, got %q", row.ClientID, want.status, row.Status)
		}
		if row.Priority != want.priority {
			t.Errorf("Client %s: expected priority %q, got %q", row.ClientID, want.priority, row.Priority)
		}
	}
}

func TestComplianceCurrentClientsExcluded(t *testing.T) {
	repo := &mockClientRepo{
		compliance: []*storage.ComplianceCandidateRow{
			{ClientID: "c1", LastUpdate: daysAgo(30)},
			// Life event but updated 45 days ago: outside the life-event window
			{ClientID: "c2", LastUpdate: daysAgo(45), LifeEvent: strPtr("Retirement")},
		},
	}
	svc := newTestComplianceService(repo)

	rows := svc.ComplianceReviews(context.Background())
	if len(rows) != 0 {
		t.Errorf("Expected current clients to be excluded, got %d rows", len(rows))
	}
}

func TestComplianceDaysSinceUpdate(t *testing.T) {
	repo := &mockClientRepo{
		compliance: []*storage.ComplianceCandidateRow{
			{ClientID: "c1", LastUpdate: daysAgo(400)},
		},
	}
	svc := newTestComplianceService(repo)

	rows := svc.ComplianceReviews(context.Background())
	if rows[0].DaysSinceUpdate != 400 {
		t.Errorf("Expected 400 days since update, got %d", rows[0].DaysSinceUpdate)
	}
}

func TestComplianceWarehouseFailure(t *testing.T) {
	svc := newTestComplianceService(&mockClientRepo{shouldFail: true})
	rows := svc.ComplianceReviews(context.Background())
	if rows == nil || len(rows) != 0 {
		t.Errorf("Expected empty result on failure, got %v", rows)
	}
}
