package service

import (
	"context"
	"testing"
	"time"

	"github.com/wealth-analytics/internal/models"
	"github.com/wealth-analytics/internal/policy"
)

func newTestSegmentationService(repo *mockClientRepo) *SegmentationService {
	s := NewSegmentationService(repo, nil, 30*time.Second, policy.Default())
	s.clock = func() time.Time { return testNow }
	return s
}

func TestSegmentsLadder(t *testing.T) {
	repo := &mockClientRepo{
		segments: []*models.WealthSegmentRow{
			{ClientID: "c1", NetWorthEstimate: 12_000_000},
			{ClientID: "c2", NetWorthEstimate: 10_000_000}, // inclusive lower bound
			{ClientID: "c3", NetWorthEstimate: 5_000_000},
			{ClientID: "c4", NetWorthEstimate: 1_000_000},
			{ClientID: "c5", NetWorthEstimate: 250_000},
			{ClientID: "c6", NetWorthEstimate: 249_999},
		},
	}
	svc := newTestSegmentationService(repo)

	rows := svc.Segments(context.Background())
	if len(rows) != 6 {
		t.Fatalf("Expected 6 rows, got %d", len(rows))
	}

	expected := []string{
		"Ultra High Net Worth",
		"Ultra High Net Worth",
		"High Net Worth",
		"Affluent",
		"Mass Affluent",
		"Emerging Wealth",
	}
	for i, want := range expected {
		if rows[i].WealthSegment != want {
			t.Errorf("Client %s: expected segment %q, got %q", rows[i].ClientID, want, rows[i].WealthSegment)
		}
	}
}

func TestSegmentsWarehouseFailure(t *testing.T) {
	svc := newTestSegmentationService(&mockClientRepo{shouldFail: true})
	rows := svc.Segments(context.Background())
	if rows == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(rows) != 0 {
		t.Errorf("Expected empty result on failure, got %d rows", len(rows))
	}
}

func TestEngagementDaysSinceContact(t *testing.T) {
	lastWeek := daysAgo(7)
	repo := &mockClientRepo{
		engagement: []*models.EngagementRow{
			{ClientID: "c1", TotalInteractions: 5, LastInteraction: timePtr(lastWeek)},
			{ClientID: "c2", TotalInteractions: 0}, // never contacted
		},
	}
	svc := newTestSegmentationService(repo)

	rows := svc.Engagement(context.Background())
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].DaysSinceContact == nil || *rows[0].DaysSinceContact != 7 {
		t.Errorf("Expected 7 days since contact, got %v", rows[0].DaysSinceContact)
	}
	if rows[1].DaysSinceContact != nil {
		t.Errorf("Expected nil days for never-contacted client, got %d", *rows[1].DaysSinceContact)
	}
}
