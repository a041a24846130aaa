package service

import (
	"context"
	"testing"
	"time"

	"github.com/wealth-analytics/internal/policy"
	"github.com/wealth-analytics/internal/storage"
	"github.com/wealth-analytics/internal/types"
)

func newTestSuitabilityService(repo *mockPortfolioRepo) *SuitabilityService {
	return NewSuitabilityService(repo, nil, 30*time.Second, policy.Default())
}

func TestSuitabilityAlerts(t *testing.T) {
	repo := &mockPortfolioRepo{
		suitability: []*storage.SuitabilityRow{
			{ClientID: "c1", PortfolioID: "p1", RiskTolerance: types.RiskConservative, StrategyType: types.StrategyAggressiveGrowth, PortfolioValue: 500_000},
			{ClientID: "c2", PortfolioID: "p2", RiskTolerance: types.RiskAggressiveGrowth, StrategyType: types.StrategyConservative, PortfolioValue: 300_000},
			{ClientID: "c3", PortfolioID: "p3", RiskTolerance: types.RiskModerate, StrategyType: types.StrategyGrowth, PortfolioValue: 100_000},
		},
	}
	svc := newTestSuitabilityService(repo)

	alerts := svc.SuitabilityAlerts(context.Background())
	if len(alerts) != 2 {
		t.Fatalf("Expected 2 alerts, got %d", len(alerts))
	}

	if alerts[0].Alignment != policy.AlignmentTooAggressive {
		t.Errorf("Expected Too Aggressive, got %q", alerts[0].Alignment)
	}
	if alerts[0].AlertLevel != types.AlertHigh {
		t.Errorf("Expected High alert, got %q", alerts[0].AlertLevel)
	}
	if alerts[1].Alignment != policy.AlignmentTooConservative {
		t.Errorf("Expected Too Conservative, got %q", alerts[1].Alignment)
	}
	if alerts[1].AlertLevel != types.AlertMedium {
		t.Errorf("Expected Medium alert, got %q", alerts[1].AlertLevel)
	}
}

func TestSuitabilityUnknownToleranceProducesNoAlert(t *testing.T) {
	repo := &mockPortfolioRepo{
		suitability: []*storage.SuitabilityRow{
			{ClientID: "c1", PortfolioID: "p1", RiskTolerance: "Speculative", StrategyType: types.StrategyAggressiveGrowth},
		},
	}
	svc := newTestSuitabilityService(repo)

	alerts := svc.SuitabilityAlerts(context.Background())
	if len(alerts) != 0 {
		t.Errorf("Expected no alerts for unknown tolerance, got %d", len(alerts))
	}
}

func TestConcentrationSingleHolding(t *testing.T) {
	repo := &mockPortfolioRepo{
		shares: []*storage.PositionShareRow{
			{PortfolioID: "p1", ClientID: "c1", Ticker: "AAPL", MarketValue: 400_000, InvestedValue: 400_000},
		},
	}
	svc := newTestSuitabilityService(repo)

	breaches := svc.ConcentrationBreaches(context.Background(), 30)
	if len(breaches) != 1 {
		t.Fatalf("Expected exactly 1 breach for a single holding, got %d", len(breaches))
	}
	if breaches[0].SharePct != 100 {
		t.Errorf("Expected 100%% share, got %f", breaches[0].SharePct)
	}
}

func TestConcentrationBelowThresholdFiltered(t *testing.T) {
	repo := &mockPortfolioRepo{
		shares: []*storage.PositionShareRow{
			{PortfolioID: "p1", ClientID: "c1", Ticker: "AAPL", MarketValue: 100_000, InvestedValue: 1_000_000},
			{PortfolioID: "p1", ClientID: "c1", Ticker: "MSFT", MarketValue: 350_000, InvestedValue: 1_000_000},
		},
	}
	svc := newTestSuitabilityService(repo)

	breaches := svc.ConcentrationBreaches(context.Background(), 30)
	if len(breaches) != 1 {
		t.Fatalf("Expected 1 breach, got %d", len(breaches))
	}
	if breaches[0].Ticker != "MSFT" {
		t.Errorf("Expected MSFT breach, got %s", breaches[0].Ticker)
	}
	if breaches[0].SharePct != 35 {
		t.Errorf("Expected 35%% share, got %f", breaches[0].SharePct)
	}
}

func TestConcentrationThresholdIsInclusive(t *testing.T) {
	repo := &mockPortfolioRepo{
		shares: []*storage.PositionShareRow{
			{PortfolioID: "p1", ClientID: "c1", Ticker: "NVDA", MarketValue: 300_000, InvestedValue: 1_000_000},
		},
	}
	svc := newTestSuitabilityService(repo)

	breaches := svc.ConcentrationBreaches(context.Background(), 30)
	if len(breaches) != 1 {
		t.Errorf("Expected a breach at exactly the threshold, got %d", len(breaches))
	}
}

func TestConcentrationDefaultThreshold(t *testing.T) {
	repo := &mockPortfolioRepo{
		shares: []*storage.PositionShareRow{
			{PortfolioID: "p1", ClientID: "c1", Ticker: "AAPL", MarketValue: 310_000, InvestedValue: 1_000_000},
		},
	}
	svc := newTestSuitabilityService(repo)

	// Zero threshold falls back to the policy default of 30
	breaches := svc.ConcentrationBreaches(context.Background(), 0)
	if len(breaches) != 1 {
		t.Fatalf("Expected 1 breach with default threshold, got %d", len(breaches))
	}
	if breaches[0].ThresholdPct != 30 {
		t.Errorf("Expected threshold 30, got %f", breaches[0].ThresholdPct)
	}
}
