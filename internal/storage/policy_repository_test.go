package storage

import (
	"testing"

	"github.com/wealth-analytics/internal/types"
)

func TestKnownStrategyFiltersUnknownValues(t *testing.T) {
	for _, s := range types.KnownStrategyTypes {
		if !knownStrategy(s) {
			t.Errorf("Expected %q to be known", s)
		}
	}
	if knownStrategy(types.StrategyType("Crypto Momentum")) {
		t.Error("Expected an unknown strategy to be rejected")
	}
	if knownStrategy(types.StrategyType("")) {
		t.Error("Expected an empty strategy to be rejected")
	}
}

func TestKnownToleranceFiltersUnknownValues(t *testing.T) {
	for _, rt := range types.KnownRiskTolerances {
		if !knownTolerance(rt) {
			t.Errorf("Expected %q to be known", rt)
		}
	}
	if knownTolerance(types.RiskTolerance("YOLO")) {
		t.Error("Expected an unknown tolerance to be rejected")
	}
}
