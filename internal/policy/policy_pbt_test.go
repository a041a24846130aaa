package policy

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/wealth-analytics/internal/types"
)

func TestWealthSegmentProperties(t *testing.T) {
	p := Default()
	properties := gopter.NewProperties(nil)

	properties.Property("every value classifies into exactly one tier", prop.ForAll(
		func(value float64) bool {
			seg := p.WealthSegment(value)
			if seg == "" {
				return false
			}
			names := map[string]bool{p.LowestTier: true}
			for _, tier := range p.WealthTiers {
				names[tier.Name] = true
			}
			return names[seg]
		},
		gen.Float64Range(0, 1e12),
	))

	properties.Property("segmentation is monotone in value", prop.ForAll(
		func(a, b float64) bool {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			return tierIndex(p, p.WealthSegment(hi)) <= tierIndex(p, p.WealthSegment(lo))
		},
		gen.Float64Range(0, 1e12),
		gen.Float64Range(0, 1e12),
	))

	properties.TestingRun(t)
}

// tierIndex returns the position of a tier name in the ladder; lower index
// means wealthier.
func tierIndex(p *Policy, name string) int {
	for i, tier := range p.WealthTiers {
		if tier.Name == name {
			return i
		}
	}
	return len(p.WealthTiers)
}

func TestDriftLevelProperties(t *testing.T) {
	p := Default()
	properties := gopter.NewProperties(nil)

	properties.Property("drift level is symmetric in sign", prop.ForAll(
		func(drift float64) bool {
			return p.DriftLevel(drift) == p.DriftLevel(-drift)
		},
		gen.Float64Range(-100, 100),
	))

	properties.Property("classification is deterministic", prop.ForAll(
		func(drift float64) bool {
			return p.DriftLevel(drift) == p.DriftLevel(drift)
		},
		gen.Float64Range(-100, 100),
	))

	properties.TestingRun(t)
}

func TestCashStatusProperties(t *testing.T) {
	p := Default()
	properties := gopter.NewProperties(nil)

	properties.Property("cash status ladder is total", prop.ForAll(
		func(pct float64) bool {
			switch p.CashStatus(pct) {
			case CashStatusHigh, CashStatusModerate, CashStatusNormal, CashStatusLow:
				return true
			}
			return false
		},
		gen.Float64Range(0, 100),
	))

	properties.Property("higher cash ratio never lowers the status", prop.ForAll(
		func(a, b float64) bool {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			return cashRank(p.CashStatus(hi)) >= cashRank(p.CashStatus(lo))
		},
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}

func cashRank(status string) int {
	switch status {
	case CashStatusHigh:
		return 3
	case CashStatusModerate:
		return 2
	case CashStatusNormal:
		return 1
	default:
		return 0
	}
}

func TestSuitabilityProperties(t *testing.T) {
	p := Default()
	properties := gopter.NewProperties(nil)

	tolerances := gen.OneConstOf(
		types.RiskConservative,
		types.RiskModerate,
		types.RiskBalanced,
		types.RiskGrowth,
		types.RiskAggressiveGrowth,
	)
	strategies := gen.OneConstOf(
		types.StrategyConservative,
		types.StrategyBalanced,
		types.StrategyGrowth,
		types.StrategyAggressiveGrowth,
	)

	properties.Property("a strategy in the suitable set is never a mismatch", prop.ForAll(
		func(tol types.RiskTolerance, strat types.StrategyType) bool {
			res := p.ClassifySuitability(tol, strat)
			inSet := false
			for _, s := range p.Suitability[tol] {
				if s == strat {
					inSet = true
				}
			}
			return inSet != res.Mismatch
		},
		tolerances,
		strategies,
	))

	properties.TestingRun(t)
}
