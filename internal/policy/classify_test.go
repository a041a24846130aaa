package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wealth-analytics/internal/types"
)

func TestWealthSegment(t *testing.T) {
	p := Default()

	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"ultra high net worth", 25_000_000, "Ultra High Net Worth"},
		{"exact ultra boundary is inclusive", 10_000_000, "Ultra High Net Worth"},
		{"high net worth", 7_500_000, "High Net Worth"},
		{"exact high boundary is inclusive", 5_000_000, "High Net Worth"},
		{"affluent", 2_000_000, "Affluent"},
		{"exact affluent boundary", 1_000_000, "Affluent"},
		{"mass affluent", 400_000, "Mass Affluent"},
		{"exact mass affluent boundary", 250_000, "Mass Affluent"},
		{"lowest tier", 100_000, "Emerging Wealth"},
		{"zero value", 0, "Emerging Wealth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.WealthSegment(tt.value))
		})
	}
}

func TestClassifySuitability(t *testing.T) {
	p := Default()

	t.Run("conservative client with aggressive growth portfolio is too aggressive", func(t *testing.T) {
		res := p.ClassifySuitability(types.RiskConservative, types.StrategyAggressiveGrowth)
		assert.True(t, res.Mismatch)
		assert.Equal(t, AlignmentTooAggressive, res.Alignment)
		assert.Equal(t, types.AlertHigh, res.AlertLevel)
	})

	t.Run("conservative client with conservative portfolio is never flagged", func(t *testing.T) {
		res := p.ClassifySuitability(types.RiskConservative, types.StrategyConservative)
		assert.False(t, res.Mismatch)
		assert.Equal(t, AlignmentAligned, res.Alignment)
	})

	t.Run("aggressive growth client with conservative portfolio is too conservative", func(t *testing.T) {
		res := p.ClassifySuitability(types.RiskAggressiveGrowth, types.StrategyConservative)
		assert.True(t, res.Mismatch)
		assert.Equal(t, AlignmentTooConservative, res.Alignment)
		assert.Equal(t, types.AlertMedium, res.AlertLevel)
	})

	t.Run("moderate client with aggressive growth portfolio is too aggressive", func(t *testing.T) {
		res := p.ClassifySuitability(types.RiskModerate, types.StrategyAggressiveGrowth)
		assert.True(t, res.Mismatch)
		assert.Equal(t, AlignmentTooAggressive, res.Alignment)
	})

	t.Run("unknown risk tolerance fails open", func(t *testing.T) {
		res := p.ClassifySuitability(types.RiskTolerance("Speculative"), types.StrategyAggressiveGrowth)
		assert.False(t, res.Mismatch)
		assert.Equal(t, AlignmentAligned, res.Alignment)
	})

	t.Run("unknown strategy fails open", func(t *testing.T) {
		res := p.ClassifySuitability(types.RiskConservative, types.StrategyType("Crypto"))
		assert.False(t, res.Mismatch)
	})
}

func TestDriftLevel(t *testing.T) {
	p := Default()

	assert.Equal(t, DriftHigh, p.DriftLevel(12.5))
	assert.Equal(t, DriftHigh, p.DriftLevel(-12.5))
	assert.Equal(t, DriftMedium, p.DriftLevel(7))
	assert.Equal(t, DriftMedium, p.DriftLevel(-7))
	assert.Equal(t, DriftWithinRange, p.DriftLevel(5))
	assert.Equal(t, DriftWithinRange, p.DriftLevel(0))
	assert.Equal(t, DriftWithinRange, p.DriftLevel(-3))
}

func TestTargetAllocationsSumToOneHundred(t *testing.T) {
	p := Default()

	for strategy, targets := range p.TargetAllocations {
		var sum float64
		for _, pct := range targets {
			sum += pct
		}
		assert.InDelta(t, 100, sum, 1e-9, "targets for %s must sum to 100", strategy)
	}
}

func TestCashStatus(t *testing.T) {
	p := Default()

	// A portfolio at exactly 15% cash classifies High Cash.
	assert.Equal(t, CashStatusHigh, p.CashStatus(15))
	assert.Equal(t, CashStatusHigh, p.CashStatus(40))
	assert.Equal(t, CashStatusModerate, p.CashStatus(12))
	assert.Equal(t, CashStatusNormal, p.CashStatus(6))
	assert.Equal(t, CashStatusLow, p.CashStatus(2))
	assert.Equal(t, CashStatusLow, p.CashStatus(0))
}

func TestSweepAction(t *testing.T) {
	p := Default()

	assert.Equal(t, SweepInvestmentOpportunity, p.SweepAction(150_000, 15))
	assert.Equal(t, SweepRecommendation, p.SweepAction(60_000, 8))
	assert.Equal(t, SweepMonitor, p.SweepAction(40_000, 4))
	// Large balance but healthy ratio still only warrants monitoring.
	assert.Equal(t, SweepMonitor, p.SweepAction(200_000, 2))
}

func TestPotentialAnnualIncome(t *testing.T) {
	p := Default()
	assert.InDelta(t, 6000, p.PotentialAnnualIncome(150_000), 1e-9)
}

func TestClassifyTransaction(t *testing.T) {
	p := Default()
	stats := &TypeStats{Mean: 10_000, Stddev: 2_000, P95: 20_000}

	t.Run("amount above twice p95 is unusually large", func(t *testing.T) {
		label, flagged := p.ClassifyTransaction("Sell", 50_000, 100, 500, stats)
		assert.True(t, flagged)
		assert.Equal(t, AnomalyUnusuallyLarge, label)
	})

	t.Run("amount above mean plus three stddev is a statistical outlier", func(t *testing.T) {
		label, flagged := p.ClassifyTransaction("Sell", 17_000, 100, 170, stats)
		assert.True(t, flagged)
		assert.Equal(t, AnomalyStatisticalOutlier, label)
	})

	t.Run("zero price with value", func(t *testing.T) {
		label, flagged := p.ClassifyTransaction("Sell", 5_000, 100, 0, stats)
		assert.True(t, flagged)
		assert.Equal(t, AnomalyZeroPrice, label)
	})

	t.Run("zero quantity with value is flagged regardless of stats", func(t *testing.T) {
		label, flagged := p.ClassifyTransaction("Dividend", 5_000, 0, 50, nil)
		assert.True(t, flagged)
		assert.Equal(t, AnomalyZeroQuantity, label)
	})

	t.Run("large buy", func(t *testing.T) {
		huge := &TypeStats{Mean: 2_000_000, Stddev: 1_000_000, P95: 3_000_000}
		label, flagged := p.ClassifyTransaction("Buy", 1_500_000, 1_000, 1_500, huge)
		assert.True(t, flagged)
		assert.Equal(t, AnomalyLargeBuy, label)
	})

	t.Run("price quantity mismatch", func(t *testing.T) {
		label, flagged := p.ClassifyTransaction("Sell", 10_000, 100, 50, stats)
		assert.True(t, flagged)
		assert.Equal(t, AnomalyPriceQtyMismatch, label)
	})

	t.Run("consistent transaction is not flagged", func(t *testing.T) {
		_, flagged := p.ClassifyTransaction("Sell", 10_000, 100, 100, stats)
		assert.False(t, flagged)
	})

	t.Run("first match wins over later rules", func(t *testing.T) {
		// Qualifies as both unusually large and a price-quantity mismatch;
		// the earlier rule assigns the label.
		label, flagged := p.ClassifyTransaction("Sell", 50_000, 1, 1, stats)
		assert.True(t, flagged)
		assert.Equal(t, AnomalyUnusuallyLarge, label)
	})

	t.Run("statistical rules skipped without stats", func(t *testing.T) {
		_, flagged := p.ClassifyTransaction("Sell", 50_000, 500, 100, nil)
		assert.False(t, flagged)
	})
}

func TestChurnRisk(t *testing.T) {
	p := Default()

	t.Run("both thresholds breached is high risk", func(t *testing.T) {
		level, eligible := p.ChurnRisk(40_000, 100_000, 3, 10)
		assert.True(t, eligible)
		assert.Equal(t, types.AlertHigh, level)
	})

	t.Run("healthy balance and engagement is low risk", func(t *testing.T) {
		level, eligible := p.ChurnRisk(95_000, 100_000, 10, 10)
		assert.True(t, eligible)
		assert.Equal(t, types.AlertLow, level)
	})

	t.Run("balance decline alone is medium", func(t *testing.T) {
		level, eligible := p.ChurnRisk(85_000, 100_000, 10, 10)
		assert.True(t, eligible)
		assert.Equal(t, types.AlertMedium, level)
	})

	t.Run("engagement drop alone is medium", func(t *testing.T) {
		level, eligible := p.ChurnRisk(100_000, 100_000, 3, 10)
		assert.True(t, eligible)
		assert.Equal(t, types.AlertMedium, level)
	})

	t.Run("zero prior balance is ineligible not high", func(t *testing.T) {
		_, eligible := p.ChurnRisk(50_000, 0, 1, 10)
		assert.False(t, eligible)
	})

	t.Run("zero prior interactions carries no interaction signal", func(t *testing.T) {
		// Balance collapsed but the interaction condition cannot fire, so the
		// High rule (which needs both) downgrades to Medium.
		level, eligible := p.ChurnRisk(40_000, 100_000, 0, 0)
		assert.True(t, eligible)
		assert.Equal(t, types.AlertMedium, level)
	})
}

func TestOutreachPriority(t *testing.T) {
	p := Default()
	days := func(d int64) *int64 { return &d }
	event := func(s string) *string { return &s }

	assert.Equal(t, types.AlertHigh, p.OutreachPriority(event("Marriage"), days(10)))
	assert.Equal(t, types.AlertHigh, p.OutreachPriority(event("Retirement"), nil))
	assert.Equal(t, types.AlertHigh, p.OutreachPriority(nil, days(200)))
	assert.Equal(t, types.AlertMedium, p.OutreachPriority(nil, days(120)))
	assert.Equal(t, types.AlertLow, p.OutreachPriority(nil, days(30)))
	assert.Equal(t, types.AlertLow, p.OutreachPriority(event("New Job"), days(30)))
	assert.Equal(t, types.AlertLow, p.OutreachPriority(nil, nil))
}

func TestOutreachType(t *testing.T) {
	p := Default()
	days := func(d int64) *int64 { return &d }
	event := func(s string) *string { return &s }

	assert.Equal(t, OutreachRecentLifeEvent, p.OutreachType(event("Marriage"), days(30), days(10), false))
	assert.Equal(t, OutreachReengagement, p.OutreachType(event("Marriage"), days(90), days(120), false))
	assert.Equal(t, OutreachMarketFollowUp, p.OutreachType(nil, nil, days(30), true))
	assert.Equal(t, OutreachRegularCheckIn, p.OutreachType(nil, nil, days(30), false))
}

func TestNoteSentiment(t *testing.T) {
	p := Default()

	tests := []struct {
		notes string
		want  types.Sentiment
	}{
		{"Client filed a complaint about fees", types.SentimentNegative},
		{"Very satisfied with the quarterly review", types.SentimentPositive},
		{"Client was okay with the proposal", types.SentimentNeutral},
		{"Expressed concern over market volatility", types.SentimentNegative},
		{"GREAT meeting, wants to expand holdings", types.SentimentPositive},
		{"Discussed upcoming tax season", types.SentimentNeutral},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, p.NoteSentiment(tt.notes), "notes: %s", tt.notes)
	}
}

func TestNotePriority(t *testing.T) {
	p := Default()

	assert.Equal(t, types.AlertHigh, p.NotePriority("Urgent: escalate to branch manager"))
	assert.Equal(t, types.AlertMedium, p.NotePriority("Will follow up next week"))
	assert.Equal(t, types.AlertLow, p.NotePriority("Routine check-in, all good"))
}

func TestMarketTier(t *testing.T) {
	p := Default()

	assert.Equal(t, MarketTierHigh, p.MarketTier(75_000_000))
	assert.Equal(t, MarketTierMedium, p.MarketTier(30_000_000))
	assert.Equal(t, MarketTierEmerging, p.MarketTier(5_000_000))
}

func TestRecommendedAction(t *testing.T) {
	p := Default()
	event := func(s string) *string { return &s }

	t.Run("no portfolios means portfolio setup", func(t *testing.T) {
		got := p.RecommendedAction(0, 0, 2_000_000, 200_000, 40, types.RiskGrowth, nil)
		assert.Equal(t, "Portfolio Setup", got)
	})

	t.Run("low invested fraction means investment advisory", func(t *testing.T) {
		got := p.RecommendedAction(2, 50_000, 2_000_000, 200_000, 40, types.RiskGrowth, nil)
		assert.Equal(t, "Investment Advisory", got)
	})

	t.Run("older aggressive client means risk adjustment", func(t *testing.T) {
		got := p.RecommendedAction(2, 1_000_000, 2_000_000, 200_000, 60, types.RiskAggressiveGrowth, nil)
		assert.Equal(t, "Risk Adjustment", got)
	})

	t.Run("life event means life event planning", func(t *testing.T) {
		got := p.RecommendedAction(2, 1_000_000, 2_000_000, 200_000, 40, types.RiskGrowth, event("Marriage"))
		assert.Equal(t, "Life Event Planning", got)
	})

	t.Run("high saver means alternative investments", func(t *testing.T) {
		got := p.RecommendedAction(2, 1_500_000, 3_000_000, 200_000, 40, types.RiskGrowth, nil)
		assert.Equal(t, "Alternative Investments", got)
	})

	t.Run("very high net worth means private banking", func(t *testing.T) {
		got := p.RecommendedAction(2, 5_500_000, 6_000_000, 2_000_000, 40, types.RiskGrowth, nil)
		assert.Equal(t, "Private Banking", got)
	})

	t.Run("default is portfolio review", func(t *testing.T) {
		got := p.RecommendedAction(2, 500_000, 900_000, 300_000, 40, types.RiskGrowth, nil)
		assert.Equal(t, "Portfolio Review", got)
	})
}

func TestComplianceStatus(t *testing.T) {
	p := Default()
	event := func(s string) *string { return &s }

	status, prio, due := p.ComplianceStatus(400, nil)
	assert.Equal(t, ComplianceAnnualReview, status)
	assert.Equal(t, types.AlertHigh, prio)
	assert.True(t, due)

	status, prio, due = p.ComplianceStatus(200, nil)
	assert.Equal(t, ComplianceSemiAnnual, status)
	assert.Equal(t, types.AlertMedium, prio)
	assert.True(t, due)

	status, _, due = p.ComplianceStatus(10, event("Marriage"))
	assert.Equal(t, ComplianceLifeEvent, status)
	assert.True(t, due)

	status, _, due = p.ComplianceStatus(90, nil)
	assert.Equal(t, ComplianceCurrent, status)
	assert.False(t, due)
}
