// Package policy is the single authoritative source for every threshold,
// band ladder, and compatibility table the analytics engines apply. The
// source data of each engine comes from the warehouse; the business meaning
// of that data is defined here and nowhere else.
package policy

import (
	"github.com/wealth-analytics/internal/types"
)

// WealthTier is one rung of the wealth-segmentation ladder. Boundaries are
// inclusive at the lower bound.
type WealthTier struct {
	Name     string  `json:"name"`
	Minimum  float64 `json:"minimum"`
}

// CashSweepPolicy holds the idle-cash thresholds and the assumed sweep yield
type CashSweepPolicy struct {
	// AssumedYield is the fixed annual yield used to estimate foregone income
	// on idle cash. Overridable via the policy store.
	AssumedYield float64 `json:"assumedYield"`
	// HighPct, ModeratePct, NormalPct are the cash-percentage band floors,
	// evaluated top-down, first match wins. Inclusive at the floor.
	HighPct     float64 `json:"highPct"`
	ModeratePct float64 `json:"moderatePct"`
	NormalPct   float64 `json:"normalPct"`
	// OpportunityCash/OpportunityPct gate the Investment Opportunity
	// recommendation; SweepCash/SweepPct gate Sweep Recommendation.
	OpportunityCash float64 `json:"opportunityCash"`
	OpportunityPct  float64 `json:"opportunityPct"`
	SweepCash       float64 `json:"sweepCash"`
	SweepPct        float64 `json:"sweepPct"`
}

// DriftPolicy holds the drift classification bands (absolute percentage points)
type DriftPolicy struct {
	HighPct   float64 `json:"highPct"`
	MediumPct float64 `json:"mediumPct"`
}

// AnomalyPolicy holds the transaction anomaly thresholds
type AnomalyPolicy struct {
	P95Multiplier    float64 `json:"p95Multiplier"`    // amount > multiplier * p95
	StddevMultiplier float64 `json:"stddevMultiplier"` // amount > mean + multiplier * stddev
	LargeBuyAmount   float64 `json:"largeBuyAmount"`   // Buy transactions above this are flagged
	MismatchPct      float64 `json:"mismatchPct"`      // |amount - qty*price| > pct of amount
	WindowDays       int     `json:"windowDays"`
}

// ChurnPolicy holds the attrition-risk thresholds as ratios of the prior window
type ChurnPolicy struct {
	RecentDays            int     `json:"recentDays"`
	PriorDays             int     `json:"priorDays"`
	HighBalanceRatio      float64 `json:"highBalanceRatio"`
	HighInteractionRatio  float64 `json:"highInteractionRatio"`
	MediumBalanceRatio    float64 `json:"mediumBalanceRatio"`
	MediumInteractionRatio float64 `json:"mediumInteractionRatio"`
}

// OutreachPolicy holds the outreach priority and type thresholds
type OutreachPolicy struct {
	HighPriorityEvents  []string `json:"highPriorityEvents"`
	HighPriorityDays    int64    `json:"highPriorityDays"`
	MediumPriorityDays  int64    `json:"mediumPriorityDays"`
	RecentLifeEventDays int64    `json:"recentLifeEventDays"`
	// QuietClientDays is how long a client must go without contact before the
	// candidate query picks them up at all.
	QuietClientDays  int64 `json:"quietClientDays"`
	ReengagementDays int64 `json:"reengagementDays"`
	MarketEventDays  int   `json:"marketEventDays"`
}

// AdvisorPolicy holds the advisor-productivity defaults
type AdvisorPolicy struct {
	// RecentWindowDays is the interaction lookback used when the caller does
	// not specify a window.
	RecentWindowDays int `json:"recentWindowDays"`
}

// KeywordRule maps note keywords to a label; rules are evaluated in order,
// first match wins.
type KeywordRule struct {
	Keywords []string
	Label    string
}

// SentimentPolicy holds the keyword tables for note sentiment and priority
type SentimentPolicy struct {
	SentimentRules []KeywordRule `json:"-"`
	PriorityRules  []KeywordRule `json:"-"`
	WindowDays     int           `json:"windowDays"`
}

// GeoPolicy holds the market-tier AUM thresholds
type GeoPolicy struct {
	HighValueAUM   float64 `json:"highValueAum"`
	MediumValueAUM float64 `json:"mediumValueAum"`
}

// NextBestActionPolicy holds the savings-behavior and priority thresholds
type NextBestActionPolicy struct {
	HighSaverMultiple     float64 `json:"highSaverMultiple"`
	ModerateSaverMultiple float64 `json:"moderateSaverMultiple"`
	AdvisoryAUMFraction   float64 `json:"advisoryAumFraction"`
	RiskAdjustmentAge     uint8   `json:"riskAdjustmentAge"`
	PrivateBankingNetWorth float64 `json:"privateBankingNetWorth"`
	HighPriorityNetWorth  float64 `json:"highPriorityNetWorth"`
	MediumPriorityNetWorth float64 `json:"mediumPriorityNetWorth"`
	HighImpactRate        float64 `json:"highImpactRate"`
	MediumImpactRate      float64 `json:"mediumImpactRate"`
	LowImpactRate         float64 `json:"lowImpactRate"`
}

// CompliancePolicy holds the profile-review recency thresholds
type CompliancePolicy struct {
	AnnualReviewDays    int64 `json:"annualReviewDays"`
	SemiAnnualDays      int64 `json:"semiAnnualDays"`
	LifeEventUpdateDays int64 `json:"lifeEventUpdateDays"`
}

// Policy aggregates every classification rule the engines consume. Engines
// receive a *Policy at construction and never carry threshold literals of
// their own.
type Policy struct {
	WealthTiers      []WealthTier
	LowestTier       string
	Suitability      map[types.RiskTolerance][]types.StrategyType
	TargetAllocations map[types.StrategyType]map[types.AssetClass]float64
	Drift            DriftPolicy
	CashSweep        CashSweepPolicy
	Anomaly          AnomalyPolicy
	Churn            ChurnPolicy
	Outreach         OutreachPolicy
	Advisor          AdvisorPolicy
	Sentiment        SentimentPolicy
	Geo              GeoPolicy
	NextBestAction   NextBestActionPolicy
	Compliance       CompliancePolicy
	// ConcentrationThresholdPct is the default single-position share (of
	// invested value) at which a concentration breach is flagged.
	ConcentrationThresholdPct float64
}

// Default returns the canonical policy. The wealth ladder and the 4% assumed
// yield resolve the inconsistencies that existed between the duplicated
// dashboard pages; overrides live in the policy store, not in call sites.
func Default() *Policy {
	return &Policy{
		WealthTiers: []WealthTier{
			{Name: "Ultra High Net Worth", Minimum: 10_000_000},
			{Name: "High Net Worth", Minimum: 5_000_000},
			{Name: "Affluent", Minimum: 1_000_000},
			{Name: "Mass Affluent", Minimum: 250_000},
		},
		LowestTier: "Emerging Wealth",
		Suitability: map[types.RiskTolerance][]types.StrategyType{
			types.RiskConservative:     {types.StrategyConservative, types.StrategyBalanced},
			types.RiskModerate:         {types.StrategyConservative, types.StrategyBalanced, types.StrategyGrowth},
			types.RiskBalanced:         {types.StrategyConservative, types.StrategyBalanced, types.StrategyGrowth},
			types.RiskGrowth:           {types.StrategyBalanced, types.StrategyGrowth, types.StrategyAggressiveGrowth},
			types.RiskAggressiveGrowth: {types.StrategyGrowth, types.StrategyAggressiveGrowth},
		},
		TargetAllocations: map[types.StrategyType]map[types.AssetClass]float64{
			types.StrategyConservative: {
				types.AssetEquities:    30,
				types.AssetFixedIncome: 60,
				types.AssetCash:        10,
			},
			types.StrategyBalanced: {
				types.AssetEquities:    50,
				types.AssetFixedIncome: 40,
				types.AssetCash:        10,
			},
			types.StrategyGrowth: {
				types.AssetEquities:    70,
				types.AssetFixedIncome: 25,
				types.AssetCash:        5,
			},
			types.StrategyAggressiveGrowth: {
				types.AssetEquities:    85,
				types.AssetFixedIncome: 10,
				types.AssetCash:        5,
			},
		},
		Drift: DriftPolicy{
			HighPct:   10,
			MediumPct: 5,
		},
		CashSweep: CashSweepPolicy{
			AssumedYield:    0.04,
			HighPct:         15,
			ModeratePct:     10,
			NormalPct:       5,
			OpportunityCash: 100_000,
			OpportunityPct:  10,
			SweepCash:       50_000,
			SweepPct:        5,
		},
		Anomaly: AnomalyPolicy{
			P95Multiplier:    2,
			StddevMultiplier: 3,
			LargeBuyAmount:   1_000_000,
			MismatchPct:      0.05,
			WindowDays:       90,
		},
		Churn: ChurnPolicy{
			RecentDays:             30,
			PriorDays:              90,
			HighBalanceRatio:       0.5,
			HighInteractionRatio:   0.5,
			MediumBalanceRatio:     0.9,
			MediumInteractionRatio: 0.7,
		},
		Outreach: OutreachPolicy{
			HighPriorityEvents:  []string{"Marriage", "Birth of Child", "Retirement"},
			HighPriorityDays:    180,
			MediumPriorityDays:  90,
			RecentLifeEventDays: 60,
			QuietClientDays:     60,
			ReengagementDays:    90,
			MarketEventDays:     90,
		},
		Advisor: AdvisorPolicy{
			RecentWindowDays: 30,
		},
		Sentiment: SentimentPolicy{
			SentimentRules: []KeywordRule{
				{Keywords: []string{"complaint", "issue"}, Label: string(types.SentimentNegative)},
				{Keywords: []string{"satisfied", "happy"}, Label: string(types.SentimentPositive)},
				{Keywords: []string{"neutral", "okay"}, Label: string(types.SentimentNeutral)},
				{Keywords: []string{"concern", "worry"}, Label: string(types.SentimentNegative)},
				{Keywords: []string{"excellent", "great"}, Label: string(types.SentimentPositive)},
			},
			PriorityRules: []KeywordRule{
				{Keywords: []string{"urgent", "escalate"}, Label: string(types.AlertHigh)},
				{Keywords: []string{"follow", "review"}, Label: string(types.AlertMedium)},
			},
			WindowDays: 30,
		},
		Geo: GeoPolicy{
			HighValueAUM:   50_000_000,
			MediumValueAUM: 20_000_000,
		},
		NextBestAction: NextBestActionPolicy{
			HighSaverMultiple:      10,
			ModerateSaverMultiple:  5,
			AdvisoryAUMFraction:    0.1,
			RiskAdjustmentAge:      55,
			PrivateBankingNetWorth: 5_000_000,
			HighPriorityNetWorth:   10_000_000,
			MediumPriorityNetWorth: 1_000_000,
			HighImpactRate:         0.02,
			MediumImpactRate:       0.015,
			LowImpactRate:          0.01,
		},
		Compliance: CompliancePolicy{
			AnnualReviewDays:    365,
			SemiAnnualDays:      180,
			LifeEventUpdateDays: 30,
		},
		ConcentrationThresholdPct: 30,
	}
}
