package policy

import (
	"strings"

	"github.com/wealth-analytics/internal/types"
)

// strategyRank orders strategies from most conservative to most aggressive.
// Used only to decide the direction of a suitability mismatch.
var strategyRank = map[types.StrategyType]int{
	types.StrategyConservative:     0,
	types.StrategyBalanced:         1,
	types.StrategyGrowth:           2,
	types.StrategyAggressiveGrowth: 3,
}

// Suitability alignment labels
const (
	AlignmentAligned         = "Aligned"
	AlignmentTooAggressive   = "Too Aggressive"
	AlignmentTooConservative = "Too Conservative"
)

// Drift classification labels
const (
	DriftHigh        = "High"
	DriftMedium      = "Medium"
	DriftWithinRange = "Within Range"
)

// Cash-sweep status and recommendation labels
const (
	CashStatusHigh     = "High Cash"
	CashStatusModerate = "Moderate Cash"
	CashStatusNormal   = "Normal"
	CashStatusLow      = "Low"

	SweepInvestmentOpportunity = "Investment Opportunity"
	SweepRecommendation        = "Sweep Recommendation"
	SweepMonitor               = "Monitor"
)

// Anomaly type labels, in rule order
const (
	AnomalyUnusuallyLarge     = "Unusually Large Transaction"
	AnomalyStatisticalOutlier = "Statistical Outlier - High Value"
	AnomalyZeroPrice          = "Zero Price with Value"
	AnomalyZeroQuantity       = "Zero Quantity with Value"
	AnomalyLargeBuy           = "Large Buy Transaction"
	AnomalyPriceQtyMismatch   = "Price-Quantity Mismatch"
)

// Outreach type labels
const (
	OutreachRecentLifeEvent = "Recent Life Event"
	OutreachReengagement    = "Long-term Re-engagement"
	OutreachMarketFollowUp  = "Market Event Follow-up"
	OutreachRegularCheckIn  = "Regular Check-in"
)

// Market tier labels
const (
	MarketTierHigh     = "High Value Market"
	MarketTierMedium   = "Medium Value Market"
	MarketTierEmerging = "Emerging Market"
)

// Savings behavior labels
const (
	SaverHigh     = "High Saver"
	SaverModerate = "Moderate Saver"
	SaverActive   = "Active Spender"
)

// Compliance status labels
const (
	ComplianceAnnualReview = "Annual Review Required"
	ComplianceSemiAnnual   = "Semi-Annual Check"
	ComplianceLifeEvent    = "Life Event Update"
	ComplianceCurrent      = "Current"
)

// WealthSegment returns the canonical wealth tier for a value. Tiers are
// evaluated top-down with inclusive lower bounds.
func (p *Policy) WealthSegment(value float64) string {
	for _, tier := range p.WealthTiers {
		if value >= tier.Minimum {
			return tier.Name
		}
	}
	return p.LowestTier
}

// SuitabilityResult is the outcome of a tolerance/strategy compatibility check
type SuitabilityResult struct {
	Alignment  string
	AlertLevel types.AlertLevel
	Mismatch   bool
}

// ClassifySuitability checks a portfolio strategy against its owner's risk
// tolerance. Unknown tolerance or strategy values fail open: no mismatch.
func (p *Policy) ClassifySuitability(tolerance types.RiskTolerance, strategy types.StrategyType) SuitabilityResult {
	suitable, ok := p.Suitability[tolerance]
	if !ok {
		return SuitabilityResult{Alignment: AlignmentAligned, AlertLevel: types.AlertLow}
	}
	rank, ok := strategyRank[strategy]
	if !ok {
		return SuitabilityResult{Alignment: AlignmentAligned, AlertLevel: types.AlertLow}
	}

	minRank, maxRank := strategyRank[suitable[0]], strategyRank[suitable[0]]
	for _, s := range suitable {
		if s == strategy {
			return SuitabilityResult{Alignment: AlignmentAligned, AlertLevel: types.AlertLow}
		}
		if r := strategyRank[s]; r < minRank {
			minRank = r
		} else if r > maxRank {
			maxRank = r
		}
	}

	if rank > maxRank {
		return SuitabilityResult{Alignment: AlignmentTooAggressive, AlertLevel: types.AlertHigh, Mismatch: true}
	}
	if rank < minRank {
		return SuitabilityResult{Alignment: AlignmentTooConservative, AlertLevel: types.AlertMedium, Mismatch: true}
	}
	// Suitable sets are contiguous in rank, so anything inside the range is
	// in the set and was returned above.
	return SuitabilityResult{Alignment: AlignmentAligned, AlertLevel: types.AlertLow}
}

// DriftLevel classifies the magnitude of an allocation drift in percentage points
func (p *Policy) DriftLevel(driftPct float64) string {
	abs := driftPct
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs > p.Drift.HighPct:
		return DriftHigh
	case abs > p.Drift.MediumPct:
		return DriftMedium
	default:
		return DriftWithinRange
	}
}

// CashStatus classifies a portfolio's cash percentage. Band floors are
// inclusive so that a portfolio at exactly 15% cash is High Cash.
func (p *Policy) CashStatus(cashPct float64) string {
	switch {
	case cashPct >= p.CashSweep.HighPct:
		return CashStatusHigh
	case cashPct >= p.CashSweep.ModeratePct:
		return CashStatusModerate
	case cashPct >= p.CashSweep.NormalPct:
		return CashStatusNormal
	default:
		return CashStatusLow
	}
}

// SweepAction recommends what to do with a portfolio's idle cash
func (p *Policy) SweepAction(cashBalance, cashPct float64) string {
	switch {
	case cashBalance > p.CashSweep.OpportunityCash && cashPct > p.CashSweep.OpportunityPct:
		return SweepInvestmentOpportunity
	case cashBalance > p.CashSweep.SweepCash && cashPct > p.CashSweep.SweepPct:
		return SweepRecommendation
	default:
		return SweepMonitor
	}
}

// PotentialAnnualIncome estimates income foregone by leaving cash idle
func (p *Policy) PotentialAnnualIncome(cashBalance float64) float64 {
	return cashBalance * p.CashSweep.AssumedYield
}

// TypeStats holds per-transaction-type amount statistics computed over the
// trailing window from positive amounts only.
type TypeStats struct {
	Mean   float64
	Stddev float64
	P95    float64
}

// ClassifyTransaction applies the anomaly rules in order and returns the
// first matching label. Statistical rules are skipped when the type has no
// statistics (nil stats). The second return is false for normal transactions.
func (p *Policy) ClassifyTransaction(txType string, amount, quantity, price float64, stats *TypeStats) (string, bool) {
	if stats != nil {
		if amount > stats.P95*p.Anomaly.P95Multiplier {
			return AnomalyUnusuallyLarge, true
		}
		if amount > stats.Mean+p.Anomaly.StddevMultiplier*stats.Stddev {
			return AnomalyStatisticalOutlier, true
		}
	}
	if price == 0 && amount > 0 {
		return AnomalyZeroPrice, true
	}
	if quantity == 0 && amount > 0 {
		return AnomalyZeroQuantity, true
	}
	if amount > p.Anomaly.LargeBuyAmount && txType == "Buy" {
		return AnomalyLargeBuy, true
	}
	diff := amount - quantity*price
	if diff < 0 {
		diff = -diff
	}
	if diff > amount*p.Anomaly.MismatchPct {
		return AnomalyPriceQtyMismatch, true
	}
	return "", false
}

// ChurnRisk classifies attrition risk from recent-vs-prior window aggregates.
// Clients with no prior-window balance are ineligible (second return false)
// rather than scored High by default. Interaction ratios with a zero prior
// count carry no signal and never trigger a threshold.
func (p *Policy) ChurnRisk(recentBalance, priorBalance float64, recentInteractions, priorInteractions int64) (types.AlertLevel, bool) {
	if priorBalance <= 0 {
		return types.AlertLow, false
	}
	balanceRatio := recentBalance / priorBalance

	interactionSignal := priorInteractions > 0
	var interactionRatio float64
	if interactionSignal {
		interactionRatio = float64(recentInteractions) / float64(priorInteractions)
	}

	if balanceRatio < p.Churn.HighBalanceRatio && interactionSignal && interactionRatio < p.Churn.HighInteractionRatio {
		return types.AlertHigh, true
	}
	if balanceRatio < p.Churn.MediumBalanceRatio || (interactionSignal && interactionRatio < p.Churn.MediumInteractionRatio) {
		return types.AlertMedium, true
	}
	return types.AlertLow, true
}

// OutreachPriority applies the outreach priority ladder top-down
func (p *Policy) OutreachPriority(lifeEvent *string, daysSinceContact *int64) types.AlertLevel {
	if lifeEvent != nil {
		for _, ev := range p.Outreach.HighPriorityEvents {
			if *lifeEvent == ev {
				return types.AlertHigh
			}
		}
	}
	if daysSinceContact != nil {
		if *daysSinceContact > p.Outreach.HighPriorityDays {
			return types.AlertHigh
		}
		if *daysSinceContact > p.Outreach.MediumPriorityDays {
			return types.AlertMedium
		}
	}
	return types.AlertLow
}

// OutreachType classifies the kind of outreach a client should receive
func (p *Policy) OutreachType(lifeEvent *string, lifeEventAgeDays *int64, daysSinceContact *int64, recentMarketEvent bool) string {
	if lifeEvent != nil && lifeEventAgeDays != nil && *lifeEventAgeDays <= p.Outreach.RecentLifeEventDays {
		return OutreachRecentLifeEvent
	}
	if daysSinceContact != nil && *daysSinceContact > p.Outreach.ReengagementDays {
		return OutreachReengagement
	}
	if recentMarketEvent {
		return OutreachMarketFollowUp
	}
	return OutreachRegularCheckIn
}

// lifeEventTopics maps life events to advisor talking points
var lifeEventTopics = map[string]string{
	"Marriage":       "Joint account setup, beneficiary updates",
	"Birth of Child": "Education savings, life insurance review",
	"Retirement":     "Income planning, asset allocation review",
}

// SuggestedTopics returns discussion topics for an outreach row
func (p *Policy) SuggestedTopics(lifeEvent *string, daysSinceContact *int64) string {
	if lifeEvent != nil {
		if topics, ok := lifeEventTopics[*lifeEvent]; ok {
			return topics
		}
	}
	if daysSinceContact != nil && *daysSinceContact > p.Outreach.HighPriorityDays {
		return "Relationship health check, portfolio review"
	}
	return "Market update, investment opportunities"
}

// NoteSentiment classifies an interaction note by keyword lookup,
// evaluated in rule order, first match wins.
func (p *Policy) NoteSentiment(notes string) types.Sentiment {
	lower := strings.ToLower(notes)
	for _, rule := range p.Sentiment.SentimentRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return types.Sentiment(rule.Label)
			}
		}
	}
	return types.SentimentNeutral
}

// NotePriority classifies an interaction note's follow-up priority
func (p *Policy) NotePriority(notes string) types.AlertLevel {
	lower := strings.ToLower(notes)
	for _, rule := range p.Sentiment.PriorityRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return types.AlertLevel(rule.Label)
			}
		}
	}
	return types.AlertLow
}

// MarketTier classifies a geographic group by its total AUM
func (p *Policy) MarketTier(totalAUM float64) string {
	switch {
	case totalAUM > p.Geo.HighValueAUM:
		return MarketTierHigh
	case totalAUM > p.Geo.MediumValueAUM:
		return MarketTierMedium
	default:
		return MarketTierEmerging
	}
}

// SavingsBehavior classifies net worth relative to income
func (p *Policy) SavingsBehavior(netWorth, annualIncome float64) string {
	switch {
	case netWorth > annualIncome*p.NextBestAction.HighSaverMultiple:
		return SaverHigh
	case netWorth > annualIncome*p.NextBestAction.ModerateSaverMultiple:
		return SaverModerate
	default:
		return SaverActive
	}
}

// RecommendedAction applies the next-best-action ladder top-down
func (p *Policy) RecommendedAction(numPortfolios int64, totalAUM, netWorth, annualIncome float64, age uint8, tolerance types.RiskTolerance, lifeEvent *string) string {
	switch {
	case numPortfolios == 0:
		return "Portfolio Setup"
	case totalAUM < netWorth*p.NextBestAction.AdvisoryAUMFraction:
		return "Investment Advisory"
	case age > p.NextBestAction.RiskAdjustmentAge && tolerance == types.RiskAggressiveGrowth:
		return "Risk Adjustment"
	case lifeEvent != nil:
		return "Life Event Planning"
	case p.SavingsBehavior(netWorth, annualIncome) == SaverHigh:
		return "Alternative Investments"
	case netWorth > p.NextBestAction.PrivateBankingNetWorth:
		return "Private Banking"
	default:
		return "Portfolio Review"
	}
}

// ActionPriority ranks a next-best-action by client net worth
func (p *Policy) ActionPriority(netWorth float64) types.AlertLevel {
	switch {
	case netWorth > p.NextBestAction.HighPriorityNetWorth:
		return types.AlertHigh
	case netWorth > p.NextBestAction.MediumPriorityNetWorth:
		return types.AlertMedium
	default:
		return types.AlertLow
	}
}

// RevenueImpact estimates the revenue impact of acting on a recommendation
func (p *Policy) RevenueImpact(netWorth float64) float64 {
	switch {
	case netWorth > p.NextBestAction.HighPriorityNetWorth:
		return netWorth * p.NextBestAction.HighImpactRate
	case netWorth > p.NextBestAction.MediumPriorityNetWorth:
		return netWorth * p.NextBestAction.MediumImpactRate
	default:
		return netWorth * p.NextBestAction.LowImpactRate
	}
}

// ComplianceStatus classifies profile-review recency. The third return is
// false for clients whose profile is current (excluded from the review queue).
func (p *Policy) ComplianceStatus(daysSinceUpdate int64, lifeEvent *string) (string, types.AlertLevel, bool) {
	switch {
	case daysSinceUpdate > p.Compliance.AnnualReviewDays:
		return ComplianceAnnualReview, types.AlertHigh, true
	case daysSinceUpdate > p.Compliance.SemiAnnualDays:
		return ComplianceSemiAnnual, types.AlertMedium, true
	case lifeEvent != nil && daysSinceUpdate <= p.Compliance.LifeEventUpdateDays:
		return ComplianceLifeEvent, types.AlertMedium, true
	default:
		return ComplianceCurrent, types.AlertLow, false
	}
}
