package models

import (
	"time"

	"github.com/wealth-analytics/internal/types"
)

// KPISnapshot holds the firm-level dashboard KPIs
type KPISnapshot struct {
	NumClients   int64    `json:"numClients"`
	NumAdvisors  int64    `json:"numAdvisors"`
	AUM          float64  `json:"aum"`
	// YTDGrowthPct is a fraction (0.10 = 10%); nil when the start-of-year
	// value is zero or absent
	YTDGrowthPct *float64 `json:"ytdGrowthPct"`
}

// WealthSegmentRow is one client with their canonical wealth segment
type WealthSegmentRow struct {
	ClientID         string              `json:"clientId"`
	FirstName        string              `json:"firstName"`
	LastName         string              `json:"lastName"`
	NetWorthEstimate float64             `json:"netWorthEstimate"`
	AnnualIncome     float64             `json:"annualIncome"`
	RiskTolerance    types.RiskTolerance `json:"riskTolerance"`
	PortfolioValue   float64             `json:"portfolioValue"`
	WealthSegment    string              `json:"wealthSegment"`
}

// EngagementRow is one client's interaction recency summary
type EngagementRow struct {
	ClientID         string     `json:"clientId"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	TotalInteractions int64     `json:"totalInteractions"`
	LastInteraction  *time.Time `json:"lastInteraction,omitempty"`
	// DaysSinceContact is nil for clients who have never been contacted.
	DaysSinceContact *int64 `json:"daysSinceContact"`
}

// SuitabilityAlert is a portfolio whose strategy conflicts with its owner's
// risk tolerance
type SuitabilityAlert struct {
	ClientID       string              `json:"clientId"`
	FirstName      string              `json:"firstName"`
	LastName       string              `json:"lastName"`
	RiskTolerance  types.RiskTolerance `json:"riskTolerance"`
	PortfolioID    string              `json:"portfolioId"`
	StrategyType   types.StrategyType  `json:"strategyType"`
	PortfolioValue float64             `json:"portfolioValue"`
	Alignment      string              `json:"alignmentStatus"`
	AlertLevel     types.AlertLevel    `json:"alertLevel"`
}

// ConcentrationBreach is a single position at or above the concentration threshold
type ConcentrationBreach struct {
	PortfolioID   string           `json:"portfolioId"`
	ClientID      string           `json:"clientId"`
	Ticker        string           `json:"ticker"`
	AssetClass    types.AssetClass `json:"assetClass"`
	MarketValue   float64          `json:"marketValue"`
	InvestedValue float64          `json:"investedValue"`
	SharePct      float64          `json:"sharePct"`
	ThresholdPct  float64          `json:"thresholdPct"`
}

// DriftRow compares a portfolio's current allocation to its strategy target
type DriftRow struct {
	PortfolioID  string             `json:"portfolioId"`
	StrategyType types.StrategyType `json:"strategyType"`
	AssetClass   types.AssetClass   `json:"assetClass"`
	CurrentValue float64            `json:"currentValue"`
	TotalValue   float64            `json:"totalValue"`
	CurrentPct   float64            `json:"currentPct"`
	TargetPct    float64            `json:"targetPct"`
	DriftPct     float64            `json:"driftPct"` // signed: current - target
	DriftLevel   string             `json:"driftLevel"`
}

// CashSweepRow is one portfolio's idle-cash assessment
type CashSweepRow struct {
	PortfolioID           string              `json:"portfolioId"`
	ClientID              string              `json:"clientId"`
	FirstName             string              `json:"firstName"`
	LastName              string              `json:"lastName"`
	RiskTolerance         types.RiskTolerance `json:"riskTolerance"`
	StrategyType          types.StrategyType  `json:"strategyType"`
	CashBalance           float64             `json:"cashBalance"`
	TotalValue            float64             `json:"totalValue"`
	CashPct               float64             `json:"cashPct"`
	Status                string              `json:"status"`
	Recommendation        string              `json:"recommendation"`
	PotentialAnnualIncome float64             `json:"potentialAnnualIncome"`
}

// AnomalyRow is one flagged transaction with its classification and the
// per-type statistics it was judged against
type AnomalyRow struct {
	TransactionID    string    `json:"transactionId"`
	ClientID         string    `json:"clientId"`
	PortfolioID      string    `json:"portfolioId"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	TransactionType  string    `json:"transactionType"`
	Ticker           string    `json:"ticker"`
	TotalAmount      float64   `json:"totalAmount"`
	Quantity         float64   `json:"quantity"`
	Price            float64   `json:"price"`
	Timestamp        time.Time `json:"timestamp"`
	AnomalyType      string    `json:"anomalyType"`
	DeviationPct     *float64  `json:"deviationFromAvgPct"` // nil when the type has no statistics
	AmountDifference *float64  `json:"amountDifference"`
}

// ChurnRow is one eligible client's attrition-risk assessment
type ChurnRow struct {
	ClientID           string           `json:"clientId"`
	FirstName          string           `json:"firstName"`
	LastName           string           `json:"lastName"`
	NetWorthEstimate   float64          `json:"netWorthEstimate"`
	RecentBalance      float64          `json:"recentBalance"`
	PriorBalance       float64          `json:"priorBalance"`
	RecentInteractions int64            `json:"recentInteractions"`
	PriorInteractions  int64            `json:"priorInteractions"`
	RiskLevel          types.AlertLevel `json:"riskLevel"`
}

// OutreachRow is one client's outreach priority assessment
type OutreachRow struct {
	ClientID         string           `json:"clientId"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	LifeEvent        *string          `json:"lifeEvent,omitempty"`
	LifeEventDate    *time.Time       `json:"lifeEventDate,omitempty"`
	LastContact      *time.Time       `json:"lastContact,omitempty"`
	DaysSinceContact *int64           `json:"daysSinceContact"`
	OutreachType     string           `json:"outreachType"`
	Priority         types.AlertLevel `json:"priority"`
	SuggestedTopics  string           `json:"suggestedDiscussionTopics"`
}

// SentimentRow is one recent interaction with its keyword-derived labels
type SentimentRow struct {
	InteractionID string           `json:"interactionId"`
	ClientID      string           `json:"clientId"`
	FirstName     string           `json:"firstName"`
	LastName      string           `json:"lastName"`
	AdvisorID     string           `json:"advisorId"`
	Type          string           `json:"type"`
	Channel       string           `json:"channel"`
	OutcomeNotes  string           `json:"outcomeNotes"`
	Timestamp     time.Time        `json:"timestamp"`
	Sentiment     types.Sentiment  `json:"sentiment"`
	Priority      types.AlertLevel `json:"priorityLevel"`
}

// GeoRollupRow is one state's (or zip's) aggregated client metrics
type GeoRollupRow struct {
	State               string  `json:"state"`
	ZipCode             string  `json:"zipCode,omitempty"`
	ClientCount         int64   `json:"clientCount"`
	TotalAUM            float64 `json:"totalAum"`
	AvgAUMPerClient     float64 `json:"avgAumPerClient"`
	TotalNetWorth       float64 `json:"totalNetWorth"`
	AvgIncome           float64 `json:"avgIncome"`
	AggressiveClients   int64   `json:"aggressiveClients"`
	ConservativeClients int64   `json:"conservativeClients"`
	PctAggressive       float64 `json:"pctAggressive"`
	PctConservative     float64 `json:"pctConservative"`
	MarketTier          string  `json:"marketTier"`
}

// AdvisorProductivityRow is one advisor's coverage and productivity summary.
// Only Active relationships count toward client and AUM totals.
type AdvisorProductivityRow struct {
	AdvisorID             string  `json:"advisorId"`
	AdvisorName           string  `json:"advisorName"`
	Specialization        string  `json:"specialization"`
	ExperienceYears       uint8   `json:"experienceYears"`
	TotalClients          int64   `json:"totalClients"`
	TotalAUM              float64 `json:"totalAum"`
	TotalInteractions     int64   `json:"totalInteractions"`
	RecentInteractions    int64   `json:"recentInteractions"`
	AUMPerClient          float64 `json:"aumPerClient"`
	InteractionsPerClient float64 `json:"interactionsPerClient"`
}

// NextBestActionRow is one client's cross/upsell recommendation
type NextBestActionRow struct {
	ClientID         string              `json:"clientId"`
	FirstName        string              `json:"firstName"`
	LastName         string              `json:"lastName"`
	NetWorthEstimate float64             `json:"netWorthEstimate"`
	RiskTolerance    types.RiskTolerance `json:"riskTolerance"`
	TotalAUM         float64             `json:"totalAum"`
	SavingsBehavior  string              `json:"savingsBehavior"`
	RecommendedAction string             `json:"recommendedAction"`
	Priority         types.AlertLevel    `json:"priority"`
	RevenueImpact    float64             `json:"estimatedRevenueImpact"`
}

// ComplianceReviewRow is one client due for a KYC/profile review
type ComplianceReviewRow struct {
	ClientID        string           `json:"clientId"`
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	DateJoined      time.Time        `json:"dateJoined"`
	LastUpdate      time.Time        `json:"lastUpdate"`
	DaysSinceUpdate int64            `json:"daysSinceUpdate"`
	Status          string           `json:"complianceStatus"`
	Priority        types.AlertLevel `json:"priority"`
}

// ClientBriefing is the per-client summary used for advisor prep
type ClientBriefing struct {
	Overview   ClientOverview            `json:"overview"`
	Portfolios []BriefingPortfolio       `json:"portfolios"`
}

// ClientOverview is the profile section of a client briefing
type ClientOverview struct {
	ClientID         string              `json:"clientId"`
	FirstName        string              `json:"firstName"`
	LastName         string              `json:"lastName"`
	RiskTolerance    types.RiskTolerance `json:"riskTolerance"`
	NetWorthEstimate float64             `json:"netWorthEstimate"`
	LifeEvent        *string             `json:"lifeEvent,omitempty"`
	LifeEventDate    *time.Time          `json:"lifeEventDate,omitempty"`
	NumPortfolios    int64               `json:"numPortfolios"`
	NumAdvisors      int64               `json:"numAdvisors"`
}

// BriefingPortfolio is one portfolio line in a client briefing
type BriefingPortfolio struct {
	PortfolioID  string             `json:"portfolioId"`
	StrategyType types.StrategyType `json:"strategyType"`
	CurrentValue float64            `json:"currentValue"`
}
