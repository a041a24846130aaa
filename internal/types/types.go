// Package types provides common type definitions for the wealth analytics system.
package types

// RiskTolerance represents a client's stated risk tolerance
type RiskTolerance string

const (
	// RiskConservative represents the lowest risk tolerance
	RiskConservative RiskTolerance = "Conservative"
	// RiskModerate represents a moderate risk tolerance
	RiskModerate RiskTolerance = "Moderate"
	// RiskBalanced represents a balanced risk tolerance
	RiskBalanced RiskTolerance = "Balanced"
	// RiskGrowth represents a growth-oriented risk tolerance
	RiskGrowth RiskTolerance = "Growth"
	// RiskAggressiveGrowth represents the highest risk tolerance
	RiskAggressiveGrowth RiskTolerance = "Aggressive Growth"
)

// KnownRiskTolerances lists the tolerance values the suitability matrix understands.
// Values outside this set are treated as unknown and never produce alerts.
var KnownRiskTolerances = []RiskTolerance{
	RiskConservative,
	RiskModerate,
	RiskBalanced,
	RiskGrowth,
	RiskAggressiveGrowth,
}

// StrategyType represents a portfolio's investment strategy
type StrategyType string

const (
	// StrategyConservative represents a capital-preservation strategy
	StrategyConservative StrategyType = "Conservative"
	// StrategyBalanced represents a balanced strategy
	StrategyBalanced StrategyType = "Balanced"
	// StrategyGrowth represents a growth strategy
	StrategyGrowth StrategyType = "Growth"
	// StrategyAggressiveGrowth represents the most aggressive strategy
	StrategyAggressiveGrowth StrategyType = "Aggressive Growth"
)

// KnownStrategyTypes lists the strategy values the target-allocation table covers.
var KnownStrategyTypes = []StrategyType{
	StrategyConservative,
	StrategyBalanced,
	StrategyGrowth,
	StrategyAggressiveGrowth,
}

// AssetClass represents a position's asset class
type AssetClass string

const (
	// AssetEquities represents equity positions
	AssetEquities AssetClass = "Equities"
	// AssetFixedIncome represents fixed-income positions
	AssetFixedIncome AssetClass = "Fixed Income"
	// AssetCash represents idle cash
	AssetCash AssetClass = "Cash"
)

// CashTicker is the sentinel ticker for idle cash positions. It is excluded
// from AUM but included in total portfolio value.
const CashTicker = "CASH"

// RelationshipStatus represents the state of an advisor-client relationship
type RelationshipStatus string

const (
	// RelationshipActive counts toward advisor productivity
	RelationshipActive RelationshipStatus = "Active"
	// RelationshipInactive does not count toward advisor productivity
	RelationshipInactive RelationshipStatus = "Inactive"
)

// AlertLevel represents the severity of an alert or priority ladder result
type AlertLevel string

const (
	// AlertHigh is the highest severity
	AlertHigh AlertLevel = "High"
	// AlertMedium is a medium severity
	AlertMedium AlertLevel = "Medium"
	// AlertLow is the lowest severity
	AlertLow AlertLevel = "Low"
)

// Sentiment represents the keyword-derived sentiment of an interaction note
type Sentiment string

const (
	// SentimentPositive indicates satisfied language in the note
	SentimentPositive Sentiment = "Positive"
	// SentimentNeutral is the default when no keyword matches
	SentimentNeutral Sentiment = "Neutral"
	// SentimentNegative indicates complaint or concern language
	SentimentNegative Sentiment = "Negative"
)

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}
