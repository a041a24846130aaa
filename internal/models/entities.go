// Package models defines the warehouse entities and the typed result rows
// returned by the analytics engines.
package models

import (
	"time"

	"github.com/wealth-analytics/internal/types"
)

// Client represents a client row in the warehouse. The analytics layer never
// writes clients; the schema is externally maintained.
type Client struct {
	ClientID         string              `json:"clientId" db:"client_id"`
	FirstName        string              `json:"firstName" db:"first_name"`
	LastName         string              `json:"lastName" db:"last_name"`
	Age              uint8               `json:"age" db:"age"`
	NetWorthEstimate float64             `json:"netWorthEstimate" db:"net_worth_estimate"`
	AnnualIncome     float64             `json:"annualIncome" db:"annual_income"`
	RiskTolerance    types.RiskTolerance `json:"riskTolerance" db:"risk_tolerance"`
	LifeEvent        *string             `json:"lifeEvent,omitempty" db:"life_event"`
	City             string              `json:"city" db:"city"`
	State            string              `json:"state" db:"state"`
	ZipCode          string              `json:"zipCode" db:"zip_code"`
	DateJoined       time.Time           `json:"dateJoined" db:"date_joined"`
	LastUpdate       time.Time           `json:"lastUpdate" db:"last_update_timestamp"`
}

// Advisor represents an advisor row in the warehouse
type Advisor struct {
	AdvisorID       string `json:"advisorId" db:"advisor_id"`
	Name            string `json:"name" db:"name"`
	Specialization  string `json:"specialization" db:"specialization"`
	ExperienceYears uint8  `json:"experienceYears" db:"experience_years"`
}

// Portfolio represents a portfolio row. A portfolio's value is never stored
// directly; it is always derived from its latest position snapshot.
type Portfolio struct {
	PortfolioID  string             `json:"portfolioId" db:"portfolio_id"`
	ClientID     string             `json:"clientId" db:"client_id"`
	StrategyType types.StrategyType `json:"strategyType" db:"strategy_type"`
	CreatedAt    time.Time          `json:"createdAt" db:"created_at"`
}

// Position represents a point-in-time position snapshot
type Position struct {
	PortfolioID string           `json:"portfolioId" db:"portfolio_id"`
	Ticker      string           `json:"ticker" db:"ticker"`
	AssetClass  types.AssetClass `json:"assetClass" db:"asset_class"`
	MarketValue float64          `json:"marketValue" db:"market_value"`
	Timestamp   time.Time        `json:"timestamp" db:"timestamp"`
}

// Transaction represents a transaction row, consumed only by anomaly detection
type Transaction struct {
	TransactionID string    `json:"transactionId" db:"transaction_id"`
	PortfolioID   string    `json:"portfolioId" db:"portfolio_id"`
	Type          string    `json:"transactionType" db:"transaction_type"`
	Ticker        string    `json:"ticker" db:"ticker"`
	Quantity      float64   `json:"quantity" db:"quantity"`
	Price         float64   `json:"price" db:"price"`
	TotalAmount   float64   `json:"totalAmount" db:"total_amount"`
	Timestamp     time.Time `json:"timestamp" db:"timestamp"`
}

// Interaction represents a client-advisor interaction row
type Interaction struct {
	InteractionID string    `json:"interactionId" db:"interaction_id"`
	ClientID      string    `json:"clientId" db:"client_id"`
	AdvisorID     string    `json:"advisorId" db:"advisor_id"`
	Type          string    `json:"type" db:"type"`
	Channel       string    `json:"channel" db:"channel"`
	OutcomeNotes  *string   `json:"outcomeNotes,omitempty" db:"outcome_notes"`
	Timestamp     time.Time `json:"timestamp" db:"timestamp"`
}

// MarketEvent represents a named market event used to bracket AUM comparisons
type MarketEvent struct {
	EventID     string    `json:"eventId" db:"event_id"`
	EventName   string    `json:"eventName" db:"event_name"`
	ImpactType  string    `json:"impactType" db:"impact_type"`
	Description string    `json:"description" db:"description"`
	StartDate   time.Time `json:"startDate" db:"start_date"`
	EndDate     time.Time `json:"endDate" db:"end_date"`
}
