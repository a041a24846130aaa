package storage

import (
	"context"
	"fmt"

	"github.com/wealth-analytics/internal/logging"
	"github.com/wealth-analytics/internal/policy"
	"github.com/wealth-analytics/internal/types"
)

// PolicyRepository loads policy overrides from the Postgres policy store.
// The store is optional: when absent the service runs on compiled-in
// defaults, and a partially populated store only overrides what it names.
type PolicyRepository struct {
	db *PolicyDB
}

// NewPolicyRepository creates a new policy repository
func NewPolicyRepository(db *PolicyDB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// knownTolerance reports whether the classification code understands the
// stored risk tolerance value
func knownTolerance(t types.RiskTolerance) bool {
	for _, known := range types.KnownRiskTolerances {
		if t == known {
			return true
		}
	}
	return false
}

// knownStrategy reports whether the classification code understands the
// stored strategy value
func knownStrategy(s types.StrategyType) bool {
	for _, known := range types.KnownStrategyTypes {
		if s == known {
			return true
		}
	}
	return false
}

// LoadTargetAllocations returns the stored target-allocation table, or an
// empty map when the table has no rows
func (r *PolicyRepository) LoadTargetAllocations(ctx context.Context) (map[types.StrategyType]map[types.AssetClass]float64, error) {
	query := `
		SELECT strategy_type, asset_class, target_pct
		FROM target_allocations
	`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query target allocations: %w", err)
	}
	defer rows.Close()

	targets := make(map[types.StrategyType]map[types.AssetClass]float64)
	for rows.Next() {
		var strategyStr, classStr string
		var pct float64

		if err := rows.Scan(&strategyStr, &classStr, &pct); err != nil {
			return nil, fmt.Errorf("failed to scan target allocation: %w", err)
		}

		strategy := types.StrategyType(strategyStr)
		// Rows for strategies the classification code does not understand
		// are skipped, not fatal
		if !knownStrategy(strategy) {
			logging.FromContext(ctx).WithField("strategy", strategyStr).Warn("Skipping target allocation for unknown strategy")
			continue
		}
		if targets[strategy] == nil {
			targets[strategy] = make(map[types.AssetClass]float64)
		}
		targets[strategy][types.AssetClass(classStr)] = pct
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating target allocations: %w", err)
	}

	return targets, nil
}

// LoadSuitabilityMatrix returns the stored tolerance-to-strategy
// compatibility rows, or an empty map when the table has no rows
func (r *PolicyRepository) LoadSuitabilityMatrix(ctx context.Context) (map[types.RiskTolerance][]types.StrategyType, error) {
	query := `
		SELECT risk_tolerance, strategy_type
		FROM suitability_matrix
		ORDER BY risk_tolerance, strategy_type
	`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query suitability matrix: %w", err)
	}
	defer rows.Close()

	matrix := make(map[types.RiskTolerance][]types.StrategyType)
	for rows.Next() {
		var toleranceStr, strategyStr string

		if err := rows.Scan(&toleranceStr, &strategyStr); err != nil {
			return nil, fmt.Errorf("failed to scan suitability row: %w", err)
		}

		tolerance := types.RiskTolerance(toleranceStr)
		strategy := types.StrategyType(strategyStr)
		if !knownTolerance(tolerance) || !knownStrategy(strategy) {
			logging.FromContext(ctx).WithFields(map[string]interface{}{
				"riskTolerance": toleranceStr,
				"strategy":      strategyStr,
			}).Warn("Skipping suitability row with unknown enum value")
			continue
		}
		matrix[tolerance] = append(matrix[tolerance], strategy)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suitability matrix: %w", err)
	}

	return matrix, nil
}

// LoadScalarOverrides returns named scalar policy values
func (r *PolicyRepository) LoadScalarOverrides(ctx context.Context) (map[string]float64, error) {
	query := `
		SELECT name, value
		FROM analytics_policy
	`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query policy scalars: %w", err)
	}
	defer rows.Close()

	scalars := make(map[string]float64)
	for rows.Next() {
		var name string
		var value float64

		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan policy scalar: %w", err)
		}

		scalars[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating policy scalars: %w", err)
	}

	return scalars, nil
}

// ApplyOverrides mutates the given policy with whatever the store defines.
// Unknown scalar names are logged and skipped so a newer store schema does
// not break an older service.
func (r *PolicyRepository) ApplyOverrides(ctx context.Context, p *policy.Policy) error {
	logger := logging.FromContext(ctx)

	targets, err := r.LoadTargetAllocations(ctx)
	if err != nil {
		return err
	}
	if len(targets) > 0 {
		p.TargetAllocations = targets
		logger.WithField("strategies", len(targets)).Info("Applied target-allocation overrides from policy store")
	}

	matrix, err := r.LoadSuitabilityMatrix(ctx)
	if err != nil {
		return err
	}
	if len(matrix) > 0 {
		p.Suitability = matrix
		logger.WithField("tolerances", len(matrix)).Info("Applied suitability-matrix overrides from policy store")
	}

	scalars, err := r.LoadScalarOverrides(ctx)
	if err != nil {
		return err
	}
	for name, value := range scalars {
		switch name {
		case "assumed_cash_yield":
			p.CashSweep.AssumedYield = value
		case "cash_high_pct":
			p.CashSweep.HighPct = value
		case "cash_moderate_pct":
			p.CashSweep.ModeratePct = value
		case "cash_normal_pct":
			p.CashSweep.NormalPct = value
		case "drift_high_pct":
			p.Drift.HighPct = value
		case "drift_medium_pct":
			p.Drift.MediumPct = value
		case "concentration_threshold_pct":
			p.ConcentrationThresholdPct = value
		case "anomaly_large_buy_amount":
			p.Anomaly.LargeBuyAmount = value
		case "geo_high_value_aum":
			p.Geo.HighValueAUM = value
		case "geo_medium_value_aum":
			p.Geo.MediumValueAUM = value
		default:
			logger.WithField("name", name).Warn("Unknown policy scalar, skipping")
		}
	}

	return nil
}
