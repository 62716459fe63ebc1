package allocation

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/domain/shared"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PoolScope selects whose usage forms the denominator of a pooled cost
type PoolScope string

const (
	// PoolScopeGlobal divides pooled costs by the usage of every venture
	PoolScopeGlobal PoolScope = "global"
	// PoolScopeQuery divides pooled costs by the usage of the queried ventures only
	PoolScopeQuery PoolScope = "query"
)

// IsValid returns true if the scope is known
func (s PoolScope) IsValid() bool {
	return s == PoolScopeGlobal || s == PoolScopeQuery
}

// EngineConfig contains configuration for Engine
type EngineConfig struct {
	MaxParallel int
	PoolScope   PoolScope
}

// DefaultEngineConfig returns default configuration
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxParallel: 4,
		PoolScope:   PoolScopeGlobal,
	}
}

// CostQuery describes a cost question for one usage type
type CostQuery struct {
	UsageType *pricing.UsageType
	Ventures  []uuid.UUID // nil means every venture
	Period    valueobject.DateRange
	Forecast  bool
	// PoolVentures overrides the pooled-cost denominator population.
	// nil falls back to the engine's pool scope.
	PoolVentures []uuid.UUID
}

// WarehouseCost is the usage and cost at one warehouse
type WarehouseCost struct {
	Warehouse *pricing.Warehouse // nil for usage types not kept per warehouse
	Usage     float64
	Cost      decimal.Decimal
}

// CostBreakdown is the per-warehouse result of a cost query
type CostBreakdown struct {
	Entries []WarehouseCost
	Total   decimal.Decimal
}

// Usage returns the usage summed over all entries
func (b *CostBreakdown) Usage() float64 {
	var total float64
	for _, e := range b.Entries {
		total += e.Usage
	}
	return total
}

// Entry returns the entry of a warehouse, nil when absent
func (b *CostBreakdown) Entry(warehouseID uuid.UUID) *WarehouseCost {
	for i := range b.Entries {
		if wh := b.Entries[i].Warehouse; wh != nil && wh.ID == warehouseID {
			return &b.Entries[i]
		}
	}
	return nil
}

// Engine turns usages and price definitions into costs.
// It holds no per-query state and is safe for concurrent use.
type Engine struct {
	resolver   *PriceResolver
	aggregator *UsageAggregator
	logger     *zap.Logger
	config     EngineConfig
}

// NewEngine creates a new Engine
func NewEngine(resolver *PriceResolver, aggregator *UsageAggregator, logger *zap.Logger, config EngineConfig) *Engine {
	if config.MaxParallel <= 0 {
		config.MaxParallel = DefaultEngineConfig().MaxParallel
	}
	if !config.PoolScope.IsValid() {
		config.PoolScope = PoolScopeGlobal
	}
	return &Engine{
		resolver:   resolver,
		aggregator: aggregator,
		logger:     logger.Named("allocation"),
		config:     config,
	}
}

// TotalCost returns the cost of the query's ventures for the usage type
func (e *Engine) TotalCost(ctx context.Context, q CostQuery) (decimal.Decimal, error) {
	breakdown, err := e.TotalCostByWarehouses(ctx, q)
	if err != nil {
		return decimal.Zero, err
	}
	return breakdown.Total, nil
}

// TotalCostByWarehouses returns usage and cost per warehouse plus the total.
// Usage types not kept per warehouse yield a single entry with a nil warehouse,
// the others one entry per known warehouse in repository order.
func (e *Engine) TotalCostByWarehouses(ctx context.Context, q CostQuery) (*CostBreakdown, error) {
	if q.UsageType == nil {
		return nil, shared.NewDomainError("INVALID_QUERY", "Cost query requires a usage type")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "allocation", "total_cost_by_warehouses",
		attribute.String(telemetry.SpanAttrUsageType, q.UsageType.Symbol),
		attribute.String(telemetry.SpanAttrPeriod, q.Period.String()),
		attribute.Bool(telemetry.SpanAttrForecast, q.Forecast),
		attribute.Int(telemetry.SpanAttrVentures, len(q.Ventures)),
	)
	defer span.End()

	breakdown := &CostBreakdown{Total: decimal.Zero}
	targets := []*pricing.Warehouse{nil}
	if q.UsageType.ByWarehouse {
		warehouses, err := e.resolver.Warehouses(ctx)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		targets = warehouses
	}
	// one entry per warehouse, priced or not
	breakdown.Entries = make([]WarehouseCost, len(targets))
	for i, wh := range targets {
		breakdown.Entries[i] = WarehouseCost{Warehouse: wh, Cost: decimal.Zero}
	}

	pool := e.poolFor(q)
	denominators := make(map[uuid.UUID]float64)
	var priced int

	for i, wh := range targets {
		periods, err := e.resolver.Resolve(ctx, q.UsageType, wh, q.Period, q.Forecast)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		priced += len(periods)
		entry := &breakdown.Entries[i]

		var warehouseID *uuid.UUID
		if wh != nil {
			warehouseID = &wh.ID
		}
		for _, pp := range periods {
			usage, err := e.aggregator.Sum(ctx, q.UsageType, q.Ventures, warehouseID, pp.Period)
			if err != nil {
				telemetry.RecordError(span, err)
				return nil, fmt.Errorf("failed to sum usage of %s: %w", q.UsageType.Name, err)
			}

			var cost decimal.Decimal
			switch mode := pp.Mode.(type) {
			case pricing.UnitPrice:
				cost = decimal.NewFromFloat(usage).Mul(mode.Price)
			case pricing.PooledCost:
				denominator, ok := denominators[pp.Definition.ID]
				if !ok {
					denominator, err = e.poolUsage(ctx, q, pool, wh, pp.Definition)
					if err != nil {
						telemetry.RecordError(span, err)
						return nil, fmt.Errorf("failed to sum pool usage of %s: %w", q.UsageType.Name, err)
					}
					denominators[pp.Definition.ID] = denominator
				}
				if denominator == 0 {
					cost = decimal.Zero
					break
				}
				cost = mode.Cost.Mul(decimal.NewFromFloat(usage)).Div(decimal.NewFromFloat(denominator))
			default:
				return nil, fmt.Errorf("unsupported allocation mode %T", pp.Mode)
			}

			entry.Usage += usage
			entry.Cost = entry.Cost.Add(cost)
			breakdown.Total = breakdown.Total.Add(cost)
		}
	}

	e.logger.Debug("Computed usage type cost",
		zap.String("usage_type", q.UsageType.Symbol),
		zap.Stringer("period", q.Period),
		zap.Bool("forecast", q.Forecast),
		zap.Int("price_periods", priced),
		zap.String("total", breakdown.Total.String()))

	return breakdown, nil
}

// poolUsage sums the pool's usage over the days on which def is the
// definition in force at warehouse. Days an earlier overlapping definition
// prices belong to that definition's pool.
func (e *Engine) poolUsage(
	ctx context.Context,
	q CostQuery,
	pool []uuid.UUID,
	warehouse *pricing.Warehouse,
	def *pricing.UsagePrice,
) (float64, error) {
	periods, err := e.resolver.Resolve(ctx, q.UsageType, warehouse, def.Period, q.Forecast)
	if err != nil {
		return 0, err
	}
	var warehouseID *uuid.UUID
	if warehouse != nil {
		warehouseID = &warehouse.ID
	}

	var total float64
	for _, pp := range periods {
		if pp.Definition.ID != def.ID {
			continue
		}
		usage, err := e.aggregator.Sum(ctx, q.UsageType, pool, warehouseID, pp.Period)
		if err != nil {
			return 0, err
		}
		total += usage
	}
	return total, nil
}

func (e *Engine) poolFor(q CostQuery) []uuid.UUID {
	if q.PoolVentures != nil {
		return q.PoolVentures
	}
	if e.config.PoolScope == PoolScopeQuery {
		return q.Ventures
	}
	return nil
}

// BreakdownsForVentures computes the breakdown of each venture separately,
// running queries concurrently up to the configured parallelism. Pooled costs
// are shared across the whole ventures list when the pool scope is "query",
// so the breakdowns add up to the pooled cost.
func (e *Engine) BreakdownsForVentures(ctx context.Context, q CostQuery, ventures []uuid.UUID) (map[uuid.UUID]*CostBreakdown, error) {
	if q.PoolVentures == nil && e.config.PoolScope == PoolScopeQuery {
		q.PoolVentures = ventures
	}

	var mu sync.Mutex
	breakdowns := make(map[uuid.UUID]*CostBreakdown, len(ventures))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.MaxParallel)
	for _, ventureID := range ventures {
		g.Go(func() error {
			single := q
			single.Ventures = []uuid.UUID{ventureID}
			breakdown, err := e.TotalCostByWarehouses(gctx, single)
			if err != nil {
				return fmt.Errorf("venture %s: %w", ventureID, err)
			}
			mu.Lock()
			breakdowns[ventureID] = breakdown
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return breakdowns, nil
}
