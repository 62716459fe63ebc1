package allocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ErrPriceCoverageGap is returned in strict mode when part of the queried
// period has no price definition
var ErrPriceCoverageGap = errors.New("price definitions do not cover the whole period")

// PricePeriod is a sub-interval of a query priced by a single definition
type PricePeriod struct {
	Warehouse  *pricing.Warehouse // nil for usage types not priced per warehouse
	Period     valueobject.DateRange
	Definition *pricing.UsagePrice
	Mode       pricing.AllocationMode
}

// PriceResolver splits a query period into priced sub-intervals
type PriceResolver struct {
	prices         pricing.UsagePriceRepository
	warehouses     pricing.WarehouseRepository
	strictCoverage bool
	logger         *zap.Logger
}

// NewPriceResolver creates a new PriceResolver
func NewPriceResolver(
	prices pricing.UsagePriceRepository,
	warehouses pricing.WarehouseRepository,
	strictCoverage bool,
	logger *zap.Logger,
) *PriceResolver {
	return &PriceResolver{
		prices:         prices,
		warehouses:     warehouses,
		strictCoverage: strictCoverage,
		logger:         logger,
	}
}

// Resolve returns the priced sub-intervals of period, grouped by warehouse and
// ascending by start within a warehouse. For usage types priced per warehouse
// a nil warehouse resolves every known warehouse.
func (r *PriceResolver) Resolve(
	ctx context.Context,
	usageType *pricing.UsageType,
	warehouse *pricing.Warehouse,
	period valueobject.DateRange,
	forecast bool,
) ([]PricePeriod, error) {
	if !usageType.ByWarehouse {
		return r.resolveAt(ctx, usageType, nil, period, forecast)
	}

	warehouses := []*pricing.Warehouse{warehouse}
	if warehouse == nil {
		all, err := r.Warehouses(ctx)
		if err != nil {
			return nil, err
		}
		warehouses = all
	}

	var result []PricePeriod
	for _, wh := range warehouses {
		periods, err := r.resolveAt(ctx, usageType, wh, period, forecast)
		if err != nil {
			return nil, err
		}
		result = append(result, periods...)
	}
	return result, nil
}

// Warehouses lists every warehouse prices can be defined at
func (r *PriceResolver) Warehouses(ctx context.Context) ([]*pricing.Warehouse, error) {
	all, err := r.warehouses.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	return all, nil
}

func (r *PriceResolver) resolveAt(
	ctx context.Context,
	usageType *pricing.UsageType,
	warehouse *pricing.Warehouse,
	period valueobject.DateRange,
	forecast bool,
) ([]PricePeriod, error) {
	var warehouseID *uuid.UUID
	if warehouse != nil {
		warehouseID = &warehouse.ID
	}

	definitions, err := r.prices.FindOverlapping(ctx, usageType.ID, warehouseID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices of %s: %w", usageType.Name, err)
	}

	// days not yet priced by an earlier definition
	uncovered := []valueobject.DateRange{period}
	var result []PricePeriod
	for _, def := range definitions {
		var rest []valueobject.DateRange
		for _, free := range uncovered {
			common, ok := free.Intersect(def.Period)
			if !ok {
				rest = append(rest, free)
				continue
			}
			result = append(result, PricePeriod{
				Warehouse:  warehouse,
				Period:     common,
				Definition: def,
				Mode:       def.Allocation(usageType.ByCost, forecast),
			})
			rest = append(rest, free.Subtract(common)...)
		}
		uncovered = rest
	}

	if len(uncovered) > 0 {
		fields := []zap.Field{
			zap.String("usage_type", usageType.Symbol),
			zap.Stringer("period", period),
			zap.Int("gaps", len(uncovered)),
		}
		if warehouse != nil {
			fields = append(fields, zap.String("warehouse", warehouse.Name))
		}
		if r.strictCoverage {
			return nil, fmt.Errorf("%w: %s from %s", ErrPriceCoverageGap, usageType.Name, uncovered[0])
		}
		r.logger.Debug("Price definitions leave days unpriced", fields...)
	}

	sortPeriods(result)
	return result, nil
}
