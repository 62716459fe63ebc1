package allocation

import (
	"context"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
)

// UsageAggregator sums daily usages
type UsageAggregator struct {
	usages pricing.DailyUsageRepository
}

// NewUsageAggregator creates a new UsageAggregator
func NewUsageAggregator(usages pricing.DailyUsageRepository) *UsageAggregator {
	return &UsageAggregator{usages: usages}
}

// Sum returns the total usage of usageType within period.
// A nil ventures slice means every venture, an empty one means none.
// The warehouse filter applies only to usage types kept per warehouse.
func (a *UsageAggregator) Sum(
	ctx context.Context,
	usageType *pricing.UsageType,
	ventures []uuid.UUID,
	warehouseID *uuid.UUID,
	period valueobject.DateRange,
) (float64, error) {
	if ventures != nil && len(ventures) == 0 {
		return 0, nil
	}
	if !usageType.ByWarehouse {
		warehouseID = nil
	}
	return a.usages.Sum(ctx, pricing.UsageFilter{
		UsageTypeID: usageType.ID,
		VentureIDs:  ventures,
		WarehouseID: warehouseID,
		Period:      period,
	})
}
