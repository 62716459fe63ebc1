package persistence

import (
	"context"
	"time"

	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// DailyUsageRepository implements pricing.DailyUsageRepository using GORM
type DailyUsageRepository struct {
	db *gorm.DB
}

// NewDailyUsageRepository creates a new DailyUsageRepository
func NewDailyUsageRepository(db *gorm.DB) *DailyUsageRepository {
	return &DailyUsageRepository{db: db}
}

// Save persists a daily usage
func (r *DailyUsageRepository) Save(ctx context.Context, usage *pricing.DailyUsage) error {
	return r.db.WithContext(ctx).Create(models.DailyUsageModelFromDomain(usage)).Error
}

// SaveBatch persists daily usages in batches of 100
func (r *DailyUsageRepository) SaveBatch(ctx context.Context, usages []*pricing.DailyUsage) error {
	if len(usages) == 0 {
		return nil
	}
	rows := make([]*models.DailyUsageModel, len(usages))
	for i, u := range usages {
		rows[i] = models.DailyUsageModelFromDomain(u)
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 100).Error
}

func (r *DailyUsageRepository) filtered(ctx context.Context, filter pricing.UsageFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.DailyUsageModel{}).
		Where("usage_type_id = ?", filter.UsageTypeID).
		Where("date >= ? AND date <= ?", filter.Period.Start(), filter.Period.End())
	if filter.VentureIDs != nil {
		query = query.Where("venture_id IN ?", filter.VentureIDs)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	return query
}

// Sum returns the total value of matching usages, 0 when none match
func (r *DailyUsageRepository) Sum(ctx context.Context, filter pricing.UsageFilter) (float64, error) {
	if filter.VentureIDs != nil && len(filter.VentureIDs) == 0 {
		return 0, nil
	}
	var result struct {
		Total float64
	}
	err := r.filtered(ctx, filter).
		Select("COALESCE(SUM(value), 0) AS total").
		Scan(&result).Error
	if err != nil {
		return 0, err
	}
	return result.Total, nil
}

// ActiveDays returns the distinct days with a nonzero matching usage, ascending
func (r *DailyUsageRepository) ActiveDays(ctx context.Context, filter pricing.UsageFilter) ([]time.Time, error) {
	if filter.VentureIDs != nil && len(filter.VentureIDs) == 0 {
		return nil, nil
	}
	var dates []time.Time
	err := r.filtered(ctx, filter).
		Where("value <> 0").
		Order("date").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, err
	}

	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := valueobject.Day(d)
		if n := len(days); n > 0 && days[n-1].Equal(day) {
			continue
		}
		days = append(days, day)
	}
	return days, nil
}
