package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// UsagePriceRepository implements pricing.UsagePriceRepository using GORM
type UsagePriceRepository struct {
	db *gorm.DB
}

// NewUsagePriceRepository creates a new UsagePriceRepository
func NewUsagePriceRepository(db *gorm.DB) *UsagePriceRepository {
	return &UsagePriceRepository{db: db}
}

// FindOverlapping returns price definitions of a usage type overlapping period.
// A nil warehouseID selects definitions without a warehouse.
func (r *UsagePriceRepository) FindOverlapping(ctx context.Context, usageTypeID uuid.UUID, warehouseID *uuid.UUID, period valueobject.DateRange) ([]*pricing.UsagePrice, error) {
	query := r.db.WithContext(ctx).
		Where("usage_type_id = ?", usageTypeID).
		Where("start_date <= ? AND end_date >= ?", period.End(), period.Start())
	if warehouseID == nil {
		query = query.Where("warehouse_id IS NULL")
	} else {
		query = query.Where("warehouse_id = ?", *warehouseID)
	}

	var rows []models.UsagePriceModel
	if err := query.Order("start_date").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*pricing.UsagePrice, 0, len(rows))
	for i := range rows {
		price, err := rows[i].ToDomain()
		if err != nil {
			return nil, fmt.Errorf("invalid usage price %s: %w", rows[i].ID, err)
		}
		out = append(out, price)
	}
	return out, nil
}

// Save creates or updates a price definition
func (r *UsagePriceRepository) Save(ctx context.Context, price *pricing.UsagePrice) error {
	return r.db.WithContext(ctx).Save(models.UsagePriceModelFromDomain(price)).Error
}
