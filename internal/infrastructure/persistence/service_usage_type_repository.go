package persistence

import (
	"context"
	"fmt"

	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// ServiceUsageTypeRepository implements pricing.ServiceUsageTypeRepository using GORM
type ServiceUsageTypeRepository struct {
	db *gorm.DB
}

// NewServiceUsageTypeRepository creates a new ServiceUsageTypeRepository
func NewServiceUsageTypeRepository(db *gorm.DB) *ServiceUsageTypeRepository {
	return &ServiceUsageTypeRepository{db: db}
}

// FindActive returns SERVICE edges overlapping period
func (r *ServiceUsageTypeRepository) FindActive(ctx context.Context, period valueobject.DateRange) ([]*pricing.ServiceUsageType, error) {
	db := r.db.WithContext(ctx)
	serviceTypes := db.Model(&models.UsageTypeModel{}).
		Select("id").
		Where("kind = ?", pricing.UsageTypeKindService.String())

	var rows []models.ServiceUsageTypeModel
	err := db.
		Where("usage_type_id IN (?)", serviceTypes).
		Where("start_date <= ? AND end_date >= ?", period.End(), period.Start()).
		Order("start_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*pricing.ServiceUsageType, 0, len(rows))
	for i := range rows {
		edge, err := rows[i].ToDomain()
		if err != nil {
			return nil, fmt.Errorf("invalid service usage type %s: %w", rows[i].ID, err)
		}
		out = append(out, edge)
	}
	return out, nil
}

// Save creates or updates a dependency edge
func (r *ServiceUsageTypeRepository) Save(ctx context.Context, edge *pricing.ServiceUsageType) error {
	return r.db.WithContext(ctx).Save(models.ServiceUsageTypeModelFromDomain(edge)).Error
}
