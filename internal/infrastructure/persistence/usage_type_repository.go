package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// UsageTypeRepository implements pricing.UsageTypeRepository using GORM
type UsageTypeRepository struct {
	db *gorm.DB
}

// NewUsageTypeRepository creates a new UsageTypeRepository
func NewUsageTypeRepository(db *gorm.DB) *UsageTypeRepository {
	return &UsageTypeRepository{db: db}
}

// FindByID finds a usage type by its ID
func (r *UsageTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.UsageType, error) {
	var model models.UsageTypeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySymbol finds a usage type by its symbol
func (r *UsageTypeRepository) FindBySymbol(ctx context.Context, symbol string) (*pricing.UsageType, error) {
	var model models.UsageTypeModel
	if err := r.db.WithContext(ctx).First(&model, "symbol = ?", symbol).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every usage type ordered by name
func (r *UsageTypeRepository) FindAll(ctx context.Context) ([]*pricing.UsageType, error) {
	var rows []models.UsageTypeModel
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*pricing.UsageType, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a usage type
func (r *UsageTypeRepository) Save(ctx context.Context, usageType *pricing.UsageType) error {
	return r.db.WithContext(ctx).Save(models.UsageTypeModelFromDomain(usageType)).Error
}
