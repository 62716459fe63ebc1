package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// WarehouseRepository implements pricing.WarehouseRepository using GORM
type WarehouseRepository struct {
	db *gorm.DB
}

// NewWarehouseRepository creates a new WarehouseRepository
func NewWarehouseRepository(db *gorm.DB) *WarehouseRepository {
	return &WarehouseRepository{db: db}
}

// FindByID finds a warehouse by its ID
func (r *WarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.Warehouse, error) {
	var model models.WarehouseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every warehouse ordered by name
func (r *WarehouseRepository) FindAll(ctx context.Context) ([]*pricing.Warehouse, error) {
	var rows []models.WarehouseModel
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*pricing.Warehouse, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a warehouse
func (r *WarehouseRepository) Save(ctx context.Context, warehouse *pricing.Warehouse) error {
	return r.db.WithContext(ctx).Save(models.WarehouseModelFromDomain(warehouse)).Error
}
