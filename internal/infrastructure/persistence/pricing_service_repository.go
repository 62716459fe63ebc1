package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// PricingServiceRepository implements pricing.PricingServiceRepository using GORM
type PricingServiceRepository struct {
	db *gorm.DB
}

// NewPricingServiceRepository creates a new PricingServiceRepository
func NewPricingServiceRepository(db *gorm.DB) *PricingServiceRepository {
	return &PricingServiceRepository{db: db}
}

// FindByID finds a pricing service by its ID
func (r *PricingServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PricingService, error) {
	var model models.PricingServiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the pricing services with the given IDs, ordered by name
func (r *PricingServiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*pricing.PricingService, error) {
	if len(ids) == 0 {
		return []*pricing.PricingService{}, nil
	}
	var rows []models.PricingServiceModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*pricing.PricingService, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a pricing service
func (r *PricingServiceRepository) Save(ctx context.Context, service *pricing.PricingService) error {
	return r.db.WithContext(ctx).Save(models.PricingServiceModelFromDomain(service)).Error
}
