package persistence

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// VentureRepository implements pricing.VentureRepository using GORM
type VentureRepository struct {
	db *gorm.DB
}

// NewVentureRepository creates a new VentureRepository
func NewVentureRepository(db *gorm.DB) *VentureRepository {
	return &VentureRepository{db: db}
}

func (r *VentureRepository) first(ctx context.Context, query string, args ...any) (*pricing.Venture, error) {
	var model models.VentureModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *VentureRepository) find(db *gorm.DB) ([]*pricing.Venture, error) {
	var rows []models.VentureModel
	if err := db.Order("name").Order("venture_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*pricing.Venture, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// FindByID finds a venture by its ID
func (r *VentureRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.Venture, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByVentureID finds a venture by its external venture ID
func (r *VentureRepository) FindByVentureID(ctx context.Context, ventureID int64) (*pricing.Venture, error) {
	return r.first(ctx, "venture_id = ?", ventureID)
}

// FindByServiceEnvironment finds the venture of a service environment
func (r *VentureRepository) FindByServiceEnvironment(ctx context.Context, serviceUID, environment string) (*pricing.Venture, error) {
	return r.first(ctx, "service_uid = ? AND environment = ?", serviceUID, environment)
}

// FindByService returns the ventures providing a pricing service
func (r *VentureRepository) FindByService(ctx context.Context, serviceID uuid.UUID) ([]*pricing.Venture, error) {
	return r.find(r.db.WithContext(ctx).Where("service_id = ?", serviceID))
}

// FindAll returns ventures ordered by name
func (r *VentureRepository) FindAll(ctx context.Context, activeOnly bool) ([]*pricing.Venture, error) {
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	return r.find(db)
}

// Ancestors walks ParentID up to the root and returns the chain root first
func (r *VentureRepository) Ancestors(ctx context.Context, venture *pricing.Venture) ([]*pricing.Venture, error) {
	var chain []*pricing.Venture
	seen := map[uuid.UUID]bool{venture.ID: true}
	parentID := venture.ParentID
	for parentID != nil {
		if seen[*parentID] {
			return nil, fmt.Errorf("venture %d has a cyclic parent chain", venture.VentureID)
		}
		seen[*parentID] = true
		parent, err := r.FindByID(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load parent %s: %w", *parentID, err)
		}
		chain = append(chain, parent)
		parentID = parent.ParentID
	}
	slices.Reverse(chain)
	return chain, nil
}

// Save creates or updates a venture
func (r *VentureRepository) Save(ctx context.Context, venture *pricing.Venture) error {
	return r.db.WithContext(ctx).Save(models.VentureModelFromDomain(venture)).Error
}
