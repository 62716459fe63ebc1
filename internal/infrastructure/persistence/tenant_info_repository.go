package persistence

import (
	"context"
	"errors"

	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// TenantInfoRepository implements pricing.TenantInfoRepository using GORM
type TenantInfoRepository struct {
	db *gorm.DB
}

// NewTenantInfoRepository creates a new TenantInfoRepository
func NewTenantInfoRepository(db *gorm.DB) *TenantInfoRepository {
	return &TenantInfoRepository{db: db}
}

// FindByExternalID finds a tenant by its external ID
func (r *TenantInfoRepository) FindByExternalID(ctx context.Context, externalID string) (*pricing.TenantInfo, error) {
	var model models.TenantInfoModel
	if err := r.db.WithContext(ctx).First(&model, "external_id = ?", externalID).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save inserts the tenant or updates the row with the same external ID.
// On update the tenant adopts the stored ID.
func (r *TenantInfoRepository) Save(ctx context.Context, tenant *pricing.TenantInfo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.TenantInfoModelFromDomain(tenant)

		var existing models.TenantInfoModel
		err := tx.Where("external_id = ?", tenant.ExternalID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(model).Error
		case err != nil:
			return err
		}

		tenant.ID = existing.ID
		tenant.CreatedAt = existing.CreatedAt
		return tx.Model(&existing).Updates(map[string]any{
			"name":       tenant.Name,
			"remarks":    tenant.Remarks,
			"venture_id": tenant.VentureID,
			"updated_at": tenant.UpdatedAt,
		}).Error
	})
}

// SaveDaily inserts the snapshot or updates the owner stored for the same
// tenant and day
func (r *TenantInfoRepository) SaveDaily(ctx context.Context, daily *pricing.DailyTenantInfo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.DailyTenantInfoModelFromDomain(daily)

		var existing models.DailyTenantInfoModel
		err := tx.Where("tenant_info_id = ? AND date = ?", model.TenantInfoID, model.Date).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(model).Error
		case err != nil:
			return err
		}

		daily.ID = existing.ID
		return tx.Model(&existing).Updates(map[string]any{
			"venture_id": daily.VentureID,
			"updated_at": daily.UpdatedAt,
		}).Error
	})
}
