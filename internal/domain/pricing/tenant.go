package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/shared"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
)

// TenantInfo is a cloud tenant (project) owned by a venture
type TenantInfo struct {
	shared.BaseEntity
	ExternalID string
	Name       string
	Remarks    string
	VentureID  uuid.UUID
}

// NewTenantInfo creates a tenant with its external natural key
func NewTenantInfo(externalID string) (*TenantInfo, error) {
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant external ID cannot be empty")
	}
	return &TenantInfo{
		BaseEntity: shared.NewBaseEntity(),
		ExternalID: externalID,
	}, nil
}

// DailyTenantInfo records which venture owned a tenant on a given day
type DailyTenantInfo struct {
	shared.BaseEntity
	TenantInfoID uuid.UUID
	Date         time.Time
	VentureID    uuid.UUID
}

// NewDailyTenantInfo snapshots the tenant's current owner for date
func NewDailyTenantInfo(tenant *TenantInfo, date time.Time) *DailyTenantInfo {
	return &DailyTenantInfo{
		BaseEntity:   shared.NewBaseEntity(),
		TenantInfoID: tenant.ID,
		Date:         valueobject.Day(date),
		VentureID:    tenant.VentureID,
	}
}
