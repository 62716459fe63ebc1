package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
)

// UsageTypeRepository defines persistence for usage types
type UsageTypeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UsageType, error)
	FindBySymbol(ctx context.Context, symbol string) (*UsageType, error)
	FindAll(ctx context.Context) ([]*UsageType, error)
	Save(ctx context.Context, usageType *UsageType) error
}

// WarehouseRepository defines persistence for warehouses
type WarehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	// FindAll returns warehouses ordered by name
	FindAll(ctx context.Context) ([]*Warehouse, error)
	Save(ctx context.Context, warehouse *Warehouse) error
}

// VentureRepository defines persistence for ventures
type VentureRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Venture, error)
	FindByVentureID(ctx context.Context, ventureID int64) (*Venture, error)
	FindByServiceEnvironment(ctx context.Context, serviceUID, environment string) (*Venture, error)
	// FindByService returns the ventures providing a pricing service
	FindByService(ctx context.Context, serviceID uuid.UUID) ([]*Venture, error)
	// FindAll returns ventures ordered by name, only active ones when activeOnly is set
	FindAll(ctx context.Context, activeOnly bool) ([]*Venture, error)
	// Ancestors returns the chain of parents ordered from the root down
	Ancestors(ctx context.Context, venture *Venture) ([]*Venture, error)
	Save(ctx context.Context, venture *Venture) error
}

// PricingServiceRepository defines persistence for pricing services
type PricingServiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PricingService, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*PricingService, error)
	Save(ctx context.Context, service *PricingService) error
}

// ServiceUsageTypeRepository defines persistence for dependency edges
type ServiceUsageTypeRepository interface {
	// FindActive returns edges whose usage type is of SERVICE kind and whose
	// period overlaps the given one
	FindActive(ctx context.Context, period valueobject.DateRange) ([]*ServiceUsageType, error)
	Save(ctx context.Context, edge *ServiceUsageType) error
}

// UsagePriceRepository defines persistence for price definitions
type UsagePriceRepository interface {
	// FindOverlapping returns definitions of a usage type overlapping period,
	// at the given warehouse (nil matches definitions without warehouse),
	// ordered by period start
	FindOverlapping(ctx context.Context, usageTypeID uuid.UUID, warehouseID *uuid.UUID, period valueobject.DateRange) ([]*UsagePrice, error)
	Save(ctx context.Context, price *UsagePrice) error
}

// DailyUsageRepository defines persistence and aggregation of daily usages
type DailyUsageRepository interface {
	Save(ctx context.Context, usage *DailyUsage) error
	SaveBatch(ctx context.Context, usages []*DailyUsage) error
	// Sum returns the total value of usages matching the filter, 0 when none match
	Sum(ctx context.Context, filter UsageFilter) (float64, error)
	// ActiveDays returns the distinct days with a nonzero usage matching the filter
	ActiveDays(ctx context.Context, filter UsageFilter) ([]time.Time, error)
}

// ExtraCostRepository defines persistence for extra costs
type ExtraCostRepository interface {
	// Record stores an extra cost, creating its type and venture when missing.
	// created is false when an identical extra cost already exists.
	Record(ctx context.Context, in ExtraCostImport) (created bool, err error)
	// FindOverlapping returns extra costs of the ventures overlapping period
	FindOverlapping(ctx context.Context, ventureIDs []uuid.UUID, period valueobject.DateRange) ([]*ExtraCost, error)
}

// TenantInfoRepository defines persistence for cloud tenants
type TenantInfoRepository interface {
	FindByExternalID(ctx context.Context, externalID string) (*TenantInfo, error)
	// Save inserts or updates the tenant, keyed by ExternalID
	Save(ctx context.Context, tenant *TenantInfo) error
	// SaveDaily inserts or updates the snapshot, keyed by tenant and date
	SaveDaily(ctx context.Context, daily *DailyTenantInfo) error
}
