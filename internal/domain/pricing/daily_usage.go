package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/shared"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
)

// DailyUsage is the usage of one usage type by one venture on one day,
// optionally at a warehouse
type DailyUsage struct {
	shared.BaseEntity
	UsageTypeID uuid.UUID
	VentureID   uuid.UUID
	Date        time.Time
	WarehouseID *uuid.UUID
	Value       float64
}

// NewDailyUsage creates a usage row truncated to its calendar day
func NewDailyUsage(usageTypeID, ventureID uuid.UUID, date time.Time, value float64) (*DailyUsage, error) {
	if usageTypeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USAGE_TYPE", "Usage type ID cannot be empty")
	}
	if ventureID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENTURE", "Venture ID cannot be empty")
	}
	if value < 0 {
		return nil, ErrNegativeUsage
	}
	return &DailyUsage{
		BaseEntity:  shared.NewBaseEntity(),
		UsageTypeID: usageTypeID,
		VentureID:   ventureID,
		Date:        valueobject.Day(date),
		Value:       value,
	}, nil
}

// AtWarehouse binds the usage to a warehouse
func (u *DailyUsage) AtWarehouse(warehouseID uuid.UUID) *DailyUsage {
	u.WarehouseID = &warehouseID
	return u
}

// UsageFilter selects daily usages for aggregation
type UsageFilter struct {
	UsageTypeID uuid.UUID
	VentureIDs  []uuid.UUID // nil means every venture
	WarehouseID *uuid.UUID  // nil means every warehouse
	Period      valueobject.DateRange
}
