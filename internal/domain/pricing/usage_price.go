package pricing

import (
	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/shared"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// UsagePrice is a price definition of a usage type valid for Period.
// WarehouseID is set only for usage types priced per warehouse.
type UsagePrice struct {
	shared.BaseEntity
	UsageTypeID   uuid.UUID
	WarehouseID   *uuid.UUID
	Period        valueobject.DateRange
	Price         decimal.Decimal
	ForecastPrice decimal.Decimal
	Cost          decimal.Decimal
	ForecastCost  decimal.Decimal
}

// NewUsagePrice creates an empty price definition for a usage type
func NewUsagePrice(usageTypeID uuid.UUID, warehouseID *uuid.UUID, period valueobject.DateRange) (*UsagePrice, error) {
	if usageTypeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USAGE_TYPE", "Usage type ID cannot be empty")
	}
	if period.IsZero() {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Price period cannot be empty")
	}
	return &UsagePrice{
		BaseEntity:    shared.NewBaseEntity(),
		UsageTypeID:   usageTypeID,
		WarehouseID:   warehouseID,
		Period:        period,
		Price:         decimal.Zero,
		ForecastPrice: decimal.Zero,
		Cost:          decimal.Zero,
		ForecastCost:  decimal.Zero,
	}, nil
}

// WithPrices sets the real and forecast unit prices
func (p *UsagePrice) WithPrices(price, forecast decimal.Decimal) *UsagePrice {
	p.Price = price
	p.ForecastPrice = forecast
	return p
}

// WithCosts sets the real and forecast pooled costs
func (p *UsagePrice) WithCosts(cost, forecast decimal.Decimal) *UsagePrice {
	p.Cost = cost
	p.ForecastCost = forecast
	return p
}

// Allocation picks the allocation mode of this definition
func (p *UsagePrice) Allocation(byCost, forecast bool) AllocationMode {
	if byCost {
		if forecast {
			return PooledCost{Cost: p.ForecastCost}
		}
		return PooledCost{Cost: p.Cost}
	}
	if forecast {
		return UnitPrice{Price: p.ForecastPrice}
	}
	return UnitPrice{Price: p.Price}
}

// AllocationMode is how a price definition turns usage into cost.
// The set of variants is closed: UnitPrice and PooledCost.
type AllocationMode interface {
	allocationMode()
	String() string
}

// UnitPrice charges usage × price
type UnitPrice struct {
	Price decimal.Decimal
}

func (UnitPrice) allocationMode() {}

// String returns a description of the mode
func (m UnitPrice) String() string {
	return "unit price " + m.Price.String()
}

// PooledCost splits Cost proportionally to usage over the definition period
type PooledCost struct {
	Cost decimal.Decimal
}

func (PooledCost) allocationMode() {}

// String returns a description of the mode
func (m PooledCost) String() string {
	return "pooled cost " + m.Cost.String()
}
