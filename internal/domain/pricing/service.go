package pricing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/shared"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PricingService is a service whose cost is redistributed to its consumers
type PricingService struct {
	shared.BaseEntity
	Name   string
	Symbol string
}

// NewPricingService creates a new pricing service
func NewPricingService(name string) (*PricingService, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Pricing service name cannot be empty")
	}
	return &PricingService{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Symbol:     Symbolize(name),
	}, nil
}

var hundred = decimal.NewFromInt(100)

// ServiceUsageType is a dependency edge: usage of UsageTypeID measures how much
// of ServiceID is consumed, weighted by Percent while Period is valid.
// Percents on edges of one usage type are weights and need not sum to 100.
type ServiceUsageType struct {
	shared.BaseEntity
	UsageTypeID uuid.UUID
	ServiceID   uuid.UUID
	Period      valueobject.DateRange
	Percent     decimal.Decimal
}

// NewServiceUsageTypeEdge creates a dependency edge
func NewServiceUsageTypeEdge(usageTypeID, serviceID uuid.UUID, period valueobject.DateRange, percent decimal.Decimal) (*ServiceUsageType, error) {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return nil, ErrInvalidPercent
	}
	if period.IsZero() {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Edge period cannot be empty")
	}
	return &ServiceUsageType{
		BaseEntity:  shared.NewBaseEntity(),
		UsageTypeID: usageTypeID,
		ServiceID:   serviceID,
		Period:      period,
		Percent:     percent,
	}, nil
}

// ActiveOn reports whether the edge is valid on the given day
func (e *ServiceUsageType) ActiveOn(day time.Time) bool {
	return e.Period.Contains(day)
}
