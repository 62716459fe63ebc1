package pricing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/shared"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DaysPerMonth converts a monthly extra cost into a daily price
const DaysPerMonth = 30.5

// ExtraCostType groups extra costs (licences, support contracts)
type ExtraCostType struct {
	shared.BaseEntity
	Name string
}

// NewExtraCostType creates a new extra cost type
func NewExtraCostType(name string) (*ExtraCostType, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Extra cost type name cannot be empty")
	}
	return &ExtraCostType{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// ExtraCost is a flat daily price charged to a venture for Period.
// Open-ended costs end at valueobject.FarFuture.
type ExtraCost struct {
	shared.BaseEntity
	TypeID    uuid.UUID
	VentureID uuid.UUID
	Period    valueobject.DateRange
	Price     decimal.Decimal
}

// CostFor returns the cost of the days shared with period
func (c *ExtraCost) CostFor(period valueobject.DateRange) decimal.Decimal {
	days := c.Period.OverlapDays(period)
	if days == 0 {
		return decimal.Zero
	}
	return c.Price.Mul(decimal.NewFromInt(int64(days)))
}

// DailyPrice converts a monthly cost into a daily price.
// The division happens in float64, so identical inputs always give identical
// prices but tiny input differences may yield distinct rows.
func DailyPrice(monthlyCost float64) decimal.Decimal {
	return decimal.NewFromFloat(monthlyCost / DaysPerMonth)
}

// ExtraCostImport is one extra cost to be recorded with its natural keys
type ExtraCostImport struct {
	TypeName    string
	VentureID   int64
	VentureName string
	Period      valueobject.DateRange
	Price       decimal.Decimal
}

// ExtraCostPeriod builds the period of an extra cost. A nil end means open-ended.
func ExtraCostPeriod(start time.Time, end *time.Time) (valueobject.DateRange, error) {
	if end == nil {
		return valueobject.OpenDateRange(start), nil
	}
	return valueobject.NewDateRange(start, *end)
}
