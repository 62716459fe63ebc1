package pricing

import (
	"strings"

	"github.com/quamilek/ralph-pricing/internal/domain/shared"
)

// UsageTypeKind tells whether a usage type measures a base resource or the
// capacity of another pricing service
type UsageTypeKind string

const (
	// UsageTypeKindBase measures a base resource (hardware, power, licences)
	UsageTypeKindBase UsageTypeKind = "BASE"
	// UsageTypeKindService measures how much of a pricing service is consumed
	UsageTypeKindService UsageTypeKind = "SERVICE"
)

// IsValid returns true if the kind is known
func (k UsageTypeKind) IsValid() bool {
	return k == UsageTypeKindBase || k == UsageTypeKindService
}

// String returns the string representation of UsageTypeKind
func (k UsageTypeKind) String() string {
	return string(k)
}

// UsageType is a measurable resource
type UsageType struct {
	shared.BaseEntity
	Name        string
	Symbol      string
	ByWarehouse bool // prices and usages are kept per warehouse
	ByCost      bool // a pooled cost is split instead of a unit price
	Kind        UsageTypeKind
}

// NewUsageType creates a new base usage type
func NewUsageType(name, symbol string, byWarehouse, byCost bool) (*UsageType, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Usage type name cannot be empty")
	}
	if symbol == "" {
		symbol = Symbolize(name)
	}
	return &UsageType{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Symbol:      symbol,
		ByWarehouse: byWarehouse,
		ByCost:      byCost,
		Kind:        UsageTypeKindBase,
	}, nil
}

// NewServiceUsageType creates a usage type measuring a pricing service
func NewServiceUsageType(name, symbol string) (*UsageType, error) {
	ut, err := NewUsageType(name, symbol, false, false)
	if err != nil {
		return nil, err
	}
	ut.Kind = UsageTypeKindService
	return ut, nil
}

// IsService reports whether the usage type measures a pricing service
func (u *UsageType) IsService() bool {
	return u.Kind == UsageTypeKindService
}

// Symbolize derives a column-safe symbol from a name: "CPU Hours" -> "cpu_hours"
func Symbolize(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			underscore = false
		default:
			if !underscore && b.Len() > 0 {
				b.WriteByte('_')
				underscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
