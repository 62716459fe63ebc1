package pricing

import (
	"strings"

	"github.com/quamilek/ralph-pricing/internal/domain/shared"
)

// Warehouse is a location (data center) prices can be bound to
type Warehouse struct {
	shared.BaseEntity
	Name         string
	ShowInReport bool
}

// NewWarehouse creates a new warehouse
func NewWarehouse(name string) (*Warehouse, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	return &Warehouse{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		ShowInReport: true,
	}, nil
}
