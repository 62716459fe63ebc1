package pricing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/shared"
)

// Venture is a consuming unit (a service environment) costs are charged to.
// Ventures form a tree through ParentID.
type Venture struct {
	shared.BaseEntity
	VentureID       int64 // external natural key
	Name            string
	ParentID        *uuid.UUID
	Department      string
	BusinessSegment string
	ProfitCenter    string
	IsActive        bool
	ServiceID       *uuid.UUID // pricing service provided by this venture
	ServiceUID      string
	Environment     string
}

// NewVenture creates a new active venture
func NewVenture(ventureID int64, name string) (*Venture, error) {
	if ventureID <= 0 {
		return nil, shared.NewDomainError("INVALID_VENTURE_ID", "Venture ID must be positive")
	}
	return &Venture{
		BaseEntity: shared.NewBaseEntity(),
		VentureID:  ventureID,
		Name:       name,
		IsActive:   true,
	}, nil
}

// ProvidesService reports whether the venture provides the given pricing service
func (v *Venture) ProvidesService(serviceID uuid.UUID) bool {
	return v.ServiceID != nil && *v.ServiceID == serviceID
}

// Path renders the hierarchical name "root/child/self".
// ancestors are ordered from the root down and exclude the venture itself.
func (v *Venture) Path(ancestors []*Venture) string {
	names := make([]string, 0, len(ancestors)+1)
	for _, a := range ancestors {
		names = append(names, a.Name)
	}
	names = append(names, v.Name)
	return strings.Join(names, "/")
}
