package collect

import (
	"context"
	"time"
)

// ExtraCostRecord is one extra cost delivered by an external feed
type ExtraCostRecord struct {
	Type      string     `json:"type" validate:"required"`
	VentureID int64      `json:"venture_id" validate:"gt=0"`
	Venture   string     `json:"venture"`
	Start     *time.Time `json:"start" validate:"required"`
	End       *time.Time `json:"end" validate:"omitempty,gtefield=Start"`
	Cost      float64    `json:"cost" validate:"gte=0"`
}

// TenantRecord is one cloud tenant delivered by an external feed
type TenantRecord struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name"`
	Remarks     string `json:"remarks"`
	ServiceUID  string `json:"service_uid"`
	Environment string `json:"environment"`
}

// ExtraCostFeed supplies already fetched extra cost records
type ExtraCostFeed interface {
	ExtraCosts(ctx context.Context) ([]ExtraCostRecord, error)
}

// TenantFeed supplies already fetched tenant records
type TenantFeed interface {
	Tenants(ctx context.Context) ([]TenantRecord, error)
}
