package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// UsageTypeModel is the persistence model for pricing.UsageType
type UsageTypeModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Symbol      string `gorm:"type:varchar(255);not null;uniqueIndex"`
	ByWarehouse bool   `gorm:"not null"`
	ByCost      bool   `gorm:"not null"`
	Kind        string `gorm:"type:varchar(16);not null"`
}

// TableName returns the table name
func (UsageTypeModel) TableName() string { return "usage_types" }

// ToDomain converts the model to a domain entity
func (m *UsageTypeModel) ToDomain() *pricing.UsageType {
	return &pricing.UsageType{
		BaseEntity:  m.BaseModel.Entity(),
		Name:        m.Name,
		Symbol:      m.Symbol,
		ByWarehouse: m.ByWarehouse,
		ByCost:      m.ByCost,
		Kind:        pricing.UsageTypeKind(m.Kind),
	}
}

// UsageTypeModelFromDomain creates a model from a domain entity
func UsageTypeModelFromDomain(e *pricing.UsageType) *UsageTypeModel {
	m := &UsageTypeModel{
		Name:        e.Name,
		Symbol:      e.Symbol,
		ByWarehouse: e.ByWarehouse,
		ByCost:      e.ByCost,
		Kind:        e.Kind.String(),
	}
	m.SetEntity(e.BaseEntity)
	return m
}

// WarehouseModel is the persistence model for pricing.Warehouse
type WarehouseModel struct {
	BaseModel
	Name         string `gorm:"type:varchar(255);not null;uniqueIndex"`
	ShowInReport bool   `gorm:"not null"`
}

// TableName returns the table name
func (WarehouseModel) TableName() string { return "warehouses" }

// ToDomain converts the model to a domain entity
func (m *WarehouseModel) ToDomain() *pricing.Warehouse {
	return &pricing.Warehouse{
		BaseEntity:   m.BaseModel.Entity(),
		Name:         m.Name,
		ShowInReport: m.ShowInReport,
	}
}

// WarehouseModelFromDomain creates a model from a domain entity
func WarehouseModelFromDomain(e *pricing.Warehouse) *WarehouseModel {
	m := &WarehouseModel{Name: e.Name, ShowInReport: e.ShowInReport}
	m.SetEntity(e.BaseEntity)
	return m
}

// VentureModel is the persistence model for pricing.Venture
type VentureModel struct {
	BaseModel
	VentureID       int64      `gorm:"not null;uniqueIndex"`
	Name            string     `gorm:"type:varchar(255);not null"`
	ParentID        *uuid.UUID `gorm:"type:uuid;index"`
	Department      string     `gorm:"type:varchar(255);not null"`
	BusinessSegment string     `gorm:"type:varchar(255);not null"`
	ProfitCenter    string     `gorm:"type:varchar(255);not null"`
	IsActive        bool       `gorm:"not null"`
	ServiceID       *uuid.UUID `gorm:"type:uuid;index"`
	ServiceUID      string     `gorm:"type:varchar(255);not null;index:idx_ventures_service_environment"`
	Environment     string     `gorm:"type:varchar(255);not null;index:idx_ventures_service_environment"`
}

// TableName returns the table name
func (VentureModel) TableName() string { return "ventures" }

// ToDomain converts the model to a domain entity
func (m *VentureModel) ToDomain() *pricing.Venture {
	return &pricing.Venture{
		BaseEntity:      m.BaseModel.Entity(),
		VentureID:       m.VentureID,
		Name:            m.Name,
		ParentID:        m.ParentID,
		Department:      m.Department,
		BusinessSegment: m.BusinessSegment,
		ProfitCenter:    m.ProfitCenter,
		IsActive:        m.IsActive,
		ServiceID:       m.ServiceID,
		ServiceUID:      m.ServiceUID,
		Environment:     m.Environment,
	}
}

// VentureModelFromDomain creates a model from a domain entity
func VentureModelFromDomain(e *pricing.Venture) *VentureModel {
	m := &VentureModel{
		VentureID:       e.VentureID,
		Name:            e.Name,
		ParentID:        e.ParentID,
		Department:      e.Department,
		BusinessSegment: e.BusinessSegment,
		ProfitCenter:    e.ProfitCenter,
		IsActive:        e.IsActive,
		ServiceID:       e.ServiceID,
		ServiceUID:      e.ServiceUID,
		Environment:     e.Environment,
	}
	m.SetEntity(e.BaseEntity)
	return m
}

// PricingServiceModel is the persistence model for pricing.PricingService
type PricingServiceModel struct {
	BaseModel
	Name   string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Symbol string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name
func (PricingServiceModel) TableName() string { return "pricing_services" }

// ToDomain converts the model to a domain entity
func (m *PricingServiceModel) ToDomain() *pricing.PricingService {
	return &pricing.PricingService{
		BaseEntity: m.BaseModel.Entity(),
		Name:       m.Name,
		Symbol:     m.Symbol,
	}
}

// PricingServiceModelFromDomain creates a model from a domain entity
func PricingServiceModelFromDomain(e *pricing.PricingService) *PricingServiceModel {
	m := &PricingServiceModel{Name: e.Name, Symbol: e.Symbol}
	m.SetEntity(e.BaseEntity)
	return m
}

// ServiceUsageTypeModel is the persistence model for pricing.ServiceUsageType
type ServiceUsageTypeModel struct {
	BaseModel
	UsageTypeID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ServiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	StartDate   time.Time       `gorm:"type:date;not null"`
	EndDate     time.Time       `gorm:"type:date;not null"`
	Percent     decimal.Decimal `gorm:"type:numeric(5,2);not null"`
}

// TableName returns the table name
func (ServiceUsageTypeModel) TableName() string { return "service_usage_types" }

// ToDomain converts the model to a domain entity
func (m *ServiceUsageTypeModel) ToDomain() (*pricing.ServiceUsageType, error) {
	period, err := valueobject.NewDateRange(m.StartDate, m.EndDate)
	if err != nil {
		return nil, err
	}
	return &pricing.ServiceUsageType{
		BaseEntity:  m.BaseModel.Entity(),
		UsageTypeID: m.UsageTypeID,
		ServiceID:   m.ServiceID,
		Period:      period,
		Percent:     m.Percent,
	}, nil
}

// ServiceUsageTypeModelFromDomain creates a model from a domain entity
func ServiceUsageTypeModelFromDomain(e *pricing.ServiceUsageType) *ServiceUsageTypeModel {
	m := &ServiceUsageTypeModel{
		UsageTypeID: e.UsageTypeID,
		ServiceID:   e.ServiceID,
		StartDate:   e.Period.Start(),
		EndDate:     e.Period.End(),
		Percent:     e.Percent,
	}
	m.SetEntity(e.BaseEntity)
	return m
}

// UsagePriceModel is the persistence model for pricing.UsagePrice
type UsagePriceModel struct {
	BaseModel
	UsageTypeID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_usage_prices_lookup,priority:1"`
	WarehouseID   *uuid.UUID      `gorm:"type:uuid;index:idx_usage_prices_lookup,priority:2"`
	StartDate     time.Time       `gorm:"type:date;not null;index:idx_usage_prices_lookup,priority:3"`
	EndDate       time.Time       `gorm:"type:date;not null"`
	Price         decimal.Decimal `gorm:"type:numeric(16,6);not null"`
	ForecastPrice decimal.Decimal `gorm:"type:numeric(16,6);not null"`
	Cost          decimal.Decimal `gorm:"type:numeric(16,2);not null"`
	ForecastCost  decimal.Decimal `gorm:"type:numeric(16,2);not null"`
}

// TableName returns the table name
func (UsagePriceModel) TableName() string { return "usage_prices" }

// ToDomain converts the model to a domain entity
func (m *UsagePriceModel) ToDomain() (*pricing.UsagePrice, error) {
	period, err := valueobject.NewDateRange(m.StartDate, m.EndDate)
	if err != nil {
		return nil, err
	}
	return &pricing.UsagePrice{
		BaseEntity:    m.BaseModel.Entity(),
		UsageTypeID:   m.UsageTypeID,
		WarehouseID:   m.WarehouseID,
		Period:        period,
		Price:         m.Price,
		ForecastPrice: m.ForecastPrice,
		Cost:          m.Cost,
		ForecastCost:  m.ForecastCost,
	}, nil
}

// UsagePriceModelFromDomain creates a model from a domain entity
func UsagePriceModelFromDomain(e *pricing.UsagePrice) *UsagePriceModel {
	m := &UsagePriceModel{
		UsageTypeID:   e.UsageTypeID,
		WarehouseID:   e.WarehouseID,
		StartDate:     e.Period.Start(),
		EndDate:       e.Period.End(),
		Price:         e.Price,
		ForecastPrice: e.ForecastPrice,
		Cost:          e.Cost,
		ForecastCost:  e.ForecastCost,
	}
	m.SetEntity(e.BaseEntity)
	return m
}

// DailyUsageModel is the persistence model for pricing.DailyUsage
type DailyUsageModel struct {
	BaseModel
	UsageTypeID uuid.UUID  `gorm:"type:uuid;not null;index:idx_daily_usages_type_date,priority:1;index:idx_daily_usages_type_warehouse_date,priority:1"`
	VentureID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Date        time.Time  `gorm:"type:date;not null;index:idx_daily_usages_type_date,priority:2;index:idx_daily_usages_type_warehouse_date,priority:3"`
	WarehouseID *uuid.UUID `gorm:"type:uuid;index:idx_daily_usages_type_warehouse_date,priority:2"`
	Value       float64    `gorm:"type:double precision;not null"`
}

// TableName returns the table name
func (DailyUsageModel) TableName() string { return "daily_usages" }

// ToDomain converts the model to a domain entity
func (m *DailyUsageModel) ToDomain() *pricing.DailyUsage {
	return &pricing.DailyUsage{
		BaseEntity:  m.BaseModel.Entity(),
		UsageTypeID: m.UsageTypeID,
		VentureID:   m.VentureID,
		Date:        valueobject.Day(m.Date),
		WarehouseID: m.WarehouseID,
		Value:       m.Value,
	}
}

// DailyUsageModelFromDomain creates a model from a domain entity
func DailyUsageModelFromDomain(e *pricing.DailyUsage) *DailyUsageModel {
	m := &DailyUsageModel{
		UsageTypeID: e.UsageTypeID,
		VentureID:   e.VentureID,
		Date:        valueobject.Day(e.Date),
		WarehouseID: e.WarehouseID,
		Value:       e.Value,
	}
	m.SetEntity(e.BaseEntity)
	return m
}

// ExtraCostTypeModel is the persistence model for pricing.ExtraCostType
type ExtraCostTypeModel struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

// TableName returns the table name
func (ExtraCostTypeModel) TableName() string { return "extra_cost_types" }

// ExtraCostModel is the persistence model for pricing.ExtraCost.
// The natural key spans every column that defines the cost.
type ExtraCostModel struct {
	BaseModel
	TypeID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_extra_costs_natural,priority:3"`
	VentureID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_extra_costs_natural,priority:5;index"`
	StartDate time.Time       `gorm:"type:date;not null;uniqueIndex:idx_extra_costs_natural,priority:1"`
	EndDate   time.Time       `gorm:"type:date;not null;uniqueIndex:idx_extra_costs_natural,priority:2"`
	Price     decimal.Decimal `gorm:"type:numeric(16,6);not null;uniqueIndex:idx_extra_costs_natural,priority:4"`
}

// TableName returns the table name
func (ExtraCostModel) TableName() string { return "extra_costs" }

// ToDomain converts the model to a domain entity
func (m *ExtraCostModel) ToDomain() (*pricing.ExtraCost, error) {
	period, err := valueobject.NewDateRange(m.StartDate, m.EndDate)
	if err != nil {
		return nil, err
	}
	return &pricing.ExtraCost{
		BaseEntity: m.BaseModel.Entity(),
		TypeID:     m.TypeID,
		VentureID:  m.VentureID,
		Period:     period,
		Price:      m.Price,
	}, nil
}

// TenantInfoModel is the persistence model for pricing.TenantInfo
type TenantInfoModel struct {
	BaseModel
	ExternalID string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name       string    `gorm:"type:varchar(255);not null"`
	Remarks    string    `gorm:"type:text;not null"`
	VentureID  uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name
func (TenantInfoModel) TableName() string { return "tenant_infos" }

// ToDomain converts the model to a domain entity
func (m *TenantInfoModel) ToDomain() *pricing.TenantInfo {
	return &pricing.TenantInfo{
		BaseEntity: m.BaseModel.Entity(),
		ExternalID: m.ExternalID,
		Name:       m.Name,
		Remarks:    m.Remarks,
		VentureID:  m.VentureID,
	}
}

// TenantInfoModelFromDomain creates a model from a domain entity
func TenantInfoModelFromDomain(e *pricing.TenantInfo) *TenantInfoModel {
	m := &TenantInfoModel{
		ExternalID: e.ExternalID,
		Name:       e.Name,
		Remarks:    e.Remarks,
		VentureID:  e.VentureID,
	}
	m.SetEntity(e.BaseEntity)
	return m
}

// DailyTenantInfoModel is the persistence model for pricing.DailyTenantInfo
type DailyTenantInfoModel struct {
	BaseModel
	TenantInfoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_tenant_infos_day,priority:1"`
	Date         time.Time `gorm:"type:date;not null;uniqueIndex:idx_daily_tenant_infos_day,priority:2"`
	VentureID    uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name
func (DailyTenantInfoModel) TableName() string { return "daily_tenant_infos" }

// DailyTenantInfoModelFromDomain creates a model from a domain entity
func DailyTenantInfoModelFromDomain(e *pricing.DailyTenantInfo) *DailyTenantInfoModel {
	m := &DailyTenantInfoModel{
		TenantInfoID: e.TenantInfoID,
		Date:         valueobject.Day(e.Date),
		VentureID:    e.VentureID,
	}
	m.SetEntity(e.BaseEntity)
	return m
}

// All returns every model, in dependency order, for AutoMigrate in tests
func All() []any {
	return []any{
		&UsageTypeModel{},
		&WarehouseModel{},
		&PricingServiceModel{},
		&VentureModel{},
		&ServiceUsageTypeModel{},
		&UsagePriceModel{},
		&DailyUsageModel{},
		&ExtraCostTypeModel{},
		&ExtraCostModel{},
		&TenantInfoModel{},
		&DailyTenantInfoModel{},
	}
}
