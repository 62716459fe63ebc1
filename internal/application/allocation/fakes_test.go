package allocation

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/domain/shared"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
)

// memoryStore backs the in-memory repositories used by the allocation tests
type memoryStore struct {
	usageTypes map[uuid.UUID]*pricing.UsageType
	warehouses []*pricing.Warehouse
	ventures   []*pricing.Venture
	services   []*pricing.PricingService
	edges      []*pricing.ServiceUsageType
	prices     []*pricing.UsagePrice
	usages     []*pricing.DailyUsage
}

func newMemoryStore() *memoryStore {
	return &memoryStore{usageTypes: make(map[uuid.UUID]*pricing.UsageType)}
}

type fakePriceRepo struct{ s *memoryStore }

func (r fakePriceRepo) FindOverlapping(_ context.Context, usageTypeID uuid.UUID, warehouseID *uuid.UUID, period valueobject.DateRange) ([]*pricing.UsagePrice, error) {
	var out []*pricing.UsagePrice
	for _, p := range r.s.prices {
		if p.UsageTypeID != usageTypeID || !p.Period.Overlaps(period) {
			continue
		}
		if (warehouseID == nil) != (p.WarehouseID == nil) {
			continue
		}
		if warehouseID != nil && *warehouseID != *p.WarehouseID {
			continue
		}
		out = append(out, p)
	}
	slices.SortStableFunc(out, func(a, b *pricing.UsagePrice) int {
		return a.Period.Start().Compare(b.Period.Start())
	})
	return out, nil
}

func (r fakePriceRepo) Save(_ context.Context, p *pricing.UsagePrice) error {
	r.s.prices = append(r.s.prices, p)
	return nil
}

type fakeWarehouseRepo struct{ s *memoryStore }

func (r fakeWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*pricing.Warehouse, error) {
	for _, w := range r.s.warehouses {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r fakeWarehouseRepo) FindAll(_ context.Context) ([]*pricing.Warehouse, error) {
	out := slices.Clone(r.s.warehouses)
	slices.SortFunc(out, func(a, b *pricing.Warehouse) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r fakeWarehouseRepo) Save(_ context.Context, w *pricing.Warehouse) error {
	r.s.warehouses = append(r.s.warehouses, w)
	return nil
}

type fakeUsageRepo struct{ s *memoryStore }

func (r fakeUsageRepo) matching(filter pricing.UsageFilter) []*pricing.DailyUsage {
	var out []*pricing.DailyUsage
	for _, u := range r.s.usages {
		if u.UsageTypeID != filter.UsageTypeID || !filter.Period.Contains(u.Date) {
			continue
		}
		if filter.VentureIDs != nil && !slices.Contains(filter.VentureIDs, u.VentureID) {
			continue
		}
		if filter.WarehouseID != nil && (u.WarehouseID == nil || *u.WarehouseID != *filter.WarehouseID) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func (r fakeUsageRepo) Save(_ context.Context, u *pricing.DailyUsage) error {
	r.s.usages = append(r.s.usages, u)
	return nil
}

func (r fakeUsageRepo) SaveBatch(_ context.Context, usages []*pricing.DailyUsage) error {
	r.s.usages = append(r.s.usages, usages...)
	return nil
}

func (r fakeUsageRepo) Sum(_ context.Context, filter pricing.UsageFilter) (float64, error) {
	var total float64
	for _, u := range r.matching(filter) {
		total += u.Value
	}
	return total, nil
}

func (r fakeUsageRepo) ActiveDays(_ context.Context, filter pricing.UsageFilter) ([]time.Time, error) {
	var days []time.Time
	for _, u := range r.matching(filter) {
		if u.Value != 0 && !slices.ContainsFunc(days, u.Date.Equal) {
			days = append(days, u.Date)
		}
	}
	slices.SortFunc(days, time.Time.Compare)
	return days, nil
}

type fakeEdgeRepo struct{ s *memoryStore }

func (r fakeEdgeRepo) FindActive(_ context.Context, period valueobject.DateRange) ([]*pricing.ServiceUsageType, error) {
	var out []*pricing.ServiceUsageType
	for _, e := range r.s.edges {
		ut, ok := r.s.usageTypes[e.UsageTypeID]
		if ok && ut.IsService() && e.Period.Overlaps(period) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r fakeEdgeRepo) Save(_ context.Context, e *pricing.ServiceUsageType) error {
	r.s.edges = append(r.s.edges, e)
	return nil
}

type fakeVentureRepo struct{ s *memoryStore }

func (r fakeVentureRepo) FindByID(_ context.Context, id uuid.UUID) (*pricing.Venture, error) {
	for _, v := range r.s.ventures {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r fakeVentureRepo) FindByVentureID(_ context.Context, ventureID int64) (*pricing.Venture, error) {
	for _, v := range r.s.ventures {
		if v.VentureID == ventureID {
			return v, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r fakeVentureRepo) FindByServiceEnvironment(_ context.Context, serviceUID, environment string) (*pricing.Venture, error) {
	for _, v := range r.s.ventures {
		if v.ServiceUID == serviceUID && v.Environment == environment {
			return v, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r fakeVentureRepo) FindByService(_ context.Context, serviceID uuid.UUID) ([]*pricing.Venture, error) {
	var out []*pricing.Venture
	for _, v := range r.s.ventures {
		if v.ProvidesService(serviceID) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r fakeVentureRepo) FindAll(_ context.Context, activeOnly bool) ([]*pricing.Venture, error) {
	var out []*pricing.Venture
	for _, v := range r.s.ventures {
		if !activeOnly || v.IsActive {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r fakeVentureRepo) Ancestors(_ context.Context, _ *pricing.Venture) ([]*pricing.Venture, error) {
	return nil, nil
}

func (r fakeVentureRepo) Save(_ context.Context, v *pricing.Venture) error {
	r.s.ventures = append(r.s.ventures, v)
	return nil
}

type fakeServiceRepo struct{ s *memoryStore }

func (r fakeServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*pricing.PricingService, error) {
	for _, ps := range r.s.services {
		if ps.ID == id {
			return ps, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r fakeServiceRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*pricing.PricingService, error) {
	var out []*pricing.PricingService
	for _, ps := range r.s.services {
		if slices.Contains(ids, ps.ID) {
			out = append(out, ps)
		}
	}
	return out, nil
}

func (r fakeServiceRepo) Save(_ context.Context, ps *pricing.PricingService) error {
	r.s.services = append(r.s.services, ps)
	return nil
}
