package allocation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateRange(from, to time.Time) valueobject.DateRange {
	return valueobject.MustNewDateRange(from, to)
}

// usageBase reproduces the base usage scenario: four ventures using a unit
// priced type and a pooled, per-warehouse type every day from 8 to 22 October
// 2013, with three consecutive price definitions.
type usageBase struct {
	store      *memoryStore
	unitType   *pricing.UsageType
	pooledType *pricing.UsageType
	wh1, wh2   *pricing.Warehouse
	ventures   []*pricing.Venture
}

func (f *usageBase) ventureIDs(idx ...int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(idx))
	for _, i := range idx {
		ids = append(ids, f.ventures[i].ID)
	}
	return ids
}

func (f *usageBase) engine(strict bool, cfg EngineConfig) *Engine {
	logger := zap.NewNop()
	resolver := NewPriceResolver(fakePriceRepo{f.store}, fakeWarehouseRepo{f.store}, strict, logger)
	return NewEngine(resolver, NewUsageAggregator(fakeUsageRepo{f.store}), logger, cfg)
}

func newUsageBase(t *testing.T) *usageBase {
	t.Helper()
	s := newMemoryStore()
	f := &usageBase{store: s}

	var err error
	f.unitType, err = pricing.NewUsageType("UsageType1", "ut1", false, false)
	require.NoError(t, err)
	f.pooledType, err = pricing.NewUsageType("UsageType2", "ut2", true, true)
	require.NoError(t, err)
	s.usageTypes[f.unitType.ID] = f.unitType
	s.usageTypes[f.pooledType.ID] = f.pooledType

	f.wh1, err = pricing.NewWarehouse("Warehouse1")
	require.NoError(t, err)
	f.wh2, err = pricing.NewWarehouse("Warehouse2")
	require.NoError(t, err)
	s.warehouses = []*pricing.Warehouse{f.wh2, f.wh1}

	for i := 1; i <= 4; i++ {
		v, err := pricing.NewVenture(int64(i), "Venture"+string(rune('0'+i)))
		require.NoError(t, err)
		f.ventures = append(f.ventures, v)
	}
	s.ventures = f.ventures

	periods := []valueobject.DateRange{
		dateRange(day(2013, 10, 5), day(2013, 10, 12)),
		dateRange(day(2013, 10, 13), day(2013, 10, 17)),
		dateRange(day(2013, 10, 18), day(2013, 10, 25)),
	}
	unitPrices := [][2]int64{{10, 50}, {20, 60}, {30, 70}}
	pooledCosts := map[*pricing.Warehouse][][2]int64{
		f.wh1: {{3600, 2400}, {5400, 5400}, {4800, 12000}},
		f.wh2: {{3600, 5400}, {3600, 1200}, {7200, 3600}},
	}
	for i, period := range periods {
		p, err := pricing.NewUsagePrice(f.unitType.ID, nil, period)
		require.NoError(t, err)
		p.WithPrices(decimal.NewFromInt(unitPrices[i][0]), decimal.NewFromInt(unitPrices[i][1]))
		s.prices = append(s.prices, p)

		for _, wh := range []*pricing.Warehouse{f.wh1, f.wh2} {
			p, err := pricing.NewUsagePrice(f.pooledType.ID, &wh.ID, period)
			require.NoError(t, err)
			costs := pooledCosts[wh][i]
			p.WithCosts(decimal.NewFromInt(costs[0]), decimal.NewFromInt(costs[1]))
			s.prices = append(s.prices, p)
		}
	}

	// pooled usage alternates warehouses daily, starting at Warehouse2 on the 8th
	warehouses := []*pricing.Warehouse{f.wh1, f.wh2}
	j := 1
	for d := day(2013, 10, 8); !d.After(day(2013, 10, 22)); d = d.AddDate(0, 0, 1) {
		for k, v := range f.ventures {
			for i, ut := range []*pricing.UsageType{f.unitType, f.pooledType} {
				u, err := pricing.NewDailyUsage(ut.ID, v.ID, d, float64(10*(i+1)*(k+1)))
				require.NoError(t, err)
				if ut.ByWarehouse {
					u.AtWarehouse(warehouses[j%2].ID)
				}
				s.usages = append(s.usages, u)
			}
		}
		j++
	}
	return f
}

// dependencyBase: ps1 is provided by two ventures which use service usage
// types measuring ps2 and ps3.
type dependencyBase struct {
	store         *memoryStore
	ps1, ps2, ps3 *pricing.PricingService
}

func (f *dependencyBase) resolver() *DependencyResolver {
	return NewDependencyResolver(
		fakeEdgeRepo{f.store},
		fakeVentureRepo{f.store},
		fakeServiceRepo{f.store},
		fakeUsageRepo{f.store},
		zap.NewNop(),
	)
}

func newDependencyBase(t *testing.T) *dependencyBase {
	t.Helper()
	s := newMemoryStore()
	f := &dependencyBase{store: s}

	var err error
	f.ps1, err = pricing.NewPricingService("Service1")
	require.NoError(t, err)
	f.ps2, err = pricing.NewPricingService("Service2")
	require.NoError(t, err)
	f.ps3, err = pricing.NewPricingService("Service3")
	require.NoError(t, err)
	s.services = []*pricing.PricingService{f.ps3, f.ps1, f.ps2}

	se1, _ := pricing.NewVenture(1, "se1")
	se2, _ := pricing.NewVenture(2, "se2")
	se1.ServiceID = &f.ps1.ID
	se2.ServiceID = &f.ps1.ID
	s.ventures = []*pricing.Venture{se1, se2}

	var uts []*pricing.UsageType
	for _, name := range []string{"ut1", "ut2", "ut3"} {
		ut, err := pricing.NewServiceUsageType(name, name)
		require.NoError(t, err)
		s.usageTypes[ut.ID] = ut
		uts = append(uts, ut)
	}

	october := dateRange(day(2013, 10, 1), day(2013, 10, 30))
	for _, e := range []struct {
		ut      *pricing.UsageType
		service *pricing.PricingService
		percent int64
	}{
		{uts[0], f.ps2, 50},
		{uts[1], f.ps2, 50},
		{uts[2], f.ps3, 100},
	} {
		edge, err := pricing.NewServiceUsageTypeEdge(e.ut.ID, e.service.ID, october, decimal.NewFromInt(e.percent))
		require.NoError(t, err)
		s.edges = append(s.edges, edge)
	}

	wh, _ := pricing.NewWarehouse("Warehouse1")
	for _, u := range []struct {
		ut      *pricing.UsageType
		venture *pricing.Venture
		date    time.Time
		atWh    bool
	}{
		{uts[0], se1, day(2013, 10, 3), false},
		{uts[1], se1, day(2013, 10, 20), false},
		{uts[0], se2, day(2013, 10, 28), true},
		{uts[2], se2, day(2013, 10, 3), false},
	} {
		du, err := pricing.NewDailyUsage(u.ut.ID, u.venture.ID, u.date, 100)
		require.NoError(t, err)
		if u.atWh {
			du.AtWarehouse(wh.ID)
		}
		s.usages = append(s.usages, du)
	}
	return f
}
