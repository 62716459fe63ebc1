package collect

import (
	"context"

	"github.com/google/uuid"
	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/mock"
)

type mockExtraCostRepository struct {
	mock.Mock
}

func (m *mockExtraCostRepository) Record(ctx context.Context, in pricing.ExtraCostImport) (bool, error) {
	args := m.Called(ctx, in)
	return args.Bool(0), args.Error(1)
}

func (m *mockExtraCostRepository) FindOverlapping(ctx context.Context, ventureIDs []uuid.UUID, period valueobject.DateRange) ([]*pricing.ExtraCost, error) {
	args := m.Called(ctx, ventureIDs, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricing.ExtraCost), args.Error(1)
}

type mockVentureRepository struct {
	mock.Mock
}

func (m *mockVentureRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.Venture, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Venture), args.Error(1)
}

func (m *mockVentureRepository) FindByVentureID(ctx context.Context, ventureID int64) (*pricing.Venture, error) {
	args := m.Called(ctx, ventureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Venture), args.Error(1)
}

func (m *mockVentureRepository) FindByServiceEnvironment(ctx context.Context, serviceUID, environment string) (*pricing.Venture, error) {
	args := m.Called(ctx, serviceUID, environment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Venture), args.Error(1)
}

func (m *mockVentureRepository) FindByService(ctx context.Context, serviceID uuid.UUID) ([]*pricing.Venture, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricing.Venture), args.Error(1)
}

func (m *mockVentureRepository) FindAll(ctx context.Context, activeOnly bool) ([]*pricing.Venture, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricing.Venture), args.Error(1)
}

func (m *mockVentureRepository) Ancestors(ctx context.Context, venture *pricing.Venture) ([]*pricing.Venture, error) {
	args := m.Called(ctx, venture)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricing.Venture), args.Error(1)
}

func (m *mockVentureRepository) Save(ctx context.Context, venture *pricing.Venture) error {
	args := m.Called(ctx, venture)
	return args.Error(0)
}

type mockTenantInfoRepository struct {
	mock.Mock
}

func (m *mockTenantInfoRepository) FindByExternalID(ctx context.Context, externalID string) (*pricing.TenantInfo, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.TenantInfo), args.Error(1)
}

func (m *mockTenantInfoRepository) Save(ctx context.Context, tenant *pricing.TenantInfo) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *mockTenantInfoRepository) SaveDaily(ctx context.Context, daily *pricing.DailyTenantInfo) error {
	args := m.Called(ctx, daily)
	return args.Error(0)
}

type staticExtraCostFeed struct {
	records []ExtraCostRecord
	err     error
}

func (f staticExtraCostFeed) ExtraCosts(context.Context) ([]ExtraCostRecord, error) {
	return f.records, f.err
}

type staticTenantFeed struct {
	records []TenantRecord
	err     error
}

func (f staticTenantFeed) Tenants(context.Context) ([]TenantRecord, error) {
	return f.records, f.err
}
