package collect

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/quamilek/ralph-pricing/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestVenture(t *testing.T, id int64, uid, env string) *pricing.Venture {
	t.Helper()
	v, err := pricing.NewVenture(id, fmt.Sprintf("Venture%d", id))
	require.NoError(t, err)
	v.ServiceUID = uid
	v.Environment = env
	return v
}

func tenantRecords(n int, uid, env string) []TenantRecord {
	records := make([]TenantRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, TenantRecord{
			ID:          fmt.Sprintf("tenant-%d", i),
			Name:        fmt.Sprintf("Tenant %d", i),
			ServiceUID:  uid,
			Environment: env,
		})
	}
	return records
}

func TestTenantCollector_Collect(t *testing.T) {
	ctx := context.Background()
	today := *date(2014, 12, 10)
	unknownEnv := &ServiceEnvironment{ServiceUID: "sc-unknown", Environment: "prod"}

	t.Run("new tenants", func(t *testing.T) {
		ventures := new(mockVentureRepository)
		tenants := new(mockTenantInfoRepository)
		unknown := newTestVenture(t, 1, "sc-unknown", "prod")
		owner := newTestVenture(t, 2, "sc-1", "prod")

		ventures.On("FindByServiceEnvironment", ctx, "sc-unknown", "prod").Return(unknown, nil)
		ventures.On("FindByServiceEnvironment", ctx, "sc-1", "prod").Return(owner, nil)
		tenants.On("FindByExternalID", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
		tenants.On("Save", ctx, mock.MatchedBy(func(ti *pricing.TenantInfo) bool {
			return ti.VentureID == owner.ID
		})).Return(nil).Times(5)
		tenants.On("SaveDaily", ctx, mock.MatchedBy(func(d *pricing.DailyTenantInfo) bool {
			return d.VentureID == owner.ID && d.Date.Equal(today)
		})).Return(nil).Times(5)

		collector := NewTenantCollector(ventures, tenants, staticTenantFeed{records: tenantRecords(5, "sc-1", "prod")}, unknownEnv, nil, zap.NewNop())
		result, err := collector.Collect(ctx, today)

		require.NoError(t, err)
		assert.Equal(t, Result{OK: true, Message: "5 new tenants, 0 updated, 5 total"}, result)
		tenants.AssertExpectations(t)
	})

	t.Run("existing tenants are updated", func(t *testing.T) {
		ventures := new(mockVentureRepository)
		tenants := new(mockTenantInfoRepository)
		unknown := newTestVenture(t, 1, "sc-unknown", "prod")
		existing, err := pricing.NewTenantInfo("tenant-0")
		require.NoError(t, err)

		ventures.On("FindByServiceEnvironment", ctx, "sc-unknown", "prod").Return(unknown, nil)
		ventures.On("FindByServiceEnvironment", ctx, "sc-1", "prod").Return(unknown, nil)
		tenants.On("FindByExternalID", ctx, "tenant-0").Return(existing, nil)
		tenants.On("FindByExternalID", ctx, "tenant-1").Return(nil, shared.ErrNotFound)
		tenants.On("Save", ctx, mock.Anything).Return(nil)
		tenants.On("SaveDaily", ctx, mock.Anything).Return(nil)

		collector := NewTenantCollector(ventures, tenants, staticTenantFeed{records: tenantRecords(2, "sc-1", "prod")}, unknownEnv, nil, zap.NewNop())
		result, err := collector.Collect(ctx, today)

		require.NoError(t, err)
		assert.Equal(t, "1 new tenants, 1 updated, 2 total", result.Message)
		assert.Equal(t, "Tenant 0", existing.Name)
	})

	t.Run("missing service environment falls back to unknown", func(t *testing.T) {
		ventures := new(mockVentureRepository)
		tenants := new(mockTenantInfoRepository)
		unknown := newTestVenture(t, 1, "sc-unknown", "prod")

		ventures.On("FindByServiceEnvironment", ctx, "sc-unknown", "prod").Return(unknown, nil)
		ventures.On("FindByServiceEnvironment", ctx, "sc-missing", "prod").Return(nil, shared.ErrNotFound)
		tenants.On("FindByExternalID", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
		tenants.On("Save", ctx, mock.MatchedBy(func(ti *pricing.TenantInfo) bool {
			return ti.VentureID == unknown.ID
		})).Return(nil).Once()
		tenants.On("SaveDaily", ctx, mock.Anything).Return(nil).Once()

		collector := NewTenantCollector(ventures, tenants, staticTenantFeed{records: tenantRecords(1, "sc-missing", "prod")}, unknownEnv, nil, zap.NewNop())
		result, err := collector.Collect(ctx, today)

		require.NoError(t, err)
		assert.Equal(t, "1 new tenants, 0 updated, 1 total", result.Message)
		tenants.AssertExpectations(t)
	})

	t.Run("unknown service environment not configured", func(t *testing.T) {
		collector := NewTenantCollector(new(mockVentureRepository), new(mockTenantInfoRepository), staticTenantFeed{}, nil, nil, zap.NewNop())
		result, err := collector.Collect(ctx, today)

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotConfigured))
		assert.True(t, errors.Is(err, pricing.ErrUnknownServiceEnvironmentNotConfigured))
		assert.Equal(t, Result{OK: false, Message: `Unknown service environment not configured for "tenant"`}, result)
	})

	t.Run("configured unknown service environment does not exist", func(t *testing.T) {
		ventures := new(mockVentureRepository)
		ventures.On("FindByServiceEnvironment", ctx, "sc-unknown", "prod").Return(nil, shared.ErrNotFound)

		collector := NewTenantCollector(ventures, new(mockTenantInfoRepository), staticTenantFeed{}, unknownEnv, nil, zap.NewNop())
		_, err := collector.Collect(ctx, today)

		assert.True(t, errors.Is(err, shared.ErrNotConfigured))
	})

	t.Run("failing tenant is counted in total only", func(t *testing.T) {
		ventures := new(mockVentureRepository)
		tenants := new(mockTenantInfoRepository)
		unknown := newTestVenture(t, 1, "sc-unknown", "prod")

		ventures.On("FindByServiceEnvironment", ctx, mock.Anything, mock.Anything).Return(unknown, nil)
		tenants.On("FindByExternalID", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
		tenants.On("Save", ctx, mock.Anything).Return(errors.New("db down")).Once()
		tenants.On("Save", ctx, mock.Anything).Return(nil)
		tenants.On("SaveDaily", ctx, mock.Anything).Return(nil)

		collector := NewTenantCollector(ventures, tenants, staticTenantFeed{records: tenantRecords(3, "sc-1", "prod")}, unknownEnv, nil, zap.NewNop())
		result, err := collector.Collect(ctx, today)

		require.NoError(t, err)
		assert.Equal(t, "2 new tenants, 0 updated, 3 total", result.Message)
	})
}
